// utilitário pequeno para formatação rápida/consistente de valores numéricos
// em headers/logs. Evita puxar fmt só para formatação simples e padroniza o
// float (strconv.FormatFloat), sem notação científica em valores comuns.

package gateway

import "strconv"

func formatInt(v int) string { return strconv.Itoa(v) }

func formatFloat(v float64) string {
	// sem depender de fmt, e sem notação científica para valores comuns
	return strconv.FormatFloat(v, 'f', -1, 64)
}
