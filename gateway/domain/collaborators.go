package domain

import (
	"context"
	"reflect"
)

// Document é um registro livre do armazém de documentos.
// Os valores seguem os tipos do decode JSON (string, float64, bool, ...).
type Document map[string]any

// CondOp é o operador de uma Condition.
type CondOp int

const (
	CondEq CondOp = iota
	CondIn
)

// Condition descreve um filtro simples campo/valor aplicado a documentos.
// O gateway só precisa de igualdade e pertencimento; qualquer coisa além
// disso pertence ao backend externo.
type Condition struct {
	Field string
	Op    CondOp
	// Value é o valor alvo (CondEq) ou um []any de valores aceitos (CondIn).
	Value any
}

// Eq constrói uma condição de igualdade.
func Eq(field string, v any) Condition {
	return Condition{Field: field, Op: CondEq, Value: v}
}

// In constrói uma condição de pertencimento.
func In(field string, vs ...any) Condition {
	return Condition{Field: field, Op: CondIn, Value: vs}
}

// Matches informa se o documento satisfaz a condição.
// Documento sem o campo nunca casa.
func (c Condition) Matches(doc Document) bool {
	v, ok := doc[c.Field]
	if !ok {
		return false
	}
	switch c.Op {
	case CondEq:
		return reflect.DeepEqual(v, c.Value)
	case CondIn:
		vs, _ := c.Value.([]any)
		for _, want := range vs {
			if reflect.DeepEqual(v, want) {
				return true
			}
		}
	}
	return false
}

// AddResult é o reconhecimento de uma inserção, com o id gerado.
type AddResult struct {
	ID string `json:"id"`
}

// DocumentStore é o contrato do armazém de documentos externo.
//
// Coleções precisam existir antes do uso: operações sobre coleção ausente
// devolvem ErrCollectionNotFound e o provisionamento é explícito via
// CreateCollection (o caso de primeiro uso do GET_TODOS depende disso).
type DocumentStore interface {
	GetAll(ctx context.Context, collection string) ([]Document, error)
	Add(ctx context.Context, collection string, doc Document) (AddResult, error)
	UpdateWhere(ctx context.Context, collection string, cond Condition, patch Document) (int64, error)
	RemoveWhere(ctx context.Context, collection string, cond Condition) (int64, error)
	CreateCollection(ctx context.Context, collection string) error
}

// FileRef identifica um arquivo armazenado.
type FileRef struct {
	ID   string `json:"fileId"`
	Path string `json:"path"`
}

// FileStore é o contrato do armazém de arquivos externo.
type FileStore interface {
	Upload(ctx context.Context, path string, content []byte) (FileRef, error)
	// Delete remove os ids informados e devolve quantos existiam.
	Delete(ctx context.Context, ids []string) (int, error)
}

// FunctionCaller invoca outra instância deste mesmo protocolo de gateway
// pelo nome da função. É o colaborador por trás do TEST_FUNCTION.
type FunctionCaller interface {
	Call(ctx context.Context, name string, data map[string]any) (any, error)
}
