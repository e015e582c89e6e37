package region

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Searcher devolve o registro de localidade pipe-delimitado de um IP.
type Searcher interface {
	Search(ip string) (string, error)
}

type ipRange struct {
	start, end uint32
	record     string
}

// Table é um Searcher sobre faixas IPv4 carregadas de um dataset texto:
// uma faixa por linha, "inícioIP|fimIP|país|reservado|província|cidade|isp".
// Linhas vazias e começadas com # são ignoradas.
type Table struct {
	ranges []ipRange
}

func Load(r io.Reader) (*Table, error) {
	t := &Table{}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		parts := strings.SplitN(raw, "|", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("line %d: malformed range", line)
		}
		start, err := ip4ToUint(parts[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		end, err := ip4ToUint(parts[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if end < start {
			return nil, fmt.Errorf("line %d: inverted range", line)
		}
		t.ranges = append(t.ranges, ipRange{start: start, end: end, record: parts[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	sort.Slice(t.ranges, func(i, j int) bool { return t.ranges[i].start < t.ranges[j].start })
	return t, nil
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Search faz busca binária pela faixa que contém o IP.
func (t *Table) Search(ip string) (string, error) {
	n, err := ip4ToUint(ip)
	if err != nil {
		return "", err
	}

	// primeira faixa com start > n; a candidata é a anterior
	i := sort.Search(len(t.ranges), func(i int) bool { return t.ranges[i].start > n })
	if i == 0 {
		return "", fmt.Errorf("no region for %s", ip)
	}
	r := t.ranges[i-1]
	if n > r.end {
		return "", fmt.Errorf("no region for %s", ip)
	}
	return r.record, nil
}

func ip4ToUint(s string) (uint32, error) {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return 0, fmt.Errorf("invalid ip %q", s)
	}
	v4 := ip.To4()
	if v4 == nil {
		return 0, fmt.Errorf("not an ipv4 address: %q", s)
	}
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3]), nil
}

// Locator traduz IP em localidade humana.
type Locator struct {
	Searcher Searcher
	Logger   zerolog.Logger
}

// Region devolve a localidade do IP.
//
// detail=false: só a área (província se houver, senão país).
// detail=true: "área cidade isp" — ou "cidade isp" quando área == cidade,
// para não duplicar a localidade.
//
// Nunca propaga falha: qualquer erro é logado e vira "".
func (l Locator) Region(ip string, detail bool) string {
	if ip == "" {
		return ""
	}
	if l.Searcher == nil {
		return ""
	}

	rec, err := l.Searcher.Search(ip)
	if err != nil {
		l.Logger.Error().Err(err).Str("ip", ip).Msg("region lookup failed")
		return ""
	}

	fields := strings.Split(rec, "|")
	if len(fields) < 5 {
		l.Logger.Error().Str("ip", ip).Str("record", rec).Msg("malformed region record")
		return ""
	}
	country, province, city, isp := fields[0], fields[2], fields[3], fields[4]

	// com província mostra província; sem, mostra país
	area := country
	if strings.TrimSpace(province) != "" {
		area = province
	}
	if !detail {
		return area
	}
	if area == city {
		return strings.Join([]string{city, isp}, " ")
	}
	return strings.Join([]string{area, city, isp}, " ")
}
