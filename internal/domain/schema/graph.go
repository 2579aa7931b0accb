// Package schema declara una sola vez las dependencias por clave foránea entre tablas.
// Limpieza, borrado en cascada y deduplicación recorren este grafo en lugar de listas
// manuales de tablas.
package schema

import (
	"errors"
	"fmt"
	"sort"
)

// OnDelete acción sobre la fila hija cuando desaparece la fila padre.
type OnDelete int

const (
	Cascade OnDelete = iota
	SetNull
)

func (a OnDelete) String() string {
	if a == SetNull {
		return "set_null"
	}
	return "cascade"
}

// Edge referencia Child.Column -> Parent.id.
// UniqueWith es la otra columna de una restricción UNIQUE(Column, UniqueWith) en Child, si la hay.
type Edge struct {
	Child      string
	Column     string
	Parent     string
	OnDelete   OnDelete
	UniqueWith string
}

func (e Edge) String() string {
	return fmt.Sprintf("%s.%s -> %s (%s)", e.Child, e.Column, e.Parent, e.OnDelete)
}

var (
	ErrUnknownTable = errors.New("schema: tabla no declarada")
	ErrCycle        = errors.New("schema: ciclo en dependencias")
)

// Graph conjunto de tablas y aristas.
type Graph struct {
	tables map[string]struct{}
	edges  []Edge
}

// NewGraph valida que toda arista apunte a tablas declaradas.
func NewGraph(tables []string, edges []Edge) (*Graph, error) {
	g := &Graph{tables: make(map[string]struct{}, len(tables))}
	for _, t := range tables {
		g.tables[t] = struct{}{}
	}
	for _, e := range edges {
		if !g.Has(e.Child) || !g.Has(e.Parent) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTable, e)
		}
		if e.Column == "" {
			return nil, fmt.Errorf("schema: arista sin columna: %s", e)
		}
	}
	g.edges = append(g.edges, edges...)
	sort.SliceStable(g.edges, func(i, j int) bool {
		a, b := g.edges[i], g.edges[j]
		if a.Child != b.Child {
			return a.Child < b.Child
		}
		return a.Column < b.Column
	})
	return g, nil
}

// Has indica si la tabla está declarada.
func (g *Graph) Has(table string) bool {
	_, ok := g.tables[table]
	return ok
}

// Tables lista ordenada de tablas.
func (g *Graph) Tables() []string {
	out := make([]string, 0, len(g.tables))
	for t := range g.tables {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Inbound aristas que apuntan a parent, ordenadas por (Child, Column).
func (g *Graph) Inbound(parent string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Parent == parent && e.Child != parent {
			out = append(out, e)
		}
	}
	return out
}

// Sequence nombre de la secuencia del id de una tabla (convención BIGSERIAL).
func Sequence(table string) string {
	return table + "_id_seq"
}
