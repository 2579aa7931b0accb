package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Plan pasos de una limpieza por tablas completas.
// Se ejecuta en orden: Nullify, Delete (hijos antes que padres) y luego Sequences.
type Plan struct {
	Roots     []string `json:"roots"`
	Nullify   []Edge   `json:"nullify"`
	Delete    []string `json:"delete"`
	Sequences []string `json:"sequences"`
}

// Teardown calcula el cierre de dependientes en cascada de roots y lo ordena topológicamente.
// Las aristas set_null cuyo hijo queda fuera del cierre generan un paso Nullify.
func (g *Graph) Teardown(roots ...string) (*Plan, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("schema: limpieza sin tablas raíz")
	}
	closure := make(map[string]bool)
	queue := make([]string, 0, len(roots))
	for _, r := range roots {
		if !g.Has(r) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTable, r)
		}
		if !closure[r] {
			closure[r] = true
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		for _, e := range g.Inbound(t) {
			if e.OnDelete == Cascade && !closure[e.Child] {
				closure[e.Child] = true
				queue = append(queue, e.Child)
			}
		}
	}

	plan := &Plan{Roots: append([]string(nil), roots...)}
	for _, e := range g.edges {
		if e.OnDelete == SetNull && closure[e.Parent] && !closure[e.Child] {
			plan.Nullify = append(plan.Nullify, e)
		}
	}

	order, err := g.childrenFirst(closure)
	if err != nil {
		return nil, err
	}
	plan.Delete = order
	for _, t := range order {
		plan.Sequences = append(plan.Sequences, Sequence(t))
	}
	return plan, nil
}

// childrenFirst orden de borrado: una tabla sale cuando todas sus hijas dentro del conjunto ya salieron.
// Empates por nombre para que el plan sea determinista.
func (g *Graph) childrenFirst(set map[string]bool) ([]string, error) {
	pending := make(map[string]int, len(set))
	for t := range set {
		pending[t] = 0
	}
	for _, e := range g.edges {
		if set[e.Child] && set[e.Parent] && e.Child != e.Parent {
			pending[e.Parent]++
		}
	}

	var ready []string
	for t, n := range pending {
		if n == 0 {
			ready = append(ready, t)
		}
	}
	order := make([]string, 0, len(set))
	for len(ready) > 0 {
		sort.Strings(ready)
		t := ready[0]
		ready = ready[1:]
		order = append(order, t)
		for _, e := range g.edges {
			if e.Child != t || !set[e.Parent] || e.Parent == t {
				continue
			}
			pending[e.Parent]--
			if pending[e.Parent] == 0 {
				ready = append(ready, e.Parent)
			}
		}
	}

	if len(order) != len(set) {
		var stuck []string
		for t, n := range pending {
			if n > 0 {
				stuck = append(stuck, t)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(stuck, ", "))
	}
	return order, nil
}

// RowStep paso del borrado en cascada de una sola fila raíz.
// Path son las aristas desde la raíz hasta Table; vacío para la propia raíz.
type RowStep struct {
	Table   string
	Path    []Edge
	Nullify bool
}

// Column columna a poner en NULL (solo pasos Nullify).
func (s RowStep) Column() string {
	if len(s.Path) == 0 {
		return ""
	}
	return s.Path[len(s.Path)-1].Column
}

// RowTeardown pasos para borrar una fila de root con todos sus dependientes.
// Los dependientes se borran antes que su padre; la raíz es el último paso.
func (g *Graph) RowTeardown(root string) ([]RowStep, error) {
	if !g.Has(root) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, root)
	}
	var steps []RowStep
	visiting := map[string]bool{root: true}

	var walk func(table string, path []Edge) error
	walk = func(table string, path []Edge) error {
		for _, e := range g.Inbound(table) {
			p := make([]Edge, len(path)+1)
			copy(p, path)
			p[len(path)] = e

			if e.OnDelete == SetNull {
				steps = append(steps, RowStep{Table: e.Child, Path: p, Nullify: true})
				continue
			}
			if visiting[e.Child] {
				return fmt.Errorf("%w: %s", ErrCycle, e)
			}
			visiting[e.Child] = true
			if err := walk(e.Child, p); err != nil {
				return err
			}
			visiting[e.Child] = false
			steps = append(steps, RowStep{Table: e.Child, Path: p})
		}
		return nil
	}

	if err := walk(root, nil); err != nil {
		return nil, err
	}
	steps = append(steps, RowStep{Table: root})
	return steps, nil
}
