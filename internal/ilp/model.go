// Package ilp contains the two integer-programming formulations of the
// scheduling problem and a thin binding to an external MIP solver. Models
// are built and decoded in-process; only the solve step shells out.
package ilp

import (
	"fmt"
	"io"
	"strings"
)

type varKind int

const (
	binaryVar varKind = iota
	integerVar
)

type variable struct {
	name string
	kind varKind
}

// term is one linear summand: coefficient times a model variable.
type term struct {
	coef int64
	v    int
}

type constraint struct {
	name  string
	terms []term
	op    string
	rhs   int64
}

// model is a minimization MIP under construction. Variables are referenced
// by index; names only matter for the LP file and the solution map.
type model struct {
	name        string
	vars        []variable
	constraints []constraint
	objective   []term
}

func newModel(name string) *model {
	return &model{name: name}
}

// binary adds a {0,1} variable and returns its index.
func (m *model) binary(name string) int {
	m.vars = append(m.vars, variable{name: name, kind: binaryVar})
	return len(m.vars) - 1
}

// integer adds a non-negative integer variable and returns its index.
func (m *model) integer(name string) int {
	m.vars = append(m.vars, variable{name: name, kind: integerVar})
	return len(m.vars) - 1
}

// constrain adds a linear constraint; op is one of "<=", ">=" or "=".
func (m *model) constrain(name string, terms []term, op string, rhs int64) {
	m.constraints = append(m.constraints, constraint{name: name, terms: terms, op: op, rhs: rhs})
}

// minimize sets the objective.
func (m *model) minimize(terms []term) {
	m.objective = terms
}

// value reads a variable from the solver's solution map, rounding to the
// nearest integer. Missing variables read as zero.
func (m *model) value(solution map[string]float64, v int) int64 {
	x := solution[m.vars[v].name]
	if x < 0 {
		return int64(x - 0.5)
	}
	return int64(x + 0.5)
}

// writeLP emits the model in CPLEX LP format.
func (m *model) writeLP(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\\ Problem: %s\n", m.name)
	b.WriteString("Minimize\n obj:")
	m.writeTerms(&b, m.objective)
	b.WriteString("\nSubject To\n")

	for _, c := range m.constraints {
		fmt.Fprintf(&b, " %s:", c.name)
		m.writeTerms(&b, c.terms)
		fmt.Fprintf(&b, " %s %d\n", c.op, c.rhs)
	}

	var generals, binaries []string
	for _, v := range m.vars {
		switch v.kind {
		case binaryVar:
			binaries = append(binaries, v.name)
		case integerVar:
			generals = append(generals, v.name)
		}
	}

	if len(generals) > 0 {
		b.WriteString("Generals\n")
		writeNames(&b, generals)
	}
	if len(binaries) > 0 {
		b.WriteString("Binaries\n")
		writeNames(&b, binaries)
	}
	b.WriteString("End\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (m *model) writeTerms(b *strings.Builder, terms []term) {
	if len(terms) == 0 {
		b.WriteString(" 0 " + m.vars[0].name)
		return
	}
	for i, t := range terms {
		coef := t.coef
		if i == 0 {
			if coef < 0 {
				b.WriteString(" -")
				coef = -coef
			} else {
				b.WriteString(" ")
			}
		} else if coef < 0 {
			b.WriteString(" - ")
			coef = -coef
		} else {
			b.WriteString(" + ")
		}
		if coef == 1 {
			b.WriteString(m.vars[t.v].name)
		} else {
			fmt.Fprintf(b, "%d %s", coef, m.vars[t.v].name)
		}
	}
}

func writeNames(b *strings.Builder, names []string) {
	for i := 0; i < len(names); i += 8 {
		end := i + 8
		if end > len(names) {
			end = len(names)
		}
		b.WriteString(" " + strings.Join(names[i:end], " ") + "\n")
	}
}
