package repository

import "strings"

// assignments builds the SET list of a partial UPDATE.
type assignments struct {
	cols []string
	args []any
}

func newAssignments() *assignments { return &assignments{} }

func (a *assignments) add(col string, v any) {
	a.cols = append(a.cols, col+" = ?")
	a.args = append(a.args, v)
}

func (a *assignments) empty() bool { return len(a.cols) == 0 }

func (a *assignments) sql() string { return strings.Join(a.cols, ", ") }
