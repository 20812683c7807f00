// Package sparse provides the compressed sparse-column (CSC) matrix
// representation consumed by the QP solver backends.
//
// A CSC matrix stores only its nonzero values, their row indices and, per
// column, the offset of that column's first nonzero. The layout matches the
// flat arrays OSQP-style solvers take directly, so assembled matrices are
// handed to a backend without conversion.
package sparse

import "fmt"

// CSC is a sparse matrix in compressed sparse-column form.
//
// Invariants (checked by Builder.Finish):
//   - len(Data) == len(Indices)
//   - len(Indptr) == Cols+1, Indptr[0] == 0, Indptr[Cols] == len(Data)
//   - Indptr is non-decreasing
type CSC struct {
	Rows    int
	Cols    int
	Data    []float64
	Indices []int
	Indptr  []int
}

// Nonzeros returns the number of stored entries.
func (m *CSC) Nonzeros() int { return len(m.Data) }

// At returns the value at (row, col), zero if the entry is not stored.
// It is O(nnz in column) and intended for tests and diagnostics, not for
// hot-path numeric work.
func (m *CSC) At(row, col int) float64 {
	for k := m.Indptr[col]; k < m.Indptr[col+1]; k++ {
		if m.Indices[k] == row {
			return m.Data[k]
		}
	}
	return 0
}

// Dense expands the matrix into a row-major [][]float64. Duplicated entries
// within a column are summed, matching solver semantics for triplet input.
func (m *CSC) Dense() [][]float64 {
	out := make([][]float64, m.Rows)
	for i := range out {
		out[i] = make([]float64, m.Cols)
	}
	for c := 0; c < m.Cols; c++ {
		for k := m.Indptr[c]; k < m.Indptr[c+1]; k++ {
			out[m.Indices[k]][c] += m.Data[k]
		}
	}
	return out
}

// Builder accumulates a CSC matrix column by column. Columns must be closed
// in order; entries are appended to the currently open column.
//
// The zero Builder is not usable; call NewBuilder.
type Builder struct {
	rows    int
	cols    int
	data    []float64
	indices []int
	indptr  []int
	open    bool
}

// NewBuilder returns a builder for a rows×cols matrix.
func NewBuilder(rows, cols int) *Builder {
	return &Builder{
		rows:   rows,
		cols:   cols,
		indptr: make([]int, 0, cols+1),
	}
}

// StartColumn opens the next column, recording its first-entry offset.
func (b *Builder) StartColumn() {
	b.indptr = append(b.indptr, len(b.data))
	b.open = true
}

// Append adds a nonzero entry at the given row of the open column.
// Appending out of range or without an open column is a programming error
// and panics.
func (b *Builder) Append(row int, val float64) {
	if !b.open {
		panic("sparse: Append without StartColumn")
	}
	if row < 0 || row >= b.rows {
		panic(fmt.Sprintf("sparse: row %d out of range [0,%d)", row, b.rows))
	}
	b.data = append(b.data, val)
	b.indices = append(b.indices, row)
}

// EmptyColumns closes n consecutive columns with no entries.
func (b *Builder) EmptyColumns(n int) {
	for i := 0; i < n; i++ {
		b.indptr = append(b.indptr, len(b.data))
	}
	b.open = false
}

// Finish seals the matrix and verifies its structural invariants. A violated
// invariant means the assembly loop miscounted rows or columns; that corrupts
// the optimization silently if allowed through, so Finish panics rather than
// returning an error.
func (b *Builder) Finish() *CSC {
	if len(b.indptr) != b.cols {
		panic(fmt.Sprintf("sparse: closed %d columns, want %d", len(b.indptr), b.cols))
	}
	b.indptr = append(b.indptr, len(b.data))
	if len(b.data) != len(b.indices) {
		panic(fmt.Sprintf("sparse: data/index length mismatch: %d vs %d", len(b.data), len(b.indices)))
	}
	for c := 0; c < b.cols; c++ {
		if b.indptr[c] > b.indptr[c+1] {
			panic(fmt.Sprintf("sparse: column pointer not monotonic at column %d", c))
		}
	}
	b.open = false
	return &CSC{
		Rows:    b.rows,
		Cols:    b.cols,
		Data:    b.data,
		Indices: b.indices,
		Indptr:  b.indptr,
	}
}
