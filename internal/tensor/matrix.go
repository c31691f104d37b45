package tensor

import (
	"fmt"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a fixed-shape rows×cols matrix of float32 values.
//
// A Matrix with shape {rows, cols} represents a linear map from
// cols-dimensional vectors to rows-dimensional vectors.
//
// Storage is row-major: element (r, c) lives at data[r*cols+c]. Every
// constructor and accessor in this package uses that order.
type Matrix struct {
	rows int
	cols int
	data []float32
}

// NewMatrix creates a zero-filled rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	if err := (Shape{rows, cols}).Validate(); err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]float32, rows*cols),
	}
}

// MatrixFromSlice creates a matrix from row-major data.
// The slice is copied into the matrix's memory.
func MatrixFromSlice(rows, cols int, data []float32) (*Matrix, error) {
	shape := Shape{rows, cols}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	m := NewMatrix(rows, cols)
	copy(m.data, data)
	return m, nil
}

// MatrixFromRows creates a matrix from a slice of equally sized rows.
//
// Example:
//
//	x, err := tensor.MatrixFromRows([][]float32{
//	    {2, 3, 4},
//	    {1, 4, 5},
//	})
func MatrixFromRows(rows [][]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("matrix requires at least one row")
	}
	cols := len(rows[0])
	data := make([]float32, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return MatrixFromSlice(len(rows), cols, data)
}

// MatrixFromDense converts a gonum matrix into a float32 Matrix.
func MatrixFromDense(d mat.Matrix) *Matrix {
	r, c := d.Dims()
	m := NewMatrix(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.data[i*c+j] = float32(d.At(i, j))
		}
	}
	return m
}

// Outer returns the outer product a·bᵗ with shape {len(a), len(b)}.
func Outer(a, b Vector) *Matrix {
	m := NewMatrix(len(a), len(b))
	for i, ai := range a {
		row := m.data[i*m.cols : (i+1)*m.cols]
		for j, bj := range b {
			row[j] = ai * bj
		}
	}
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return m.rows
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	return m.cols
}

// Shape returns {rows, cols}.
func (m *Matrix) Shape() Shape {
	return Shape{m.rows, m.cols}
}

// Data returns the row-major backing slice. Mutating it mutates the matrix.
func (m *Matrix) Data() []float32 {
	return m.data
}

// At returns element (r, c).
func (m *Matrix) At(r, c int) float32 {
	return m.data[r*m.cols+c]
}

// Set assigns element (r, c).
func (m *Matrix) Set(r, c int, v float32) {
	m.data[r*m.cols+c] = v
}

// Row returns a copy of row r.
func (m *Matrix) Row(r int) Vector {
	return VectorOf(m.data[r*m.cols : (r+1)*m.cols]...)
}

// Col returns a copy of column c.
func (m *Matrix) Col(c int) Vector {
	v := make(Vector, m.rows)
	for r := range v {
		v[r] = m.data[r*m.cols+c]
	}
	return v
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{rows: m.rows, cols: m.cols, data: make([]float32, len(m.data))}
	copy(c.data, m.data)
	return c
}

// MulVec returns m·x.
func (m *Matrix) MulVec(x Vector) Vector {
	if len(x) != m.cols {
		panic(fmt.Sprintf("Matrix.MulVec: shape mismatch [%d,%d] @ [%d]", m.rows, m.cols, len(x)))
	}
	y := make(Vector, m.rows)
	for r := 0; r < m.rows; r++ {
		row := m.data[r*m.cols : (r+1)*m.cols]
		var sum float32
		for c, w := range row {
			sum += w * x[c]
		}
		y[r] = sum
	}
	return y
}

// TMulVec returns mᵗ·y.
func (m *Matrix) TMulVec(y Vector) Vector {
	if len(y) != m.rows {
		panic(fmt.Sprintf("Matrix.TMulVec: shape mismatch [%d,%d]ᵗ @ [%d]", m.rows, m.cols, len(y)))
	}
	x := make(Vector, m.cols)
	for r := 0; r < m.rows; r++ {
		yr := y[r]
		row := m.data[r*m.cols : (r+1)*m.cols]
		for c, w := range row {
			x[c] += w * yr
		}
	}
	return x
}

// Add returns m + other.
func (m *Matrix) Add(other *Matrix) *Matrix {
	m.mustMatch("Add", other)
	out := m.Clone()
	for i, v := range other.data {
		out.data[i] += v
	}
	return out
}

// Sub returns m - other.
func (m *Matrix) Sub(other *Matrix) *Matrix {
	m.mustMatch("Sub", other)
	out := m.Clone()
	for i, v := range other.data {
		out.data[i] -= v
	}
	return out
}

// Scale returns s * m.
func (m *Matrix) Scale(s float32) *Matrix {
	out := m.Clone()
	for i := range out.data {
		out.data[i] *= s
	}
	return out
}

// Norm returns the Frobenius norm.
func (m *Matrix) Norm() float32 {
	var sum float32
	for _, v := range m.data {
		sum += v * v
	}
	return math32.Sqrt(sum)
}

// HasNaN reports whether any element is NaN or infinite.
func (m *Matrix) HasNaN() bool {
	return hasNaN(m.data)
}

// Equal reports whether both matrices have the same shape and elements.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	return Vector(m.data).Equal(other.data)
}

// Dense converts the matrix to a float64 gonum matrix for linear algebra.
func (m *Matrix) Dense() *mat.Dense {
	data := make([]float64, len(m.data))
	for i, v := range m.data {
		data[i] = float64(v)
	}
	return mat.NewDense(m.rows, m.cols, data)
}

// String formats the matrix through gonum's formatter.
func (m *Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(m.Dense(), mat.Squeeze()))
}

func (m *Matrix) mustMatch(op string, other *Matrix) {
	if m.rows != other.rows || m.cols != other.cols {
		panic(fmt.Sprintf("Matrix.%s: shape mismatch [%d,%d] vs [%d,%d]", op, m.rows, m.cols, other.rows, other.cols))
	}
}
