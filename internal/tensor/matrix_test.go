package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMatrixFromSlice_RowMajor(t *testing.T) {
	m, err := MatrixFromSlice(2, 3, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, Shape{2, 3}, m.Shape())
	assert.Equal(t, float32(2), m.At(0, 1))
	assert.Equal(t, float32(4), m.At(1, 0))
	assert.Equal(t, VectorOf(4, 5, 6), m.Row(1))
	assert.Equal(t, VectorOf(3, 6), m.Col(2))
}

func TestMatrixFromSlice_Errors(t *testing.T) {
	_, err := MatrixFromSlice(2, 3, []float32{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires 6 elements")

	_, err = MatrixFromSlice(0, 3, nil)
	require.Error(t, err)

	_, err = MatrixFromRows([][]float32{{1, 2}, {3}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1 has 1 columns")

	_, err = MatrixFromRows(nil)
	require.Error(t, err)
}

func TestMatrix_MulVec(t *testing.T) {
	m, err := MatrixFromRows([][]float32{
		{1, 2},
		{3, 4},
		{5, 6},
	})
	require.NoError(t, err)

	assert.Equal(t, VectorOf(5, 11, 17), m.MulVec(VectorOf(1, 2)))
	assert.Equal(t, VectorOf(22, 28), m.TMulVec(VectorOf(1, 2, 3)))

	assert.Panics(t, func() { m.MulVec(VectorOf(1, 2, 3)) })
	assert.Panics(t, func() { m.TMulVec(VectorOf(1, 2)) })
}

func TestOuter(t *testing.T) {
	m := Outer(VectorOf(1, 2), VectorOf(3, 4, 5))

	want, err := MatrixFromRows([][]float32{
		{3, 4, 5},
		{6, 8, 10},
	})
	require.NoError(t, err)
	assert.True(t, want.Equal(m), "got %v", m)
}

func TestMatrix_Arithmetic(t *testing.T) {
	a, _ := MatrixFromSlice(2, 2, []float32{1, 2, 3, 4})
	b, _ := MatrixFromSlice(2, 2, []float32{4, 3, 2, 1})

	assert.Equal(t, []float32{5, 5, 5, 5}, a.Add(b).Data())
	assert.Equal(t, []float32{-3, -1, 1, 3}, a.Sub(b).Data())
	assert.Equal(t, []float32{0.5, 1, 1.5, 2}, a.Scale(0.5).Data())
	assert.InDelta(t, 5.4772256, a.Norm(), 1e-6)

	// operands are never mutated
	assert.Equal(t, []float32{1, 2, 3, 4}, a.Data())

	c := NewMatrix(2, 3)
	assert.Panics(t, func() { a.Add(c) })
	assert.False(t, a.Equal(c))
}

func TestMatrix_CloneIsIndependent(t *testing.T) {
	a, _ := MatrixFromSlice(1, 2, []float32{1, 2})
	c := a.Clone()
	c.Set(0, 0, 9)

	assert.Equal(t, float32(1), a.At(0, 0))
	assert.Equal(t, float32(9), c.At(0, 0))
}

func TestMatrix_DenseRoundTrip(t *testing.T) {
	a, _ := MatrixFromSlice(2, 3, []float32{1, 2, 3, 4, 5, 6})

	d := a.Dense()
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 6.0, d.At(1, 2))

	var dt mat.Dense
	dt.CloneFrom(d.T())
	back := MatrixFromDense(&dt)
	assert.Equal(t, Shape{3, 2}, back.Shape())
	assert.Equal(t, float32(4), back.At(0, 1))
}

func TestShape(t *testing.T) {
	assert.Equal(t, 6, Shape{2, 3}.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.True(t, Shape{2, 3}.Equal(Shape{2, 3}.Clone()))
	assert.False(t, Shape{2, 3}.Equal(Shape{3, 2}))

	require.NoError(t, Shape{4}.Validate())
	require.Error(t, Shape{2, 0}.Validate())
	require.Error(t, Shape{1, 2, 3}.Validate())
	require.Error(t, Shape{}.Validate())
}
