package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_ScanString(t *testing.T) {
	var v Vector
	require.NoError(t, v.Scan("[1.5,-2,3.25]"))

	assert.Equal(t, []float64{1.5, -2, 3.25}, v.Floats())
	assert.Equal(t, 3, v.Dimension())
}

func TestVector_ScanBytesWithSpaces(t *testing.T) {
	var v Vector
	require.NoError(t, v.Scan([]byte(" [0.1, 0.2, 0.3] ")))

	assert.InDeltaSlice(t, []float64{0.1, 0.2, 0.3}, v.Floats(), 1e-12)
}

func TestVector_ScanNil(t *testing.T) {
	var v Vector
	require.NoError(t, v.Scan(nil))
	assert.Nil(t, v.Floats())
}

func TestVector_ScanEmpty(t *testing.T) {
	var v Vector
	require.NoError(t, v.Scan("[]"))
	assert.Empty(t, v.Floats())
	assert.NotNil(t, v.Floats())
}

func TestVector_ScanMalformed(t *testing.T) {
	var v Vector
	assert.Error(t, v.Scan("1,2,3"))
	assert.Error(t, v.Scan("[1,x,3]"))
	assert.Error(t, v.Scan(42))
}

func TestVector_Value(t *testing.T) {
	v := NewVector([]float64{1, 2.5, -3})
	val, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, "[1,2.5,-3]", val)
}

func TestVector_ValueNil(t *testing.T) {
	var v Vector
	val, err := v.Value()
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestVector_RoundTrip(t *testing.T) {
	original := NewVector([]float64{0.123456789, -0.987654321, 42})
	val, err := original.Value()
	require.NoError(t, err)

	var scanned Vector
	require.NoError(t, scanned.Scan(val))
	assert.Equal(t, original.Floats(), scanned.Floats())
}

func TestNewVector_CopiesInput(t *testing.T) {
	src := []float64{1, 2, 3}
	v := NewVector(src)
	src[0] = 99

	assert.Equal(t, []float64{1, 2, 3}, v.Floats())
}
