package features

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEncoder_ClassesSorted(t *testing.T) {
	e := NewLabelEncoder([]string{"Garbage", "Water", "Electricity", "Road", "Garbage", "Water"})
	assert.Equal(t, []string{"Electricity", "Garbage", "Road", "Water"}, e.Classes())
}

func TestLabelEncoder_Transform(t *testing.T) {
	e := NewLabelEncoder([]string{"Rain", "Clear", "Storm", "Rain", "Clouds", "Clear"})

	tests := []struct {
		value string
		code  int
	}{
		{"Clear", 0},
		{"Clouds", 1},
		{"Rain", 2},
		{"Storm", 3},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			code, err := e.Transform(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.code, e.SafeTransform(tt.value))
		})
	}
}

func TestLabelEncoder_UnseenFallsBackToZero(t *testing.T) {
	e := NewLabelEncoder([]string{"Road", "Water"})

	_, err := e.Transform("Snow")
	assert.True(t, errors.Is(err, ErrUnseenLabel))

	for _, v := range []string{"Snow", "", "road"} {
		assert.Equal(t, 0, e.SafeTransform(v), "value %q", v)
	}
}

func TestLabelEncoder_TransformAll(t *testing.T) {
	e := NewLabelEncoder([]string{"b", "a"})

	codes, err := e.TransformAll([]string{"a", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, codes)

	_, err = e.TransformAll([]string{"a", "c"})
	assert.ErrorIs(t, err, ErrUnseenLabel)
}

func TestLabelEncoder_SaveLoad(t *testing.T) {
	e1 := NewLabelEncoder([]string{"Garbage", "Water", "Electricity"})

	var buf bytes.Buffer
	require.NoError(t, e1.Save(&buf))

	e2 := &LabelEncoder{}
	require.NoError(t, e2.Load(&buf))

	assert.Equal(t, e1.Classes(), e2.Classes())
	assert.Equal(t, e1.SafeTransform("Water"), e2.SafeTransform("Water"))
	assert.Equal(t, 0, e2.SafeTransform("Unknown"))
}

func TestLabelEncoder_LoadInvalid(t *testing.T) {
	e := &LabelEncoder{}
	assert.Error(t, e.Load(bytes.NewBufferString("not json")))
}
