package nd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeString(t *testing.T) {
	assert.Equal(t, "()", Shape{}.String())
	assert.Equal(t, "(3,)", Shape{3}.String())
	assert.Equal(t, "(2, 3)", Shape{2, 3}.String())
}

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 0, Shape{3, 0}.NumElements())
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
}

func TestCStrides(t *testing.T) {
	assert.Equal(t, []int{48, 16, 4}, Shape{2, 3, 4}.cStrides(4))
	assert.Equal(t, []int{}, Shape{}.cStrides(8))
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name   string
		shapes []Shape
		want   Shape
	}{
		{"same", []Shape{{3, 4}, {3, 4}}, Shape{3, 4}},
		{"scalar", []Shape{{}, {2, 3}}, Shape{2, 3}},
		{"column and row", []Shape{{3, 1}, {1, 5}}, Shape{3, 5}},
		{"rank extension", []Shape{{5}, {2, 1}}, Shape{2, 5}},
		{"three inputs", []Shape{{4, 1, 1}, {3, 1}, {2}}, Shape{4, 3, 2}},
		{"zero length", []Shape{{0}, {1}}, Shape{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.shapes...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBroadcastShapesError(t *testing.T) {
	_, err := BroadcastShapes(Shape{3, 4}, Shape{3, 5})
	var berr *BroadcastError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, []Shape{{3, 4}, {3, 5}}, berr.Shapes)
	assert.Equal(t, "cannot broadcast input shapes (3, 4) (3, 5) together", berr.Error())
}

func TestBroadcastStrides(t *testing.T) {
	assert.Equal(t, []int{0, 8, 0}, broadcastStrides(Shape{3, 1}, []int{8, 8}, Shape{2, 3, 4}))
	assert.Equal(t, []int{4, 0}, broadcastStrides(Shape{2, 1}, []int{4, 4}, Shape{2, 5}))
}
