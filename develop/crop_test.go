package develop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptCrop(t *testing.T) {
	sensor := Dim2{W: 100, H: 80}
	active := NewRect(10, 4, 80, 70)

	got, err := AdaptCrop(sensor, active, NewRect(12, 6, 50, 40))
	require.NoError(t, err)
	assert.Equal(t, NewRect(2, 2, 50, 40), got)

	got, err = AdaptCrop(sensor, active, active)
	require.NoError(t, err)
	assert.Equal(t, NewRect(0, 0, 80, 70), got)
}

func TestAdaptCropOutOfBounds(t *testing.T) {
	sensor := Dim2{W: 100, H: 80}

	_, err := AdaptCrop(sensor, NewRect(10, 4, 80, 70), NewRect(8, 6, 10, 10))
	assert.True(t, IsConfiguration(err))

	_, err = AdaptCrop(sensor, NewRect(10, 4, 80, 70), NewRect(12, 6, 80, 10))
	assert.True(t, IsConfiguration(err))

	_, err = AdaptCrop(sensor, NewRect(30, 0, 80, 70), NewRect(30, 0, 10, 10))
	assert.True(t, IsConfiguration(err), "active area wider than sensor")

	_, err = AdaptCrop(sensor, NewRect(0, 0, 100, 80), NewRect(0, 0, 0, 0))
	assert.True(t, IsConfiguration(err), "empty crop")
}

func TestCropPassthrough(t *testing.T) {
	dim := Dim2{W: 4, H: 3}
	buf := make([]float32, dim.Pixels()*3)

	out, outDim, err := Crop(buf, dim, 3, FullRect(dim))
	require.NoError(t, err)
	assert.Equal(t, dim, outDim)
	assert.Same(t, &buf[0], &out[0])
}

func TestCropSubRect(t *testing.T) {
	dim := Dim2{W: 4, H: 3}
	buf := make([]float32, dim.Pixels()*3)
	for i := range buf {
		buf[i] = float32(i)
	}

	out, outDim, err := Crop(buf, dim, 3, NewRect(1, 1, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, Dim2{W: 2, H: 2}, outDim)
	// 像素 (1,1) 起点偏移 (1*4+1)*3 = 15
	assert.Equal(t, []float32{
		15, 16, 17, 18, 19, 20,
		27, 28, 29, 30, 31, 32,
	}, out)
}

func TestCropErrors(t *testing.T) {
	dim := Dim2{W: 4, H: 3}
	buf := make([]float32, dim.Pixels()*3)

	_, _, err := Crop(buf, dim, 3, NewRect(3, 0, 2, 1))
	assert.True(t, IsConfiguration(err))

	_, _, err = Crop(buf[:5], dim, 3, NewRect(0, 0, 1, 1))
	assert.True(t, IsConfiguration(err))
}
