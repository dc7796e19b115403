package develop

import (
	"bytes"
	"testing"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaming/rawdev-go/colorspace"
)

// 中灰 (black + white) / 2 显影为中灰，所有像素相同
func TestDevelopMidGray(t *testing.T) {
	raw := grayRaw(4, 4, 2000)
	params := testParams(4, 4)

	out, dim, err := DevelopToWorkingRGB(raw, params)
	require.NoError(t, err)
	assert.Equal(t, Dim2{W: 4, H: 4}, dim)
	require.Len(t, out, 4*4*3)

	for i, v := range out {
		// 0.5 * 65535 = 32767.5，允许 1 LSB 的舍入差异
		assert.InDelta(t, 32767.5, float64(v), 0.5, "value %d", i)
		assert.Equal(t, out[i%3], v, "pixel %d channel %d", i/3, i%3)
	}
}

func TestDevelopMidGrayFloat(t *testing.T) {
	params := testParams(2, 2)
	tr, err := New(Options{}).WorkingTransform(params)
	require.NoError(t, err)

	buf := []float32{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	out, err := ApplyColor(buf, Dim2{W: 2, H: 2}, params.WBCoeff, tr, nil)
	require.NoError(t, err)
	for i, v := range out {
		assert.InDelta(t, 0.5, v, 1e-6, "value %d", i)
	}
}

func TestDevelopFourColorMidGray(t *testing.T) {
	for _, m := range [][]float64{
		{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 0},
		fourColorMatrix,
	} {
		params := testParams(4, 4)
		params.ColorMatrices = []ColorMatrix{{Illuminant: colorspace.IlluminantD65, Matrix: m}}

		out, _, err := DevelopToWorkingRGB(grayRaw(4, 4, 2000), params)
		require.NoError(t, err)
		for i, v := range out {
			assert.InDelta(t, 32767.5, float64(v), 0.5, "matrix %v value %d", m[9:], i)
		}
	}
}

func TestDevelopFourColorWhiteBalance(t *testing.T) {
	params := testParams(4, 4)
	params.ColorMatrices = []ColorMatrix{{Illuminant: colorspace.IlluminantD65, Matrix: fourColorMatrix}}
	params.WBCoeff = Channel4{2, 1, 1.5, 0}

	_, _, err := DevelopToWorkingRGB(grayRaw(4, 4, 2000), params)
	assert.True(t, IsConfiguration(err))

	// 三色标定时第四个增益不参与计算
	params.ColorMatrices = []ColorMatrix{{Illuminant: colorspace.IlluminantD65, Matrix: identityMatrix}}
	_, _, err = DevelopToWorkingRGB(grayRaw(4, 4, 2000), params)
	assert.NoError(t, err)
}

func TestDevelopBadBlackLevelCount(t *testing.T) {
	params := testParams(4, 4)
	params.BlackLevel = BlackLevel{Levels: []float32{1000, 1000}}

	_, _, err := DevelopToWorkingRGB(grayRaw(4, 4, 2000), params)
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))

	_, _, err = DevelopToIntegerPlane(grayRaw(4, 4, 2000), params)
	assert.True(t, IsConfiguration(err))
}

func TestDevelopMissingD65(t *testing.T) {
	params := testParams(4, 4)
	params.ColorMatrices = []ColorMatrix{
		{Illuminant: colorspace.IlluminantD50, Matrix: identityMatrix},
	}

	_, _, err := DevelopToWorkingRGB(grayRaw(4, 4, 2000), params)
	assert.ErrorIs(t, err, ErrMatrixNotFound)
	assert.True(t, IsConfiguration(err))

	// 平面显影不需要色彩矩阵
	_, _, err = DevelopToIntegerPlane(grayRaw(4, 4, 2000), params)
	assert.NoError(t, err)
}

func TestDevelopCrop(t *testing.T) {
	raw := grayRaw(8, 6, 2000)

	params := testParams(8, 6)
	params.ActiveArea = NewRect(2, 2, 6, 4)
	params.CropArea = NewRect(2, 2, 6, 4)
	out, dim, err := DevelopToWorkingRGB(raw, params)
	require.NoError(t, err)
	assert.Equal(t, Dim2{W: 6, H: 4}, dim)
	assert.Len(t, out, 6*4*3)

	params.CropArea = NewRect(3, 3, 4, 2)
	out, dim, err = DevelopToWorkingRGB(raw, params)
	require.NoError(t, err)
	assert.Equal(t, Dim2{W: 4, H: 2}, dim)
	assert.Len(t, out, 4*2*3)

	params.CropArea = NewRect(1, 2, 4, 2)
	_, _, err = DevelopToWorkingRGB(raw, params)
	assert.True(t, IsConfiguration(err))
}

func TestDevelopIntegerPlane(t *testing.T) {
	raw := grayRaw(6, 4, 3000)
	raw.Data[0] = 500
	params := testParams(6, 4)
	params.CropArea = NewRect(2, 2, 2, 2)

	out, dim, err := DevelopToIntegerPlane(raw, params)
	require.NoError(t, err)
	// 输出整个传感器，不受 crop 影响
	assert.Equal(t, Dim2{W: 6, H: 4}, dim)
	require.Len(t, out, 24)
	assert.Equal(t, uint16(0), out[0])
	assert.Equal(t, uint16(65535), out[1])
}

func TestDevelopUnsupportedInput(t *testing.T) {
	params := testParams(4, 4)

	raw := grayRaw(4, 4, 2000)
	raw.Format = SampleFloat32
	_, _, err := DevelopToWorkingRGB(raw, params)
	assert.True(t, IsUnsupportedFormat(err))

	raw = grayRaw(4, 4, 2000)
	raw.CPP = 3
	_, _, err = DevelopToIntegerPlane(raw, params)
	assert.True(t, IsUnsupportedFormat(err))

	params.CFA = CFA{}
	_, _, err = DevelopToWorkingRGB(grayRaw(4, 4, 2000), params)
	assert.True(t, IsUnsupportedFormat(err))
}

func TestDevelopInvalidInput(t *testing.T) {
	params := testParams(4, 4)

	_, _, err := DevelopToWorkingRGB(grayRaw(4, 2, 2000), params)
	assert.True(t, IsConfiguration(err))

	raw := grayRaw(4, 4, 2000)
	raw.Data = raw.Data[:10]
	_, _, err = DevelopToWorkingRGB(raw, params)
	assert.True(t, IsConfiguration(err))

	_, _, err = DevelopToWorkingRGB(nil, params)
	assert.True(t, IsConfiguration(err))

	params.WBCoeff = Channel4{1, 0, 1, 1}
	_, _, err = DevelopToWorkingRGB(grayRaw(4, 4, 2000), params)
	assert.True(t, IsConfiguration(err))
}

func TestDevelopCustomDemosaicer(t *testing.T) {
	calls := 0
	good := DemosaicFunc(func(plane []float32, dim Dim2, cfa CFA, active Rect) ([]float32, error) {
		calls++
		out := make([]float32, active.D.Pixels()*3)
		for i := range out {
			out[i] = 1
		}
		return out, nil
	})
	out, _, err := New(Options{Demosaicer: good}).DevelopToWorkingRGB(grayRaw(4, 4, 2000), testParams(4, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	for _, v := range out {
		assert.Equal(t, uint16(65535), v)
	}

	bad := DemosaicFunc(func(plane []float32, dim Dim2, cfa CFA, active Rect) ([]float32, error) {
		return make([]float32, 5), nil
	})
	_, _, err = New(Options{Demosaicer: bad}).DevelopToWorkingRGB(grayRaw(4, 4, 2000), testParams(4, 4))
	assert.True(t, IsConfiguration(err))
}

func TestPipelineSharedPoolAndLog(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Close()

	var logs bytes.Buffer
	log := logrus.New()
	log.SetOutput(&logs)
	log.SetLevel(logrus.DebugLevel)

	p := New(Options{Pool: pool, Log: log, Range: RangeObserved})
	for i := 0; i < 3; i++ {
		raw := grayRaw(8, 8, 2000)
		raw.Data[9] = 2600
		out, dim, err := p.DevelopToWorkingRGB(raw, testParams(8, 8))
		require.NoError(t, err)
		assert.Equal(t, Dim2{W: 8, H: 8}, dim)

		var lo, hi uint16 = 65535, 0
		for _, v := range out {
			lo, hi = min(lo, v), max(hi, v)
		}
		assert.Equal(t, uint16(0), lo)
		assert.Equal(t, uint16(65535), hi)
	}

	assert.Contains(t, logs.String(), "step=demosaic")
	assert.Contains(t, logs.String(), "step=quantize")
	assert.Contains(t, logs.String(), "level=debug")
	assert.Contains(t, logs.String(), "with wb=[1 1 1 1]")
}
