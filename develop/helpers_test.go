package develop

import (
	"github.com/weaming/rawdev-go/colorspace"
)

var identityMatrix = []float64{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// grayRaw w x h 的常量 Bayer 缓冲区
func grayRaw(w, h int, value uint16) *RawImage {
	data := make([]uint16, w*h)
	for i := range data {
		data[i] = value
	}
	return &RawImage{Width: w, Height: h, CPP: 1, Data: data}
}

// testParams 全传感器 active/crop、RGGB、单位白平衡、D65 单位矩阵
func testParams(w, h int) *Params {
	return &Params{
		Width:      w,
		Height:     h,
		BlackLevel: BlackLevel{Levels: []float32{1000}},
		WhiteLevel: WhiteLevel{Levels: []uint32{3000}},
		ActiveArea: NewRect(0, 0, w, h),
		CropArea:   NewRect(0, 0, w, h),
		CFA:        MustParseCFA("RGGB"),
		WBCoeff:    Channel4{1, 1, 1, 1},
		ColorMatrices: []ColorMatrix{
			{Illuminant: colorspace.IlluminantD65, Matrix: identityMatrix},
		},
	}
}
