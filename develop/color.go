package develop

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/samber/lo"

	"github.com/weaming/rawdev-go/colorspace"
	"github.com/weaming/rawdev-go/matrix"
)

// ReferenceIlluminant 选择标定矩阵时使用的光源
const ReferenceIlluminant = colorspace.IlluminantD65

// FindColorMatrix 在标定集合中查找指定光源的 XYZ → 相机 矩阵
func FindColorMatrix(matrices []ColorMatrix, il colorspace.Illuminant) (matrix.Matrix4x3, error) {
	entry, ok := lo.Find(matrices, func(m ColorMatrix) bool {
		return m.Illuminant == il
	})
	if !ok {
		have := lo.Map(matrices, func(m ColorMatrix, _ int) string { return m.Illuminant.String() })
		return matrix.Matrix4x3{}, &ConfigurationError{
			Field:  "color_matrices",
			Reason: fmt.Sprintf("no %s entry (have %v)", il, have),
			Err:    ErrMatrixNotFound,
		}
	}

	m, err := matrix.NewMatrix4x3(entry.Matrix)
	if err != nil {
		return m, &ConfigurationError{Field: "color_matrices", Reason: il.String(), Err: err}
	}
	return m, nil
}

// WorkingTransform 每张图像计算一次的 相机 → 工作空间 变换
type WorkingTransform struct {
	Space    colorspace.ColorSpace
	XYZToCam matrix.Matrix4x3
	// RGBToCam = normalize(XYZToCam * RGBToXYZ)
	RGBToCam matrix.Matrix4x3
	// CamToRGB = pinv(RGBToCam)
	CamToRGB matrix.Matrix3x4
}

// NewWorkingTransform 由参考光源的标定矩阵推导相机到工作空间的变换
func NewWorkingTransform(matrices []ColorMatrix, space colorspace.ColorSpace) (WorkingTransform, error) {
	t := WorkingTransform{Space: space}

	xyzToCam, err := FindColorMatrix(matrices, ReferenceIlluminant)
	if err != nil {
		return t, err
	}
	t.XYZToCam = xyzToCam
	t.RGBToCam = matrix.NormalizeRows(matrix.MultiplyCamera(xyzToCam, colorspace.RGBToXYZD65(space)))

	t.CamToRGB, err = matrix.PseudoInverse(t.RGBToCam)
	if err != nil {
		return t, &ConfigurationError{Field: "color_matrices", Reason: "camera matrix cannot be inverted", Err: err}
	}
	return t, nil
}

// CameraMatrix 去马赛克后 (r, g, b) → 工作空间的 3x3 矩阵，白平衡增益已折叠进各列。
// 四色标定时第二个绿色通道与 G 共用去马赛克后的值。
func (t WorkingTransform) CameraMatrix(wb Channel4) matrix.Matrix3x3 {
	scaled := t.CamToRGB.ScaleColumns([4]float64{float64(wb[0]), float64(wb[1]), float64(wb[2]), float64(wb[3])})
	if t.FourColor() {
		return scaled.FoldSecondGreen()
	}
	return scaled.Square()
}

// FourColor 标定矩阵是否有单独的第二绿色通道
func (t WorkingTransform) FourColor() bool {
	return t.RGBToCam.Rows() == 4
}

// pixelMatrix 逐像素使用的 float32 形式
func (t WorkingTransform) pixelMatrix(wb Channel4) [9]float32 {
	var out [9]float32
	for i, v := range t.CameraMatrix(wb) {
		out[i] = float32(v)
	}
	return out
}

// ApplyColor 对裁剪后的 RGB 缓冲区逐像素应用白平衡、相机→工作空间矩阵和欧氏范数裁剪。
// 返回新的缓冲区，输入不被修改。
func ApplyColor(buf []float32, dim Dim2, wb Channel4, t WorkingTransform, pool *workerpool.Pool) ([]float32, error) {
	if len(buf) != dim.Pixels()*3 {
		return nil, configErrorf("buffer", "has %d values, want %s x 3", len(buf), dim)
	}

	m := t.pixelMatrix(wb)
	out := make([]float32, len(buf))
	parallelFor(pool, dim.H, func(start, end int) {
		src := buf[start*dim.W*3 : end*dim.W*3]
		dst := out[start*dim.W*3 : end*dim.W*3]
		for i := 0; i+2 < len(src); i += 3 {
			r, g, b := src[i], src[i+1], src[i+2]
			p := colorspace.ClipEuclidean([3]float32{
				m[0]*r + m[1]*g + m[2]*b,
				m[3]*r + m[4]*g + m[5]*b,
				m[6]*r + m[7]*g + m[8]*b,
			})
			dst[i], dst[i+1], dst[i+2] = p[0], p[1], p[2]
		}
	})
	return out, nil
}
