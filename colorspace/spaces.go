package colorspace

import (
	"fmt"
	"strings"

	"github.com/weaming/rawdev-go/matrix"
)

// 标准色彩空间定义

// sRGB 到 XYZ (D65) 的转换矩阵
var SRGBToXYZ = matrix.Matrix3x3{
	0.4124564, 0.3575761, 0.1804375,
	0.2126729, 0.7151522, 0.0721750,
	0.0193339, 0.1191920, 0.9503041,
}

// Adobe RGB 到 XYZ (D65) 的转换矩阵
var AdobeRGBToXYZ = matrix.Matrix3x3{
	0.5767309, 0.1855540, 0.1881852,
	0.2973769, 0.6273491, 0.0752741,
	0.0270343, 0.0706872, 0.9911085,
}

// ProPhoto RGB 到 XYZ (D50) 的转换矩阵
var ProPhotoRGBToXYZ = matrix.Matrix3x3{
	0.7976749, 0.1351917, 0.0313534,
	0.2880402, 0.7118741, 0.0000857,
	0.0000000, 0.0000000, 0.8252100,
}

// Bradford 色适应矩阵 (D50 → D65)
var BradfordD50ToD65 = matrix.Matrix3x3{
	0.9555766, -0.0230393, 0.0631636,
	-0.0282895, 1.0099416, 0.0210077,
	0.0122982, -0.0204830, 1.3299098,
}

// ColorSpace 工作色彩空间
type ColorSpace int

const (
	// ColorSpaceProPhotoRGB ProPhoto RGB（默认工作空间）
	ColorSpaceProPhotoRGB ColorSpace = iota
	// ColorSpaceSRGB sRGB 色彩空间
	ColorSpaceSRGB
	// ColorSpaceAdobeRGB Adobe RGB 色彩空间
	ColorSpaceAdobeRGB
)

func (cs ColorSpace) String() string {
	switch cs {
	case ColorSpaceProPhotoRGB:
		return "ProPhotoRGB"
	case ColorSpaceSRGB:
		return "sRGB"
	case ColorSpaceAdobeRGB:
		return "AdobeRGB"
	default:
		return fmt.Sprintf("ColorSpace(%d)", int(cs))
	}
}

// ParseColorSpace 解析色彩空间名称（大小写不敏感）
func ParseColorSpace(name string) (ColorSpace, error) {
	switch strings.ToLower(name) {
	case "", "prophoto", "prophotorgb":
		return ColorSpaceProPhotoRGB, nil
	case "srgb":
		return ColorSpaceSRGB, nil
	case "adobe", "adobergb":
		return ColorSpaceAdobeRGB, nil
	default:
		return 0, fmt.Errorf("unknown color space %q", name)
	}
}

// RGBToXYZD65 获取 RGB → XYZ (D65 白点) 转换矩阵
func RGBToXYZD65(cs ColorSpace) matrix.Matrix3x3 {
	switch cs {
	case ColorSpaceSRGB:
		return SRGBToXYZ
	case ColorSpaceAdobeRGB:
		return AdobeRGBToXYZ
	default:
		// ProPhoto RGB 使用 D50，需要先转换到 D65
		return BradfordD50ToD65.Multiply(ProPhotoRGBToXYZ)
	}
}
