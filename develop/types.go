package develop

import (
	"fmt"
	"math"
	"strings"

	"github.com/weaming/rawdev-go/colorspace"
)

// Point 像素坐标
type Point struct {
	X, Y int
}

// Dim2 像素尺寸
type Dim2 struct {
	W, H int
}

// Pixels 像素总数
func (d Dim2) Pixels() int {
	return d.W * d.H
}

func (d Dim2) String() string {
	return fmt.Sprintf("%dx%d", d.W, d.H)
}

// Rect 轴对齐矩形：原点 + 尺寸
type Rect struct {
	P Point
	D Dim2
}

// NewRect 由 x, y, 宽, 高 构造矩形
func NewRect(x, y, w, h int) Rect {
	return Rect{P: Point{X: x, Y: y}, D: Dim2{W: w, H: h}}
}

// FullRect 覆盖整个 d 的矩形
func FullRect(d Dim2) Rect {
	return Rect{D: d}
}

// X1 右边界（不含）
func (r Rect) X1() int { return r.P.X + r.D.W }

// Y1 下边界（不含）
func (r Rect) Y1() int { return r.P.Y + r.D.H }

// IsEmpty 宽或高不为正
func (r Rect) IsEmpty() bool {
	return r.D.W <= 0 || r.D.H <= 0
}

// Contains other 完全位于 r 内
func (r Rect) Contains(other Rect) bool {
	return other.P.X >= r.P.X && other.P.Y >= r.P.Y &&
		other.X1() <= r.X1() && other.Y1() <= r.Y1()
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.P.X, r.P.Y, r.D.W, r.D.H)
}

// Channel4 按 Bayer 四个槽位排列的参数（槽位 0,1 在偶数行，2,3 在奇数行）
type Channel4 [4]float32

// BlackLevel 黑电平，1 个（广播到四个槽位）或 4 个值
type BlackLevel struct {
	Levels []float32
}

// WhiteLevel 白电平（饱和值），1 个或 4 个值
type WhiteLevel struct {
	Levels []uint32
}

// Expand 展开为四个槽位
func (b BlackLevel) Expand() (Channel4, error) {
	return expandLevels("blacklevel", b.Levels)
}

// Expand 展开为四个槽位
func (w WhiteLevel) Expand() (Channel4, error) {
	return expandLevels("whitelevel", w.Levels)
}

func expandLevels[T float32 | uint32](field string, levels []T) (Channel4, error) {
	var out Channel4
	switch len(levels) {
	case 1:
		for i := range out {
			out[i] = float32(levels[0])
		}
	case 4:
		for i := range out {
			out[i] = float32(levels[i])
		}
	default:
		return out, configErrorf(field, "expected 1 or 4 levels, got %d", len(levels))
	}
	return out, nil
}

// CFAColor 滤色片颜色
type CFAColor uint8

const (
	CFARed CFAColor = iota
	CFAGreen
	CFABlue
)

// CFA 2x2 滤色片阵列描述
type CFA struct {
	name    string
	pattern [2][2]CFAColor // [行][列]
}

// ParseCFA 解析如 "RGGB" / "BGGR" / "GRBG" / "GBRG" 的 2x2 模式（按行优先）。
// 非 2x2 或含 R/G/B 以外颜色的模式返回 UnsupportedFormatError。
func ParseCFA(name string) (CFA, error) {
	var cfa CFA
	upper := strings.ToUpper(name)
	if len(upper) != 4 {
		return cfa, unsupportedf("CFA pattern %q is not a 2x2 tile", name)
	}

	var seen [3]bool
	for i, ch := range upper {
		var c CFAColor
		switch ch {
		case 'R':
			c = CFARed
		case 'G':
			c = CFAGreen
		case 'B':
			c = CFABlue
		default:
			return cfa, unsupportedf("CFA pattern %q: color %q is not supported", name, ch)
		}
		cfa.pattern[i/2][i%2] = c
		seen[c] = true
	}
	if !seen[CFARed] || !seen[CFAGreen] || !seen[CFABlue] {
		return cfa, unsupportedf("CFA pattern %q does not contain red, green and blue", name)
	}

	cfa.name = upper
	return cfa, nil
}

// MustParseCFA 同 ParseCFA，出错时 panic
func MustParseCFA(name string) CFA {
	cfa, err := ParseCFA(name)
	if err != nil {
		panic(err)
	}
	return cfa
}

// IsValid 是否由 ParseCFA 构造
func (c CFA) IsValid() bool {
	return c.name != ""
}

func (c CFA) String() string {
	return c.name
}

// ColorAt 传感器绝对坐标 (x, y) 处的颜色
func (c CFA) ColorAt(x, y int) CFAColor {
	return c.pattern[y&1][x&1]
}

// SampleFormat 传感器采样数据格式
type SampleFormat int

const (
	SampleUint16 SampleFormat = iota
	SampleFloat32
)

func (f SampleFormat) String() string {
	switch f {
	case SampleUint16:
		return "uint16"
	case SampleFloat32:
		return "float32"
	default:
		return fmt.Sprintf("SampleFormat(%d)", int(f))
	}
}

// RawImage 解码器输出的原始采样缓冲区
type RawImage struct {
	Width  int
	Height int
	// CPP 每像素分量数，Bayer 数据为 1
	CPP    int
	Format SampleFormat
	Data   []uint16
}

// Dim 采样尺寸
func (r *RawImage) Dim() Dim2 {
	return Dim2{W: r.Width, H: r.Height}
}

// ColorMatrix 某一标定光源下的 XYZ → 相机 矩阵（行优先，3x3 或 4x3）
type ColorMatrix struct {
	Illuminant colorspace.Illuminant
	Matrix     []float64
}

// Params 单张图像的显影参数
type Params struct {
	Width  int
	Height int

	BlackLevel BlackLevel
	WhiteLevel WhiteLevel

	// ActiveArea 和 CropArea 均为传感器绝对坐标
	ActiveArea Rect
	CropArea   Rect

	CFA           CFA
	WBCoeff       Channel4
	ColorMatrices []ColorMatrix
}

// Dim 传感器尺寸
func (p *Params) Dim() Dim2 {
	return Dim2{W: p.Width, H: p.Height}
}

// validateWhiteBalance 前三个增益必须是有限正数；四色标定时第四个也一样
func (p *Params) validateWhiteBalance(fourColor bool) error {
	slots := 3
	if fourColor {
		slots = 4
	}
	for i := 0; i < slots; i++ {
		g := float64(p.WBCoeff[i])
		if math.IsNaN(g) || math.IsInf(g, 0) || g <= 0 {
			return configErrorf("wb_coeff", "gain %d is %v, want a finite positive value", i, p.WBCoeff[i])
		}
	}
	return nil
}
