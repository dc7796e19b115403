package matrix

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular 矩阵不可逆
var ErrSingular = errors.New("matrix: singular matrix")

// Matrix3x3 表示 3x3 矩阵（行优先存储）
type Matrix3x3 [9]float64

// Vector3 表示 3 维向量
type Vector3 [3]float64

// Matrix4x3 相机矩阵：每行对应一个相机通道（最多 4 个），每列对应 XYZ / RGB 分量。
// 三色相机的第 4 行为 0。
type Matrix4x3 [12]float64

// Matrix3x4 Matrix4x3 的（伪）逆：每行一个输出分量，每列一个相机通道。
type Matrix3x4 [12]float64

// Identity3x3 返回 3x3 单位矩阵
func Identity3x3() Matrix3x3 {
	var m Matrix3x3
	for i := 0; i < 3; i++ {
		m[i*4] = 1
	}
	return m
}

// Multiply3x3 计算 a * b
func Multiply3x3(a, b Matrix3x3) Matrix3x3 {
	var c Matrix3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c[i*3+j] = a[i*3]*b[j] + a[i*3+1]*b[3+j] + a[i*3+2]*b[6+j]
		}
	}
	return c
}

// Multiply (m * other)
func (m Matrix3x3) Multiply(other Matrix3x3) Matrix3x3 {
	return Multiply3x3(m, other)
}

// Apply 应用矩阵到向量 (matrix * vector)
func (m Matrix3x3) Apply(v Vector3) Vector3 {
	var out Vector3
	for i := range out {
		out[i] = m[i*3]*v[0] + m[i*3+1]*v[1] + m[i*3+2]*v[2]
	}
	return out
}

// Inverse3x3 伴随矩阵法求逆，行列式接近 0 时返回 ErrSingular
func Inverse3x3(a Matrix3x3) (Matrix3x3, error) {
	// cof[i][j] 为 a[i][j] 的代数余子式，下标循环取模省去符号
	var cof Matrix3x3
	for i := 0; i < 3; i++ {
		r1, r2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			c1, c2 := (j+1)%3, (j+2)%3
			cof[i*3+j] = a[r1*3+c1]*a[r2*3+c2] - a[r1*3+c2]*a[r2*3+c1]
		}
	}

	det := a[0]*cof[0] + a[1]*cof[1] + a[2]*cof[2]
	if math.Abs(det) < 1e-12 {
		return Matrix3x3{}, ErrSingular
	}

	// 逆 = 伴随矩阵 / det，伴随矩阵是余子式矩阵的转置
	var inv Matrix3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv[j*3+i] = cof[i*3+j] / det
		}
	}
	return inv, nil
}

// NewMatrix4x3 从行优先的 9 个（三色）或 12 个（四色）值构造相机矩阵
func NewMatrix4x3(values []float64) (Matrix4x3, error) {
	var m Matrix4x3
	switch len(values) {
	case 9, 12:
		copy(m[:], values)
		return m, nil
	default:
		return m, fmt.Errorf("matrix: expected 9 or 12 values, got %d", len(values))
	}
}

// Rows 返回非零行数（3 或 4）
func (m Matrix4x3) Rows() int {
	if m[9] == 0 && m[10] == 0 && m[11] == 0 {
		return 3
	}
	return 4
}

// MultiplyCamera 计算 (4x3) * (3x3)
func MultiplyCamera(a Matrix4x3, b Matrix3x3) Matrix4x3 {
	var c Matrix4x3
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += a[i*3+k] * b[k*3+j]
			}
			c[i*3+j] = sum
		}
	}
	return c
}

// NormalizeRows 将每一行缩放到行和为 1，使 RGB 白 (1,1,1) 映射到相机中性色。
// 行和为 0 的行保持不变。
func NormalizeRows(m Matrix4x3) Matrix4x3 {
	out := m
	for i := 0; i < 4; i++ {
		sum := m[i*3] + m[i*3+1] + m[i*3+2]
		if sum == 0 {
			continue
		}
		for j := 0; j < 3; j++ {
			out[i*3+j] = m[i*3+j] / sum
		}
	}
	return out
}

// PseudoInverse 计算 Moore-Penrose 伪逆 (AᵀA)⁻¹Aᵀ
func PseudoInverse(m Matrix4x3) (Matrix3x4, error) {
	var out Matrix3x4

	a := mat.NewDense(4, 3, m[:])

	var ata mat.Dense
	ata.Mul(a.T(), a)

	var inv mat.Dense
	if err := inv.Inverse(&ata); err != nil {
		// 包括 gonum 的 Condition 错误（病态但已算出结果）
		return out, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var p mat.Dense
	p.Mul(&inv, a.T())

	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = p.At(i, j)
		}
	}
	return out, nil
}

// ScaleColumns 按列缩放（等价于右乘对角矩阵 diag(s)）
func (m Matrix3x4) ScaleColumns(s [4]float64) Matrix3x4 {
	out := m
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = m[i*4+j] * s[j]
		}
	}
	return out
}

// FoldSecondGreen 四色相机（第二个绿色通道单独标定）的 3x3 形式：
// 去马赛克后只有一个 G，第 4 列并入第 2 列，使 (r, g, b) 按 (r, g, b, g) 处理。
func (m Matrix3x4) FoldSecondGreen() Matrix3x3 {
	return Matrix3x3{
		m[0], m[1] + m[3], m[2],
		m[4], m[5] + m[7], m[6],
		m[8], m[9] + m[11], m[10],
	}
}

// Square 取前三列组成 3x3 矩阵
func (m Matrix3x4) Square() Matrix3x3 {
	return Matrix3x3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}
