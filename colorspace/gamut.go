package colorspace

import "math"

// ClipEuclidean 保持欧氏范数的色域裁剪。
//
// 含负分量的颜色沿直线向等范数的消色差向量 (n/√3)(1,1,1) 移动，
// 直到最小分量恰好为 0，再缩放回原来的范数。所有分量非负的颜色原样返回。
func ClipEuclidean(p [3]float32) [3]float32 {
	if p[0] >= 0 && p[1] >= 0 && p[2] >= 0 {
		return p
	}

	x := [3]float64{float64(p[0]), float64(p[1]), float64(p[2])}
	n := math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
	if n == 0 {
		return [3]float32{}
	}

	gray := n / math.Sqrt(3)
	t := 0.0
	for _, v := range x {
		if v < 0 {
			t = math.Max(t, -v/(gray-v))
		}
	}

	var q [3]float64
	for i, v := range x {
		q[i] = v + t*(gray-v)
	}
	qn := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2])
	if qn <= 1e-9*n {
		// p 与消色差轴反向共线，直线经过原点
		g := float32(gray)
		return [3]float32{g, g, g}
	}
	scale := n / qn

	return [3]float32{
		float32(math.Max(0, q[0]*scale)),
		float32(math.Max(0, q[1]*scale)),
		float32(math.Max(0, q[2]*scale)),
	}
}
