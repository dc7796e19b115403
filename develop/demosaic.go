package develop

import (
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// Demosaicer 将单通道马赛克平面展开为 active 区域内的 RGB（每像素 3 个 float32）
type Demosaicer interface {
	Demosaic(plane []float32, dim Dim2, cfa CFA, active Rect) ([]float32, error)
}

// DemosaicFunc 函数适配器
type DemosaicFunc func(plane []float32, dim Dim2, cfa CFA, active Rect) ([]float32, error)

// Demosaic 调用 f
func (f DemosaicFunc) Demosaic(plane []float32, dim Dim2, cfa CFA, active Rect) ([]float32, error) {
	return f(plane, dim, cfa, active)
}

// Bilinear 双线性插值去马赛克。
// 每个像素保留自身颜色，另外两种颜色取 3x3 邻域（截断到传感器边界）内同色采样的均值。
// 颜色按传感器绝对坐标查 CFA，因此 active 原点为奇数时模式自动平移。
type Bilinear struct {
	Pool *workerpool.Pool
}

// Demosaic 实现 Demosaicer
func (b Bilinear) Demosaic(plane []float32, dim Dim2, cfa CFA, active Rect) ([]float32, error) {
	if len(plane) != dim.Pixels() {
		return nil, configErrorf("plane", "buffer has %d samples, want %s = %d", len(plane), dim, dim.Pixels())
	}
	if !cfa.IsValid() {
		return nil, unsupportedf("no CFA pattern for demosaicing")
	}
	if active.IsEmpty() || !FullRect(dim).Contains(active) {
		return nil, configErrorf("active_area", "%s is not inside sensor %s", active, dim)
	}

	out := make([]float32, active.D.Pixels()*3)
	parallelFor(b.Pool, active.D.H, func(start, end int) {
		for oy := start; oy < end; oy++ {
			y := active.P.Y + oy
			for ox := 0; ox < active.D.W; ox++ {
				x := active.P.X + ox
				demosaicPixel(plane, dim, cfa, x, y, out[(oy*active.D.W+ox)*3:])
			}
		}
	})
	return out, nil
}

func demosaicPixel(plane []float32, dim Dim2, cfa CFA, x, y int, dst []float32) {
	var sum [3]float32
	var cnt [3]int

	for yy := max(y-1, 0); yy <= min(y+1, dim.H-1); yy++ {
		row := plane[yy*dim.W:]
		for xx := max(x-1, 0); xx <= min(x+1, dim.W-1); xx++ {
			c := cfa.ColorAt(xx, yy)
			sum[c] += row[xx]
			cnt[c]++
		}
	}

	own := cfa.ColorAt(x, y)
	for c := CFARed; c <= CFABlue; c++ {
		switch {
		case c == own:
			dst[c] = plane[y*dim.W+x]
		case cnt[c] > 0:
			dst[c] = sum[c] / float32(cnt[c])
		default:
			dst[c] = 0
		}
	}
}
