package develop

import (
	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// FloatPlane 将 uint16 采样转换为 float32 平面（按行并行）
func FloatPlane(raw *RawImage, pool *workerpool.Pool) []float32 {
	out := make([]float32, len(raw.Data))
	width := raw.Width
	parallelFor(pool, raw.Height, func(start, end int) {
		src := raw.Data[start*width : end*width]
		dst := out[start*width : end*width]
		for i, v := range src {
			dst[i] = float32(v)
		}
	})
	return out
}

// CorrectLevels 原地将采样归一化到 [0, 1]：
//
//	out = max(0, v - black[c]) / (white[c] - black[c])
//
// c 为 Bayer 槽位：偶数行 {0,1}，奇数行 {2,3}，与物理滤色片无关。
// 每两行为一组，组之间没有任何数据依赖。
func CorrectLevels(plane []float32, dim Dim2, black BlackLevel, white WhiteLevel, pool *workerpool.Pool) error {
	if len(plane) != dim.Pixels() {
		return configErrorf("plane", "buffer has %d samples, want %s = %d", len(plane), dim, dim.Pixels())
	}
	bl, err := black.Expand()
	if err != nil {
		return err
	}
	wl, err := white.Expand()
	if err != nil {
		return err
	}

	var span Channel4
	for c := range span {
		span[c] = wl[c] - bl[c]
		if !(span[c] > 0) {
			return configErrorf("whitelevel", "slot %d: white level %v is not above black level %v", c, wl[c], bl[c])
		}
	}

	groups := (dim.H + 1) / 2
	parallelFor(pool, groups, func(start, end int) {
		even := newSlotRow(bl[0], bl[1], span[0], span[1])
		odd := newSlotRow(bl[2], bl[3], span[2], span[3])
		for g := start; g < end; g++ {
			y := g * 2
			even.apply(plane[y*dim.W : (y+1)*dim.W])
			if y+1 < dim.H {
				odd.apply(plane[(y+1)*dim.W : (y+2)*dim.W])
			}
		}
	})
	return nil
}

// slotRow 一行内交替的两个槽位参数，预先展开成向量
type slotRow struct {
	black [2]float32
	span  [2]float32

	lanes    int
	blackVec hwy.Vec[float32]
	spanVec  hwy.Vec[float32]
	zero     hwy.Vec[float32]
}

func newSlotRow(black0, black1, span0, span1 float32) *slotRow {
	r := &slotRow{
		black: [2]float32{black0, black1},
		span:  [2]float32{span0, span1},
		lanes: hwy.MaxLanes[float32](),
	}
	if r.lanes < 2 || r.lanes%2 != 0 {
		// 交替模式无法对齐到向量，全部走标量
		r.lanes = 0
		return r
	}

	bl := make([]float32, r.lanes)
	sp := make([]float32, r.lanes)
	for i := range bl {
		bl[i] = r.black[i&1]
		sp[i] = r.span[i&1]
	}
	r.blackVec = hwy.Load(bl)
	r.spanVec = hwy.Load(sp)
	r.zero = hwy.Zero[float32]()
	return r
}

func (r *slotRow) apply(row []float32) {
	i := 0
	if r.lanes > 0 {
		for ; i+r.lanes <= len(row); i += r.lanes {
			v := hwy.Load(row[i:])
			v = hwy.Div(hwy.Max(hwy.Sub(v, r.blackVec), r.zero), r.spanVec)
			hwy.Store(v, row[i:])
		}
	}
	for ; i < len(row); i++ {
		v := row[i] - r.black[i&1]
		if v < 0 {
			v = 0
		}
		row[i] = v / r.span[i&1]
	}
}
