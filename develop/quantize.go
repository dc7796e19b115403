package develop

import (
	"fmt"
	"math"
	"strings"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// QuantizeRange 量化时假定的输入范围
type QuantizeRange int

const (
	// RangeFixed 固定线性范围 [0, 1]，超出部分截断
	RangeFixed QuantizeRange = iota
	// RangeObserved 使用整个缓冲区（所有通道）实际的最小/最大值
	RangeObserved
)

func (r QuantizeRange) String() string {
	switch r {
	case RangeFixed:
		return "fixed"
	case RangeObserved:
		return "observed"
	default:
		return fmt.Sprintf("QuantizeRange(%d)", int(r))
	}
}

// ParseQuantizeRange 解析 "fixed" / "observed"
func ParseQuantizeRange(s string) (QuantizeRange, error) {
	switch strings.ToLower(s) {
	case "", "fixed":
		return RangeFixed, nil
	case "observed":
		return RangeObserved, nil
	default:
		return 0, fmt.Errorf("unknown quantize range %q", s)
	}
}

const quantizeMax = 65535

// Quantize 线性缩放到 [0, 65535] 并四舍五入为 uint16。范围是全局的，不按通道区分。
// RangeObserved 下若 max == min 则退回固定范围。
func Quantize(buf []float32, mode QuantizeRange, pool *workerpool.Pool) []uint16 {
	lo, hi := float32(0), float32(1)
	if mode == RangeObserved && len(buf) > 0 {
		mn, mx := MinMax(buf, pool)
		if mx > mn {
			lo, hi = mn, mx
		}
	}

	out := make([]uint16, len(buf))
	chunks := quantizeChunks(len(buf))
	parallelFor(pool, chunks, func(start, end int) {
		lanes := hwy.MaxLanes[float32]()
		loVec := hwy.Set(lo)
		scaleVec := hwy.Set(quantizeMax / (hi - lo))
		zero := hwy.Zero[float32]()
		top := hwy.Set(float32(quantizeMax))
		tmp := make([]float32, lanes)

		s, e := chunkBounds(start, len(buf), chunks), chunkBounds(end, len(buf), chunks)
		i := s
		for ; i+lanes <= e; i += lanes {
			v := hwy.Mul(hwy.Sub(hwy.Load(buf[i:]), loVec), scaleVec)
			hwy.Store(hwy.Min(hwy.Max(v, zero), top), tmp)
			for j, q := range tmp {
				out[i+j] = uint16(q + 0.5)
			}
		}
		scale := quantizeMax / (hi - lo)
		for ; i < e; i++ {
			q := (buf[i] - lo) * scale
			q = float32(math.Min(math.Max(float64(q), 0), quantizeMax))
			out[i] = uint16(q + 0.5)
		}
	})
	return out
}

// MinMax 全局最小/最大值
func MinMax(buf []float32, pool *workerpool.Pool) (float32, float32) {
	if len(buf) == 0 {
		return 0, 0
	}

	chunks := quantizeChunks(len(buf))
	mins := make([]float32, chunks)
	maxs := make([]float32, chunks)
	parallelFor(pool, chunks, func(start, end int) {
		lanes := hwy.MaxLanes[float32]()
		for c := start; c < end; c++ {
			s, e := chunkBounds(c, len(buf), chunks), chunkBounds(c+1, len(buf), chunks)
			mn, mx := buf[s], buf[s]
			i := s
			if e-s >= lanes {
				vmin := hwy.Load(buf[s:])
				vmax := vmin
				for i = s + lanes; i+lanes <= e; i += lanes {
					v := hwy.Load(buf[i:])
					vmin = hwy.Min(vmin, v)
					vmax = hwy.Max(vmax, v)
				}
				mn, mx = hwy.ReduceMin(vmin), hwy.ReduceMax(vmax)
			}
			for ; i < e; i++ {
				mn = min(mn, buf[i])
				mx = max(mx, buf[i])
			}
			mins[c], maxs[c] = mn, mx
		}
	})

	mn, mx := mins[0], maxs[0]
	for c := 1; c < chunks; c++ {
		mn = min(mn, mins[c])
		mx = max(mx, maxs[c])
	}
	return mn, mx
}

const quantizeChunkSize = 1 << 16

func quantizeChunks(n int) int {
	return max(1, (n+quantizeChunkSize-1)/quantizeChunkSize)
}

// chunkBounds 第 c 块的起始下标
func chunkBounds(c, n, chunks int) int {
	if c >= chunks {
		return n
	}
	return c * quantizeChunkSize
}
