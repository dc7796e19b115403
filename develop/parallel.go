package develop

import (
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// parallelFor 在 pool 上把 [0, n) 切成连续区间并行执行；pool 为 nil 时临时创建一个
func parallelFor(pool *workerpool.Pool, n int, fn func(start, end int)) {
	if pool == nil {
		pool = workerpool.New(0)
		defer pool.Close()
	}
	pool.ParallelFor(n, fn)
}
