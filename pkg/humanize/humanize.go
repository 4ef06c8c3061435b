// Package humanize 提供拟人化的随机取值：随机时长、随机点击点
// 所有函数都从注入的 Rand 取随机数，固定种子即可复现
package humanize

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/zoeyai/yysclicker/pkg/auto"
)

// Rand 随机数源
type Rand interface {
	// Float64 返回 [0, 1) 内的均匀随机数
	Float64() float64
	// IntN 返回 [0, n) 内的均匀随机整数，n > 0
	IntN(n int) int
}

// lockedRand 并发安全的 Rand 包装
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// NewRand 创建随机数源
// seed 为 0 时使用基于当前时间的种子
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))}
}

// Uniform 返回 [lo, hi] 内的均匀随机实数；lo == hi 时恰好返回 lo
func Uniform(r Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + (hi-lo)*r.Float64()
}

// IntBetween 返回 [lo, hi] 内的均匀随机整数（含两端）；hi <= lo 时返回 lo
func IntBetween(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Seconds 从区间中均匀取一个秒数
func Seconds(r Rand, rg auto.Range) float64 {
	return Uniform(r, rg.Min, rg.Max)
}

// Duration 从区间中均匀取一个时长
func Duration(r Rand, rg auto.Range) time.Duration {
	return auto.Seconds(Seconds(r, rg))
}

// RandomPointIn 在边界框内取一个随机点击点
//
// 每条边向内收缩 margin，但不越过中心：
// 每个轴上的有效边距为 min(margin, max(dim/2-1, 0))。
// 收缩后某个轴退化（min >= max）时，该轴改为在整个边界框范围内取值。
// 两个轴独立均匀取值，包含两端。
func RandomPointIn(r Rand, box auto.Region, margin int) auto.Point {
	minX, maxX := shrinkAxis(box.X, box.Width, margin)
	minY, maxY := shrinkAxis(box.Y, box.Height, margin)
	return auto.Point{
		X: IntBetween(r, minX, maxX),
		Y: IntBetween(r, minY, maxY),
	}
}

// shrinkAxis 计算单个轴上的取值范围
func shrinkAxis(start, size, margin int) (int, int) {
	if margin < 0 {
		margin = 0
	}
	effective := min(margin, max(size/2-1, 0))
	lo, hi := start+effective, start+size-effective
	if lo >= hi {
		return start, start + max(size, 0)
	}
	return lo, hi
}
