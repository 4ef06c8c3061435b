// Package auto 提供自动点击器各子包共享的几何类型和工具函数。
// 具体功能分布在子包中：screen（截屏）、input（鼠标注入）。
package auto

import (
	"fmt"
	"image"
	"math"
	"time"
)

// Point 表示二维坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Region 表示矩形区域 (left, top, width, height)
// 既用作目标的搜索区域，也用作匹配得到的边界框
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect 转换为 image.Rectangle
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Contains 判断点是否在区域内（含右下边界）
func (r Region) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

func (r Region) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.X, r.Y, r.Width, r.Height)
}

// Range 表示以秒为单位的随机取值区间 [Min, Max]
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewRange 创建区间
func NewRange(min, max float64) Range {
	return Range{Min: min, Max: max}
}

// Validate 校验区间：有限、非负且 Min <= Max
func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("区间必须是有限数值: [%v, %v]", r.Min, r.Max)
	}
	if r.Min < 0 {
		return fmt.Errorf("区间下限不能为负: %v", r.Min)
	}
	if r.Min > r.Max {
		return fmt.Errorf("无效区间: 最小值 %v 大于最大值 %v", r.Min, r.Max)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%gs, %gs]", r.Min, r.Max)
}

// Seconds 将秒数转换为 time.Duration（四舍五入到纳秒）
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// ScaleCoord 按比例缩放坐标值
func ScaleCoord(value int, scale float64) int {
	if scale <= 0 {
		return value
	}
	return int(math.Round(float64(value) / scale))
}
