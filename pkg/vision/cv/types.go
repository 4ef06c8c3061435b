package cv

import "fmt"

// Box 匹配区域 (left, top, width, height)
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (b Box) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", b.X, b.Y, b.Width, b.Height)
}

// MatchResult 图像匹配结果
type MatchResult struct {
	// Box 最佳对齐位置的左上角和模板尺寸
	Box Box `json:"box"`
	// Confidence 匹配置信度 (归一化相关系数, -1~1)
	Confidence float64 `json:"confidence"`
	// Time 匹配耗时（毫秒）
	Time float64 `json:"time,omitempty"`
}
