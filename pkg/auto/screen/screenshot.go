package screen

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/zoeyai/yysclicker/pkg/auto"
)

// ScreenshotCapturer 基于 kbinani/screenshot 的截图后端
// 可指定显示器编号；区域坐标相对于该显示器左上角
type ScreenshotCapturer struct {
	display int
}

// NewScreenshotCapturer 创建指定显示器的截图后端
func NewScreenshotCapturer(display int) (*ScreenshotCapturer, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, fmt.Errorf("未检测到可用显示器")
	}
	if display < 0 || display >= n {
		return nil, fmt.Errorf("显示器编号 %d 超出范围 [0, %d)", display, n)
	}
	return &ScreenshotCapturer{display: display}, nil
}

// Display 返回显示器编号
func (c *ScreenshotCapturer) Display() int {
	return c.display
}

// Capture 截取显示器全屏或指定区域并转换为灰度图
func (c *ScreenshotCapturer) Capture(region *auto.Region) (*Frame, error) {
	if err := checkRegion(region); err != nil {
		return nil, err
	}

	bounds := screenshot.GetDisplayBounds(c.display)
	rect := bounds
	area := auto.Region{Width: bounds.Dx(), Height: bounds.Dy()}
	if region != nil {
		rect = region.Rect().Add(bounds.Min)
		area = *region
	}
	if rect.Empty() {
		return nil, fmt.Errorf("截图区域为空: %v", rect)
	}

	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, fmt.Errorf("截屏失败: %w", err)
	}

	// 多显示器时返回的坐标需要加上显示器原点
	frame, err := imageToFrame(img, area)
	if err != nil {
		return nil, err
	}
	frame.Meta.OffsetX += bounds.Min.X
	frame.Meta.OffsetY += bounds.Min.Y
	return frame, nil
}

// DisplayBounds 返回所有活动显示器的范围
func DisplayBounds() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	bounds := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		bounds = append(bounds, screenshot.GetDisplayBounds(i))
	}
	return bounds
}
