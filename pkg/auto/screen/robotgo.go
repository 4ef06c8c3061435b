package screen

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/yysclicker/pkg/auto"
)

// RobotgoCapturer 基于 robotgo 的截图后端（默认）
type RobotgoCapturer struct{}

// NewRobotgoCapturer 创建 robotgo 截图后端
func NewRobotgoCapturer() *RobotgoCapturer {
	return &RobotgoCapturer{}
}

// Capture 截取全屏或指定区域并转换为灰度图
func (c *RobotgoCapturer) Capture(region *auto.Region) (*Frame, error) {
	if err := checkRegion(region); err != nil {
		return nil, err
	}

	var area auto.Region
	if region != nil {
		area = *region
	} else {
		w, h := GetScreenSize()
		area = auto.Region{Width: w, Height: h}
	}

	img, err := robotgo.CaptureImg(area.X, area.Y, area.Width, area.Height)
	if err != nil {
		return nil, fmt.Errorf("截屏失败: %w", err)
	}
	return imageToFrame(img, area)
}

// GetScreenSize 获取主显示器尺寸（输入坐标）
func GetScreenSize() (width, height int) {
	return robotgo.GetScreenSize()
}

// GetDisplayCount 获取显示器数量
func GetDisplayCount() int {
	return robotgo.DisplaysNum()
}
