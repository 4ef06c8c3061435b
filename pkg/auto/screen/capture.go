// Package screen 提供屏幕截图功能
// 所有截图后端都输出单通道灰度 gocv.Mat，并附带把像素坐标换算回输入坐标所需的元信息
package screen

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/zoeyai/yysclicker/pkg/auto"
	"github.com/zoeyai/yysclicker/pkg/vision/cv"
)

// Capturer 截图源
// region 为 nil 时截取整个显示器，否则恰好截取该区域（输入坐标）
// 每次调用都重新截图，不做缓存
type Capturer interface {
	Capture(region *auto.Region) (*Frame, error)
}

// Frame 一次截图的结果
type Frame struct {
	// Mat 灰度图像（单通道）
	Mat gocv.Mat
	// Meta 像素坐标到输入坐标的换算信息
	Meta CaptureMeta
}

// Width 图像宽度（像素）
func (f *Frame) Width() int {
	return f.Mat.Cols()
}

// Height 图像高度（像素）
func (f *Frame) Height() int {
	return f.Mat.Rows()
}

// Close 释放图像
func (f *Frame) Close() {
	if f == nil {
		return
	}
	f.Mat.Close()
}

// CaptureMeta 截图元信息（缩放和偏移量）
// 像素坐标 / Scale + Offset = 输入坐标
type CaptureMeta struct {
	ScaleX  float64
	ScaleY  float64
	OffsetX int
	OffsetY int
}

// BuildCaptureMeta 根据实际截取的区域（输入坐标）和得到的图像尺寸构建元信息
// HiDPI 显示器上截图像素可能多于输入坐标，比值即缩放系数
func BuildCaptureMeta(area auto.Region, imgW, imgH int) CaptureMeta {
	scaleX := 1.0
	if area.Width > 0 && imgW > 0 {
		scaleX = float64(imgW) / float64(area.Width)
	}
	scaleY := 1.0
	if area.Height > 0 && imgH > 0 {
		scaleY = float64(imgH) / float64(area.Height)
	}

	return CaptureMeta{
		ScaleX:  scaleX,
		ScaleY:  scaleY,
		OffsetX: area.X,
		OffsetY: area.Y,
	}
}

// AdjustBox 将截图内的匹配框换算为全屏输入坐标（反向缩放 + 偏移）
func AdjustBox(box cv.Box, meta CaptureMeta) auto.Region {
	return auto.Region{
		X:      auto.ScaleCoord(box.X, meta.ScaleX) + meta.OffsetX,
		Y:      auto.ScaleCoord(box.Y, meta.ScaleY) + meta.OffsetY,
		Width:  auto.ScaleCoord(box.Width, meta.ScaleX),
		Height: auto.ScaleCoord(box.Height, meta.ScaleY),
	}
}

// imageToFrame 将截图转换为灰度 Frame
func imageToFrame(img image.Image, area auto.Region) (*Frame, error) {
	mat, err := cv.ImageToGrayMat(img)
	if err != nil {
		return nil, fmt.Errorf("转换图像失败: %w", err)
	}
	b := img.Bounds()
	return &Frame{Mat: mat, Meta: BuildCaptureMeta(area, b.Dx(), b.Dy())}, nil
}

// checkRegion 校验截图区域
func checkRegion(region *auto.Region) error {
	if region == nil {
		return nil
	}
	if region.Width <= 0 || region.Height <= 0 {
		return fmt.Errorf("无效截图区域: %s", region)
	}
	return nil
}
