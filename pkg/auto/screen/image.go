package screen

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/zoeyai/yysclicker/pkg/auto"
	"github.com/zoeyai/yysclicker/pkg/vision/cv"
)

// ImageCapturer 把一张静态图片当作显示器
// 用于离线调试、演练和测试；区域截图等价于裁剪，坐标偏移与实时截图一致
type ImageCapturer struct {
	mu    sync.Mutex
	mat   gocv.Mat
	calls int
}

// NewImageCapturer 从 Mat 创建静态截图源（复制并转为灰度）
func NewImageCapturer(src gocv.Mat) (*ImageCapturer, error) {
	if src.Empty() {
		return nil, fmt.Errorf("图像为空")
	}
	return &ImageCapturer{mat: cv.ToGray(src)}, nil
}

// LoadImageCapturer 从图像文件创建静态截图源
func LoadImageCapturer(filename string) (*ImageCapturer, error) {
	mat, err := cv.ReadImageGray(filename)
	if err != nil {
		return nil, err
	}
	return &ImageCapturer{mat: mat}, nil
}

// Capture 返回整张图片或其裁剪区域的副本
// 区域超出图片的部分会被截掉，完全在图片外时返回空图像
func (c *ImageCapturer) Capture(region *auto.Region) (*Frame, error) {
	if err := checkRegion(region); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	if region == nil {
		return &Frame{Mat: c.mat.Clone(), Meta: CaptureMeta{ScaleX: 1, ScaleY: 1}}, nil
	}
	return &Frame{
		Mat:  cv.CropImage(c.mat, region.Rect()),
		Meta: CaptureMeta{ScaleX: 1, ScaleY: 1, OffsetX: region.X, OffsetY: region.Y},
	}, nil
}

// Size 返回图像尺寸
func (c *ImageCapturer) Size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cv.GetResolution(c.mat)
}

// Calls 返回 Capture 被调用的次数
func (c *ImageCapturer) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Close 释放图像
func (c *ImageCapturer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mat.Close()
}
