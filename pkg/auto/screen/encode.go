package screen

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// SaveFrame 将截图保存为图像文件
// 格式由扩展名决定：.png 或 .jpg/.jpeg，quality 为 JPEG 质量 1-100，默认 90
func SaveFrame(frame *Frame, filename string, quality int) error {
	if frame == nil || frame.Mat.Empty() {
		return fmt.Errorf("图像为空")
	}
	img, err := frame.Mat.ToImage()
	if err != nil {
		return fmt.Errorf("转换图像失败: %w", err)
	}
	return SaveImage(img, filename, quality)
}

// SaveImage 将图像保存为文件
func SaveImage(img image.Image, filename string, quality int) error {
	if img == nil {
		return fmt.Errorf("图像为空")
	}
	if quality <= 0 || quality > 100 {
		quality = 90
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("不支持的图像格式: %s", ext)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer f.Close()

	switch ext {
	case ".png":
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("PNG 编码失败: %w", err)
		}
	default:
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("JPEG 编码失败: %w", err)
		}
	}
	return nil
}
