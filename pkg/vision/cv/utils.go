package cv

import (
	"fmt"
	"image"
	_ "image/gif"  // 注册 GIF 解码器
	_ "image/jpeg" // 注册 JPEG 解码器
	_ "image/png"  // 注册 PNG 解码器
	"os"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"  // 注册 BMP 解码器
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // 注册 WebP 解码器
)

// ReadImageGray 读取灰度图像
// OpenCV 读取失败时（例如 Windows 下的非 ASCII 路径、OpenCV 不支持的格式）
// 回退到 Go 图像解码器
func ReadImageGray(filename string) (gocv.Mat, error) {
	mat := gocv.IMRead(filename, gocv.IMReadGrayScale)
	if !mat.Empty() {
		return mat, nil
	}
	mat.Close()

	img, err := decodeImageFile(filename)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("无法读取图像 %s: %w", filename, err)
	}
	return ImageToGrayMat(img)
}

// decodeImageFile 使用已注册的 Go 解码器解码图像文件
func decodeImageFile(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("解码失败: %w", err)
	}
	return img, nil
}

// ImageToGray 将任意 image.Image 转换为灰度图（亮度），原点归零
func ImageToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(gray, image.Point{}, img, b, draw.Src, nil)
	return gray
}

// ImageToGrayMat 将 image.Image 转换为单通道 gocv.Mat
func ImageToGrayMat(img image.Image) (gocv.Mat, error) {
	if img == nil || img.Bounds().Empty() {
		return gocv.Mat{}, fmt.Errorf("图像为空")
	}
	mat, err := gocv.ImageGrayToMatGray(ImageToGray(img))
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("图像转换失败: %w", err)
	}
	return mat, nil
}

// ToGray 转换为灰度图，单通道图像返回副本
func ToGray(src gocv.Mat) gocv.Mat {
	switch src.Channels() {
	case 1:
		return src.Clone()
	case 4:
		dst := gocv.NewMat()
		gocv.CvtColor(src, &dst, gocv.ColorBGRAToGray)
		return dst
	default:
		dst := gocv.NewMat()
		gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
		return dst
	}
}

// GetResolution 获取图像分辨率 (width, height)
func GetResolution(img gocv.Mat) (int, int) {
	return img.Cols(), img.Rows()
}

// CropImage 裁剪图像并返回独立副本，越界部分会被截掉
func CropImage(img gocv.Mat, rect image.Rectangle) gocv.Mat {
	rect = rect.Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))
	if rect.Empty() {
		return gocv.NewMat()
	}
	region := img.Region(rect)
	defer region.Close()
	return region.Clone()
}
