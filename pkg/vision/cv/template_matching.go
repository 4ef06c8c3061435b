package cv

import (
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"gocv.io/x/gocv"
)

// TemplateMatching 模板匹配器
type TemplateMatching struct {
	imSearch  gocv.Mat
	imSource  gocv.Mat
	threshold float64
}

// NewTemplateMatching 创建模板匹配器
// search 为模板，source 为截图；二者都会在匹配前转为灰度
func NewTemplateMatching(search, source gocv.Mat, threshold float64) *TemplateMatching {
	return &TemplateMatching{
		imSearch:  search,
		imSource:  source,
		threshold: threshold,
	}
}

// FindBestResult 查找最佳匹配结果
// 最高分低于阈值时返回 (nil, nil)；源图像小于模板时返回 *ImageSizeError
func (t *TemplateMatching) FindBestResult() (*MatchResult, error) {
	result, err := t.findBestAlignment()
	if err != nil {
		return nil, err
	}
	if result.Confidence < t.threshold {
		return nil, nil
	}
	return result, nil
}

// findBestAlignment 计算所有合法对齐位置的相关系数并取最大值
// 多个位置得分相同时取光栅顺序中的第一个
func (t *TemplateMatching) findBestAlignment() (*MatchResult, error) {
	startTime := time.Now()

	if err := checkSourceLargerThanSearch(t.imSource, t.imSearch); err != nil {
		return nil, err
	}

	result := t.getTemplateResultMatrix()
	defer result.Close()

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)
	maxLoc, maxVal = firstNearMax(result, maxLoc, maxVal)

	confidence := float64(maxVal)
	if math.IsNaN(confidence) || math.IsInf(confidence, 0) {
		// 模板或截图完全平坦时相关系数无定义
		confidence = 0
	}

	h, w := t.imSearch.Rows(), t.imSearch.Cols()
	return &MatchResult{
		Box:        Box{X: maxLoc.X, Y: maxLoc.Y, Width: w, Height: h},
		Confidence: confidence,
		Time:       float64(time.Since(startTime).Microseconds()) / 1000,
	}, nil
}

// tieTolerance 得分差在此范围内视为相同（float32 相关计算的舍入误差）
const tieTolerance = 1e-5

// firstNearMax 返回光栅顺序中第一个与最高分相差不超过 tieTolerance 的位置及其得分
// 同一图案出现多次时，各处得分可能只差最后几位，这里保证取最靠前的一处
func firstNearMax(result gocv.Mat, maxLoc image.Point, maxVal float32) (image.Point, float32) {
	data, err := result.DataPtrFloat32()
	if err != nil {
		return maxLoc, maxVal
	}
	cols := result.Cols()
	limit := maxVal - tieTolerance
	for i, v := range data {
		if v >= limit {
			return image.Pt(i%cols, i/cols), v
		}
	}
	return maxLoc, maxVal
}

// getTemplateResultMatrix 计算模板匹配结果矩阵
func (t *TemplateMatching) getTemplateResultMatrix() gocv.Mat {
	srcGray := ToGray(t.imSource)
	searchGray := ToGray(t.imSearch)
	defer srcGray.Close()
	defer searchGray.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	result := gocv.NewMat()
	gocv.MatchTemplate(srcGray, searchGray, &result, gocv.TmCcoeffNormed, mask)
	return result
}

// checkSourceLargerThanSearch 检查源图像是否能容纳模板
func checkSourceLargerThanSearch(source, search gocv.Mat) error {
	if source.Empty() || source.Rows() < search.Rows() || source.Cols() < search.Cols() {
		return &ImageSizeError{
			SourceSize: [2]int{source.Cols(), source.Rows()},
			SearchSize: [2]int{search.Cols(), search.Rows()},
		}
	}
	return nil
}

// ImageSizeError 图像尺寸错误
type ImageSizeError struct {
	SourceSize [2]int
	SearchSize [2]int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("模板尺寸 %dx%d 大于源图像 %dx%d",
		e.SearchSize[0], e.SearchSize[1], e.SourceSize[0], e.SourceSize[1])
}

// ==================== 便捷函数 ====================

// Locate 在截图中查找模板
// 截图小于模板或最高分低于阈值时返回 (nil, nil)，二者都表示"未找到"
func Locate(source gocv.Mat, tmpl *Template, threshold float64) (*MatchResult, error) {
	result, err := NewTemplateMatching(tmpl.Mat(), source, threshold).FindBestResult()
	if err != nil {
		var sizeErr *ImageSizeError
		if errors.As(err, &sizeErr) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

// BestMatch 返回最佳对齐位置及其得分，不做阈值判断（用于调试和校准阈值）
func BestMatch(source gocv.Mat, tmpl *Template) (*MatchResult, error) {
	return NewTemplateMatching(tmpl.Mat(), source, 0).findBestAlignment()
}
