package cv

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Template 模板图像
// 加载后只读，持有灰度 Mat，使用完毕需 Close
type Template struct {
	// Filename 模板文件路径（由 Mat 创建时为空）
	Filename string

	mat    gocv.Mat
	width  int
	height int
	closed bool
}

// LoadTemplate 从文件加载模板并转换为灰度图
func LoadTemplate(filename string) (*Template, error) {
	mat, err := ReadImageGray(filename)
	if err != nil {
		return nil, err
	}

	t, err := newTemplate(mat)
	if err != nil {
		mat.Close()
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	t.Filename = filename
	return t, nil
}

// NewTemplateFromMat 从 Mat 创建模板（复制数据，多通道会转为灰度）
func NewTemplateFromMat(src gocv.Mat) (*Template, error) {
	if src.Empty() {
		return nil, fmt.Errorf("模板图像为空")
	}
	gray := ToGray(src)
	t, err := newTemplate(gray)
	if err != nil {
		gray.Close()
		return nil, err
	}
	return t, nil
}

func newTemplate(gray gocv.Mat) (*Template, error) {
	w, h := GetResolution(gray)
	if gray.Empty() || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("模板图像为空")
	}
	return &Template{mat: gray, width: w, height: h}, nil
}

// Mat 返回模板灰度图（调用方不得修改或关闭）
func (t *Template) Mat() gocv.Mat {
	return t.mat
}

// Width 模板宽度
func (t *Template) Width() int {
	return t.width
}

// Height 模板高度
func (t *Template) Height() int {
	return t.height
}

// Close 释放资源
func (t *Template) Close() {
	if t.closed {
		return
	}
	t.mat.Close()
	t.closed = true
}

// String 返回字符串表示
func (t *Template) String() string {
	return fmt.Sprintf("Template(%s %dx%d)", t.Filename, t.width, t.height)
}
