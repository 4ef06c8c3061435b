// Package clicker 实现识别-点击循环
//
// 扫描循环按配置顺序逐个截图匹配目标，第一个命中的目标由执行器以拟人化的
// 移动、停顿和点击处理，随后结束本轮；全部未命中时随机等待一段时间再开始下一轮。
package clicker

import (
	"errors"
	"fmt"

	"github.com/zoeyai/yysclicker/pkg/auto"
	"github.com/zoeyai/yysclicker/pkg/config"
	"github.com/zoeyai/yysclicker/pkg/vision/cv"
)

// Target 一个需要识别并点击的界面元素
// 构建后只读；持有模板图像，进程结束前调用 Close 释放
type Target struct {
	Name           string
	Template       *cv.Template
	Confidence     float64
	Region         *auto.Region
	ClickMargin    int
	MoveDuration   auto.Range
	PreClickDelay  auto.Range
	PostClickDelay auto.Range
	Enabled        bool
}

// NewTarget 从原始记录构建目标
// baseDir 用于解析相对图像路径；字段不合法或图像无法解码时返回 *config.ConfigError
func NewTarget(baseDir string, raw map[string]interface{}) (*Target, error) {
	cfg, err := config.ParseTarget(baseDir, -1, raw)
	if err != nil {
		return nil, err
	}
	return NewTargetFromConfig(cfg, -1)
}

// NewTargetFromConfig 加载已校验配置中的模板图像并构建目标
// index 为目标在配置文件中的下标，仅用于错误信息（-1 表示无）
func NewTargetFromConfig(cfg config.TargetConfig, index int) (*Target, error) {
	tmpl, err := cv.LoadTemplate(cfg.Image)
	if err != nil {
		return nil, &config.ConfigError{
			Index: index,
			Field: config.FieldImage,
			Msg:   fmt.Sprintf("无法加载模板图像 %s", cfg.Image),
			Err:   err,
		}
	}

	var region *auto.Region
	if cfg.Region != nil {
		r := *cfg.Region
		region = &r
	}

	return &Target{
		Name:           cfg.Name,
		Template:       tmpl,
		Confidence:     cfg.Confidence,
		Region:         region,
		ClickMargin:    cfg.ClickMargin,
		MoveDuration:   cfg.MoveDuration,
		PreClickDelay:  cfg.PreClickDelay,
		PostClickDelay: cfg.PostClickDelay,
		Enabled:        cfg.Enabled,
	}, nil
}

// LoadTargets 加载配置文件并构建全部目标
// 任何一个目标失败都会释放已加载的模板并返回错误，不支持部分成功
func LoadTargets(path string) ([]*Target, error) {
	cfgs, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	targets := make([]*Target, 0, len(cfgs))
	for i, cfg := range cfgs {
		t, err := NewTargetFromConfig(cfg, i)
		if err != nil {
			CloseTargets(targets)
			var ce *config.ConfigError
			if errors.As(err, &ce) {
				ce.Path = path
			}
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// Width 模板宽度
func (t *Target) Width() int {
	return t.Template.Width()
}

// Height 模板高度
func (t *Target) Height() int {
	return t.Template.Height()
}

// Threshold 返回匹配阈值：override > 0 时使用 override，否则使用目标自己的阈值
func (t *Target) Threshold(override float64) float64 {
	if override > 0 {
		return override
	}
	return t.Confidence
}

// Close 释放模板图像
func (t *Target) Close() {
	if t != nil && t.Template != nil {
		t.Template.Close()
	}
}

func (t *Target) String() string {
	if t.Region != nil {
		return fmt.Sprintf("%s %dx%d @%s", t.Name, t.Width(), t.Height(), t.Region)
	}
	return fmt.Sprintf("%s %dx%d", t.Name, t.Width(), t.Height())
}

// CloseTargets 释放所有目标
func CloseTargets(targets []*Target) {
	for _, t := range targets {
		t.Close()
	}
}

// EnabledTargets 返回启用的目标（保持顺序）
func EnabledTargets(targets []*Target) []*Target {
	enabled := make([]*Target, 0, len(targets))
	for _, t := range targets {
		if t.Enabled {
			enabled = append(enabled, t)
		}
	}
	return enabled
}
