// Package config 解析目标配置文件（JSON 数组），产出经过校验的目标定义。
//
// 文件格式:
//
//	[
//	  {
//	    "name": "挑战",
//	    "image": "images/challenge.png",
//	    "confidence": 0.9,
//	    "region": [100, 200, 400, 300],
//	    "click_margin": 8,
//	    "move_duration_range": [0.3, 0.7],
//	    "pre_click_delay_range": [0.1, 0.4],
//	    "post_click_delay_range": [0.6, 1.2]
//	  }
//	]
//
// image 相对于配置文件所在目录解析。任何一条记录不合法都会使整个加载失败。
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zoeyai/yysclicker/pkg/auto"
)

// 默认值
const (
	DefaultTargetsFile = "targets.json"
	DefaultConfidence  = 0.85
	DefaultClickMargin = 6
)

// 默认时间区间（秒）
var (
	DefaultMoveDuration   = auto.NewRange(0.3, 0.7)
	DefaultPreClickDelay  = auto.NewRange(0.1, 0.4)
	DefaultPostClickDelay = auto.NewRange(0.6, 1.2)
	DefaultScanInterval   = auto.NewRange(0.3, 0.6)
)

// 配置字段名
const (
	FieldName           = "name"
	FieldImage          = "image"
	FieldConfidence     = "confidence"
	FieldRegion         = "region"
	FieldClickMargin    = "click_margin"
	FieldMoveDuration   = "move_duration_range"
	FieldPreClickDelay  = "pre_click_delay_range"
	FieldPostClickDelay = "post_click_delay_range"
	FieldEnabled        = "enabled"
)

// TargetConfig 单个目标的配置（已校验）
type TargetConfig struct {
	Name           string       `json:"name"`
	Image          string       `json:"image"` // 已解析为完整路径
	Confidence     float64      `json:"confidence"`
	Region         *auto.Region `json:"region,omitempty"`
	ClickMargin    int          `json:"click_margin"`
	MoveDuration   auto.Range   `json:"move_duration_range"`
	PreClickDelay  auto.Range   `json:"pre_click_delay_range"`
	PostClickDelay auto.Range   `json:"post_click_delay_range"`
	Enabled        bool         `json:"enabled"`
}

// DefaultTargetConfig 返回填充默认值的目标配置
func DefaultTargetConfig() TargetConfig {
	return TargetConfig{
		Confidence:     DefaultConfidence,
		ClickMargin:    DefaultClickMargin,
		MoveDuration:   DefaultMoveDuration,
		PreClickDelay:  DefaultPreClickDelay,
		PostClickDelay: DefaultPostClickDelay,
		Enabled:        true,
	}
}

// LoadFile 加载并校验目标配置文件
func LoadFile(path string) ([]TargetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Index: -1, Msg: "读取配置文件失败", Err: err}
	}

	targets, err := Parse(data, filepath.Dir(path))
	if err != nil {
		if ce, ok := err.(*ConfigError); ok {
			ce.Path = path
		}
		return nil, err
	}
	return targets, nil
}

// Parse 解析配置内容，baseDir 用于解析相对图像路径
func Parse(data []byte, baseDir string) ([]TargetConfig, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, &ConfigError{Index: -1, Msg: "解析 JSON 失败", Err: err}
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, &ConfigError{Index: -1, Msg: "目标配置必须是 JSON 数组"}
	}

	targets := make([]TargetConfig, 0, len(items))
	for i, item := range items {
		record, ok := item.(map[string]interface{})
		if !ok {
			return nil, &ConfigError{Index: i, Msg: "每个目标必须是 JSON 对象"}
		}
		cfg, err := ParseTarget(baseDir, i, record)
		if err != nil {
			return nil, err
		}
		targets = append(targets, cfg)
	}
	return targets, nil
}

// ParseTarget 将一条原始记录解析为目标配置
// 缺失的可选字段使用默认值；任何字段不合法都返回 *ConfigError
func ParseTarget(baseDir string, index int, raw map[string]interface{}) (TargetConfig, error) {
	cfg := DefaultTargetConfig()

	name, err := requireString(index, raw, FieldName)
	if err != nil {
		return cfg, err
	}
	cfg.Name = name

	image, err := requireString(index, raw, FieldImage)
	if err != nil {
		return cfg, err
	}
	if !filepath.IsAbs(image) {
		image = filepath.Join(baseDir, image)
	}
	if _, err := os.Stat(image); err != nil {
		return cfg, &ConfigError{Index: index, Field: FieldImage, Msg: fmt.Sprintf("图像文件不存在: %s", image), Err: err}
	}
	cfg.Image = image

	if v, ok := raw[FieldConfidence]; ok && v != nil {
		c, ok := toFloat(v)
		if !ok || c <= 0 || c > 1 {
			return cfg, fieldError(index, FieldConfidence, "置信度必须是 (0, 1] 内的数值: %v", v)
		}
		cfg.Confidence = c
	}

	if v, ok := raw[FieldRegion]; ok && v != nil {
		region, err := parseRegion(v)
		if err != nil {
			return cfg, fieldError(index, FieldRegion, "%v", err)
		}
		cfg.Region = region
	}

	if v, ok := raw[FieldClickMargin]; ok && v != nil {
		m, ok := toInt(v)
		if !ok || m < 0 {
			return cfg, fieldError(index, FieldClickMargin, "点击边距必须是非负整数: %v", v)
		}
		cfg.ClickMargin = m
	}

	ranges := []struct {
		field string
		dst   *auto.Range
	}{
		{FieldMoveDuration, &cfg.MoveDuration},
		{FieldPreClickDelay, &cfg.PreClickDelay},
		{FieldPostClickDelay, &cfg.PostClickDelay},
	}
	for _, r := range ranges {
		v, ok := raw[r.field]
		if !ok || v == nil {
			continue
		}
		parsed, err := parseRangeValue(v)
		if err != nil {
			return cfg, fieldError(index, r.field, "%v", err)
		}
		*r.dst = parsed
	}

	if v, ok := raw[FieldEnabled]; ok && v != nil {
		enabled, ok := v.(bool)
		if !ok {
			return cfg, fieldError(index, FieldEnabled, "必须是布尔值: %v", v)
		}
		cfg.Enabled = enabled
	}

	return cfg, nil
}

// ParseRange 解析命令行区间参数，如 "0.3,0.6" 或 "0.3 0.6"
func ParseRange(s string) (auto.Range, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(parts) != 2 {
		return auto.Range{}, fmt.Errorf("区间必须包含两个数值 (min,max): %q", s)
	}

	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return auto.Range{}, fmt.Errorf("无效的最小值 %q: %w", parts[0], err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return auto.Range{}, fmt.Errorf("无效的最大值 %q: %w", parts[1], err)
	}

	r := auto.NewRange(lo, hi)
	if err := r.Validate(); err != nil {
		return auto.Range{}, err
	}
	return r, nil
}

// ==================== 内部解析函数 ====================

func requireString(index int, raw map[string]interface{}, field string) (string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return "", fieldError(index, field, "缺少必填字段")
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fieldError(index, field, "必须是非空字符串")
	}
	return s, nil
}

func parseRegion(v interface{}) (*auto.Region, error) {
	items, ok := v.([]interface{})
	if !ok || len(items) != 4 {
		return nil, fmt.Errorf("区域必须是 4 个整数: left, top, width, height")
	}

	var vals [4]int
	for i, item := range items {
		n, ok := toInt(item)
		if !ok {
			return nil, fmt.Errorf("区域必须是 4 个整数: 第 %d 项为 %v", i+1, item)
		}
		vals[i] = n
	}

	region := &auto.Region{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if region.X < 0 || region.Y < 0 {
		return nil, fmt.Errorf("区域左上角不能为负: %s", region)
	}
	if region.Width <= 0 || region.Height <= 0 {
		return nil, fmt.Errorf("区域宽高必须大于 0: %s", region)
	}
	return region, nil
}

func parseRangeValue(v interface{}) (auto.Range, error) {
	items, ok := v.([]interface{})
	if !ok || len(items) != 2 {
		return auto.Range{}, fmt.Errorf("区间必须包含两个数值: min, max")
	}

	lo, ok := toFloat(items[0])
	if !ok {
		return auto.Range{}, fmt.Errorf("区间最小值不是数值: %v", items[0])
	}
	hi, ok := toFloat(items[1])
	if !ok {
		return auto.Range{}, fmt.Errorf("区间最大值不是数值: %v", items[1])
	}

	r := auto.NewRange(lo, hi)
	if err := r.Validate(); err != nil {
		return auto.Range{}, err
	}
	return r, nil
}

// toFloat 支持 json.Number 以及调用方直接构造的数值类型
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toInt 只接受整数值（1.0 视为整数，1.5 不是）
func toInt(v interface{}) (int, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	}
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
