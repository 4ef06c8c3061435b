package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zoeyai/yysclicker/pkg/auto"
)

// writeFile 在临时目录写入文件
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
	return path
}

// setupDir 创建包含一个占位图像的配置目录
// 配置解析只检查图像是否存在，不解码
func setupDir(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, dir, "images/a.png", "png")
	return dir
}

func TestDefaultTargetConfig(t *testing.T) {
	cfg := DefaultTargetConfig()

	if cfg.Confidence != 0.85 {
		t.Errorf("默认置信度应为 0.85, 实际为 %v", cfg.Confidence)
	}
	if cfg.ClickMargin != 6 {
		t.Errorf("默认点击边距应为 6, 实际为 %d", cfg.ClickMargin)
	}
	if cfg.MoveDuration != auto.NewRange(0.3, 0.7) {
		t.Errorf("默认移动时长错误: %v", cfg.MoveDuration)
	}
	if cfg.PreClickDelay != auto.NewRange(0.1, 0.4) {
		t.Errorf("默认点击前延迟错误: %v", cfg.PreClickDelay)
	}
	if cfg.PostClickDelay != auto.NewRange(0.6, 1.2) {
		t.Errorf("默认点击后延迟错误: %v", cfg.PostClickDelay)
	}
	if cfg.Region != nil {
		t.Error("默认不应限制搜索区域")
	}
	if !cfg.Enabled {
		t.Error("默认应启用")
	}
}

func TestLoadFile(t *testing.T) {
	dir := setupDir(t)
	path := writeFile(t, dir, "targets.json", `[
		{"name": "挑战", "image": "images/a.png"},
		{
			"name": "确认",
			"image": "images/a.png",
			"confidence": 0.9,
			"region": [10, 20, 300, 200],
			"click_margin": 3,
			"move_duration_range": [0.3, 0.3],
			"pre_click_delay_range": [0, 0.2],
			"post_click_delay_range": [1, 2],
			"enabled": false,
			"comment": "未知字段会被忽略"
		}
	]`)

	targets, err := LoadFile(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("应加载 2 个目标, 实际 %d", len(targets))
	}

	first := targets[0]
	if first.Name != "挑战" {
		t.Errorf("名称不匹配: %s", first.Name)
	}
	if first.Image != filepath.Join(dir, "images/a.png") {
		t.Errorf("图像路径应相对配置文件目录解析: %s", first.Image)
	}
	if first.Confidence != DefaultConfidence || first.ClickMargin != DefaultClickMargin {
		t.Errorf("未指定字段应使用默认值: %+v", first)
	}

	second := targets[1]
	if second.Confidence != 0.9 {
		t.Errorf("置信度不匹配: %v", second.Confidence)
	}
	if second.Region == nil || *second.Region != (auto.Region{X: 10, Y: 20, Width: 300, Height: 200}) {
		t.Errorf("区域不匹配: %v", second.Region)
	}
	if second.ClickMargin != 3 {
		t.Errorf("点击边距不匹配: %d", second.ClickMargin)
	}
	if second.MoveDuration != auto.NewRange(0.3, 0.3) {
		t.Errorf("移动时长不匹配: %v", second.MoveDuration)
	}
	if second.PostClickDelay != auto.NewRange(1, 2) {
		t.Errorf("点击后延迟不匹配: %v", second.PostClickDelay)
	}
	if second.Enabled {
		t.Error("enabled=false 应被解析")
	}

	t.Logf("加载的目标: %+v", targets)
}

func TestLoadFileEmptyArray(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "targets.json", `[]`)

	targets, err := LoadFile(path)
	if err != nil {
		t.Fatalf("空数组不应报错: %v", err)
	}
	if len(targets) != 0 {
		t.Errorf("应返回 0 个目标, 实际 %d", len(targets))
	}
}

func TestLoadFileNotExist(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("文件不存在应返回错误")
	}

	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("应返回 ConfigError, 实际 %T", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("应能识别为文件不存在: %v", err)
	}
}

func TestParseInvalid(t *testing.T) {
	dir := setupDir(t)

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"not json", `not valid json`, ""},
		{"not array", `{"name": "a"}`, ""},
		{"item not object", `["a"]`, ""},
		{"missing name", `[{"image": "images/a.png"}]`, FieldName},
		{"empty name", `[{"name": "", "image": "images/a.png"}]`, FieldName},
		{"missing image", `[{"name": "a"}]`, FieldImage},
		{"image not found", `[{"name": "a", "image": "images/none.png"}]`, FieldImage},
		{"confidence zero", `[{"name": "a", "image": "images/a.png", "confidence": 0}]`, FieldConfidence},
		{"confidence above one", `[{"name": "a", "image": "images/a.png", "confidence": 1.5}]`, FieldConfidence},
		{"confidence string", `[{"name": "a", "image": "images/a.png", "confidence": "high"}]`, FieldConfidence},
		{"region three ints", `[{"name": "a", "image": "images/a.png", "region": [1, 2, 3]}]`, FieldRegion},
		{"region five ints", `[{"name": "a", "image": "images/a.png", "region": [1, 2, 3, 4, 5]}]`, FieldRegion},
		{"region fraction", `[{"name": "a", "image": "images/a.png", "region": [1, 2, 3.5, 4]}]`, FieldRegion},
		{"region zero width", `[{"name": "a", "image": "images/a.png", "region": [1, 2, 0, 4]}]`, FieldRegion},
		{"region negative left", `[{"name": "a", "image": "images/a.png", "region": [-1, 2, 3, 4]}]`, FieldRegion},
		{"region object", `[{"name": "a", "image": "images/a.png", "region": {"x": 1}}]`, FieldRegion},
		{"margin negative", `[{"name": "a", "image": "images/a.png", "click_margin": -1}]`, FieldClickMargin},
		{"margin fraction", `[{"name": "a", "image": "images/a.png", "click_margin": 2.5}]`, FieldClickMargin},
		{"move range min > max", `[{"name": "a", "image": "images/a.png", "move_duration_range": [0.7, 0.3]}]`, FieldMoveDuration},
		{"pre range one value", `[{"name": "a", "image": "images/a.png", "pre_click_delay_range": [0.1]}]`, FieldPreClickDelay},
		{"post range min > max", `[{"name": "a", "image": "images/a.png", "post_click_delay_range": [2, 1]}]`, FieldPostClickDelay},
		{"post range string", `[{"name": "a", "image": "images/a.png", "post_click_delay_range": ["a", 1]}]`, FieldPostClickDelay},
		{"enabled string", `[{"name": "a", "image": "images/a.png", "enabled": "yes"}]`, FieldEnabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), dir)
			if err == nil {
				t.Fatal("应返回错误")
			}

			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("应返回 ConfigError, 实际 %T: %v", err, err)
			}
			if ce.Field != tt.field {
				t.Errorf("出错字段应为 %q, 实际 %q (%v)", tt.field, ce.Field, err)
			}
			t.Logf("错误信息: %v", err)
		})
	}
}

func TestParseFailsWholeLoad(t *testing.T) {
	dir := setupDir(t)
	content := `[
		{"name": "ok", "image": "images/a.png"},
		{"name": "bad", "image": "images/a.png", "move_duration_range": [1, 0]}
	]`

	targets, err := Parse([]byte(content), dir)
	if err == nil {
		t.Fatal("任一目标不合法都应导致加载失败")
	}
	if targets != nil {
		t.Errorf("失败时不应返回部分结果: %v", targets)
	}

	var ce *ConfigError
	if errors.As(err, &ce) && ce.Index != 1 {
		t.Errorf("应定位到第 2 个目标, 实际 Index=%d", ce.Index)
	}
}

func TestParseTargetAbsoluteImage(t *testing.T) {
	dir := setupDir(t)
	abs := filepath.Join(dir, "images/a.png")

	cfg, err := ParseTarget("/somewhere/else", 0, map[string]interface{}{
		"name":  "abs",
		"image": abs,
		"region": []interface{}{
			0, 0, 100, 50,
		},
		"move_duration_range": []interface{}{0.3, 0.3},
	})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if cfg.Image != abs {
		t.Errorf("绝对路径不应拼接 baseDir: %s", cfg.Image)
	}
	if cfg.Region.Width != 100 || cfg.Region.Height != 50 {
		t.Errorf("区域不匹配: %v", cfg.Region)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		input   string
		want    auto.Range
		wantErr bool
	}{
		{input: "0.3,0.6", want: auto.NewRange(0.3, 0.6)},
		{input: "0.3 0.6", want: auto.NewRange(0.3, 0.6)},
		{input: "1, 1", want: auto.NewRange(1, 1)},
		{input: "0.6,0.3", wantErr: true},
		{input: "0.3", wantErr: true},
		{input: "a,b", wantErr: true},
		{input: "-1,2", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseRange(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Path: "targets.json", Index: 1, Field: FieldRegion, Msg: "区域必须是 4 个整数"}
	msg := err.Error()

	for _, part := range []string{"targets.json", "第 2 个目标", "[region]", "区域必须是 4 个整数"} {
		if !strings.Contains(msg, part) {
			t.Errorf("错误信息应包含 %q: %s", part, msg)
		}
	}
}
