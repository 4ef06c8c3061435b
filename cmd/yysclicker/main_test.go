package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zoeyai/yysclicker/internal/logger"
	"github.com/zoeyai/yysclicker/pkg/auto/input"
	"github.com/zoeyai/yysclicker/pkg/auto/screen"
	"github.com/zoeyai/yysclicker/pkg/process"
)

func writeTemplate(t *testing.T, path string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 12, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 12; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x*29 + y*53) % 256)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("创建文件失败: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("编码 PNG 失败: %v", err)
	}
}

func writeTargets(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	writeTemplate(t, filepath.Join(dir, "button.png"))
	path := filepath.Join(dir, "targets.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	return path
}

func TestParseFlagsDefaults(t *testing.T) {
	o, err := parseFlags(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("解析默认参数失败: %v", err)
	}
	if o.targets != "targets.json" {
		t.Errorf("targets = %q", o.targets)
	}
	if o.scanInterval.Min != 0.3 || o.scanInterval.Max != 0.6 {
		t.Errorf("scanInterval = %v", o.scanInterval)
	}
	if o.capture != captureRobotgo || !o.failSafe || o.stopKey != "f12" || o.dryRun {
		t.Errorf("默认值错误: %+v", o)
	}
	if o.logLevel != logger.INFO {
		t.Errorf("logLevel = %v", o.logLevel)
	}
	if o.button != input.ButtonLeft || o.doubleClick {
		t.Errorf("默认应左键单击: button=%q double=%v", o.button, o.doubleClick)
	}
}

func TestParseFlagsValues(t *testing.T) {
	args := []string{
		"-targets", "x.json",
		"-scan-interval", "0.5,1.5",
		"-confidence", "0.9",
		"-capture", "screenshot",
		"-display", "1",
		"-failsafe=false",
		"-stop-key", "ctrl+shift+q",
		"-seed", "42",
		"-dry-run",
		"-button", "right",
		"-double-click",
		"-log-level", "debug",
	}
	o, err := parseFlags(args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("解析参数失败: %v", err)
	}
	if o.targets != "x.json" || o.confidence != 0.9 || o.capture != captureScreenshot || o.display != 1 {
		t.Errorf("参数错误: %+v", o)
	}
	if o.scanInterval.Min != 0.5 || o.scanInterval.Max != 1.5 {
		t.Errorf("scanInterval = %v", o.scanInterval)
	}
	if o.failSafe || o.stopKey != "ctrl+shift+q" || o.seed != 42 || !o.dryRun || o.logLevel != logger.DEBUG {
		t.Errorf("参数错误: %+v", o)
	}
	if o.button != input.ButtonRight || !o.doubleClick {
		t.Errorf("鼠标按键参数错误: button=%q double=%v", o.button, o.doubleClick)
	}
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown flag", []string{"-nope"}, ""},
		{"positional", []string{"extra"}, "未知参数"},
		{"interval order", []string{"-scan-interval", "0.6,0.3"}, "scan-interval"},
		{"interval format", []string{"-scan-interval", "0.3"}, "scan-interval"},
		{"confidence high", []string{"-confidence", "1.5"}, "confidence"},
		{"confidence negative", []string{"-confidence", "-0.1"}, "confidence"},
		{"capture backend", []string{"-capture", "x11"}, "capture"},
		{"display", []string{"-display", "-1"}, "display"},
		{"stop key", []string{"-stop-key", "q+ctrl"}, "stop-key"},
		{"button", []string{"-button", "middle"}, "button"},
		{"log level", []string{"-log-level", "verbose"}, "log-level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != exitUsage {
				t.Fatalf("退出码 = %d, want %d (stderr: %s)", code, exitUsage, stderr.String())
			}
			if tt.wantErr != "" && !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr 应包含 %q: %s", tt.wantErr, stderr.String())
			}
		})
	}
}

func TestRunConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.json") },
			wantErr: "读取配置文件失败",
		},
		{
			name:    "not an array",
			path:    func(t *testing.T) string { return writeTargets(t, `{"name": "x"}`) },
			wantErr: "JSON 数组",
		},
		{
			name:    "missing image",
			path:    func(t *testing.T) string { return writeTargets(t, `[{"name": "x", "image": "none.png"}]`) },
			wantErr: "none.png",
		},
		{
			name:    "empty list",
			path:    func(t *testing.T) string { return writeTargets(t, `[]`) },
			wantErr: "没有可用的目标",
		},
		{
			name: "all disabled",
			path: func(t *testing.T) string {
				return writeTargets(t, `[{"name": "按钮", "image": "button.png", "enabled": false}]`)
			},
			wantErr: "没有可用的目标",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run([]string{"-targets", tt.path(t)}, &stdout, &stderr)
			if code != exitUsage {
				t.Fatalf("退出码 = %d, want %d (stderr: %s)", code, exitUsage, stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr 应包含 %q: %s", tt.wantErr, stderr.String())
			}
		})
	}
}

func TestRunReplayMissingImage(t *testing.T) {
	path := writeTargets(t, `[{"name": "按钮", "image": "button.png"}]`)
	replay := filepath.Join(t.TempDir(), "none.png")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-targets", path, "-replay", replay, "-dry-run", "-stop-key", ""}, &stdout, &stderr)
	if code != exitFatal {
		t.Fatalf("退出码 = %d, want %d", code, exitFatal)
	}
	if !strings.Contains(stdout.String(), "回放截图") {
		t.Errorf("日志应说明回放截图加载失败: %s", stdout.String())
	}
}

func TestRunVersionAndHelp(t *testing.T) {
	var stdout bytes.Buffer
	if code := run([]string{"-version"}, &stdout, &bytes.Buffer{}); code != exitOK {
		t.Fatalf("-version 退出码 = %d", code)
	}
	if !strings.Contains(stdout.String(), "yysclicker v"+Version) {
		t.Errorf("版本输出错误: %s", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"-help"}, &stdout, &bytes.Buffer{}); code != exitOK {
		t.Fatalf("-help 退出码 = %d", code)
	}
	for _, want := range []string{"-targets", "-scan-interval", "-dry-run", "退出码"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("帮助信息缺少 %q", want)
		}
	}
}

func TestDescribeCapturer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.png")
	writeTemplate(t, path)

	ic, err := screen.LoadImageCapturer(path)
	if err != nil {
		t.Fatalf("加载截图失败: %v", err)
	}
	defer ic.Close()

	if got := describeCapturer(ic); got != "回放截图 12x10" {
		t.Errorf("describeCapturer = %q", got)
	}
	if got := describeCapturer(screen.NewRobotgoCapturer()); !strings.Contains(got, "robotgo") {
		t.Errorf("describeCapturer = %q", got)
	}
}

func TestProcessCheck(t *testing.T) {
	game := process.ProcessInfo{PID: 4321, Name: "onmyoji.exe"}
	alive := true
	var asked []int
	check := processCheck(game, func(pid int) bool {
		asked = append(asked, pid)
		return alive
	})

	if err := check(); err != nil {
		t.Errorf("进程运行中不应报错: %v", err)
	}
	alive = false
	err := check()
	if err == nil || !strings.Contains(err.Error(), "onmyoji.exe") {
		t.Errorf("进程退出应返回错误: %v", err)
	}
	if len(asked) != 2 || asked[0] != 4321 {
		t.Errorf("应按 PID 检查: %v", asked)
	}
}
