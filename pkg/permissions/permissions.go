// Package permissions 检查自动点击所需的系统权限
// macOS 需要辅助功能（注入鼠标事件）和屏幕录制（截屏）权限，其他系统默认视为已授权
package permissions

import "strings"

// Status 权限状态
type Status struct {
	Accessibility   bool `json:"accessibility"`
	ScreenRecording bool `json:"screen_recording"`
}

// AllGranted 是否所有权限都已授予
func (s Status) AllGranted() bool {
	return s.Accessibility && s.ScreenRecording
}

// Instructions 返回缺失权限的授权说明，全部已授予时为空
func (s Status) Instructions() string {
	if s.AllGranted() {
		return ""
	}

	var b strings.Builder
	b.WriteString("需要授权以下权限才能正常工作:\n")
	if !s.Accessibility {
		b.WriteString("  - 辅助功能权限 (用于控制鼠标)\n")
		b.WriteString("    系统设置 > 隐私与安全性 > 辅助功能\n")
	}
	if !s.ScreenRecording {
		b.WriteString("  - 屏幕录制权限 (用于截屏和图像识别)\n")
		b.WriteString("    系统设置 > 隐私与安全性 > 屏幕录制\n")
	}
	b.WriteString("授权后需要重启终端才能生效。")
	return b.String()
}
