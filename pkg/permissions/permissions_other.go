//go:build !darwin

package permissions

// Check 非 macOS 系统不需要特殊权限
func Check() Status {
	return Status{Accessibility: true, ScreenRecording: true}
}

// RequestAccessibility 非 macOS 系统直接返回 true
func RequestAccessibility() bool {
	return true
}
