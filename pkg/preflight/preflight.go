// Package preflight 启动前的环境检查：显示器、系统权限、游戏进程
package preflight

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/zoeyai/yysclicker/pkg/auto/screen"
	"github.com/zoeyai/yysclicker/pkg/permissions"
	"github.com/zoeyai/yysclicker/pkg/process"
)

// ErrNoDisplay 没有可用的显示器
var ErrNoDisplay = errors.New("未检测到可用的显示器")

// Result 检查结果
type Result struct {
	ScreenWidth  int
	ScreenHeight int
	Displays     int
	Permissions  permissions.Status
	// Processes 匹配到的游戏进程（未指定进程名时为空）
	Processes []process.ProcessInfo
}

// Checker 环境检查器
// 各探测函数可替换，便于测试
type Checker struct {
	// Process 需要确认正在运行的进程名（部分匹配，空表示不检查）
	Process string
	// Activate 检查通过后把第一个匹配进程的窗口切到前台
	Activate bool

	ScreenSize    func() (int, int)
	DisplayNum    func() int
	Permissions   func() permissions.Status
	RequestAccess func() bool
	FindProcess   func(name string) ([]process.ProcessInfo, error)
	BringToFront  func(pid int) error
	Getenv        func(string) string
	GOOS          string
}

// NewChecker 创建使用真实系统探测的检查器
func NewChecker(processName string) *Checker {
	return &Checker{
		Process:       processName,
		ScreenSize:    screen.GetScreenSize,
		DisplayNum:    screen.GetDisplayCount,
		Permissions:   permissions.Check,
		RequestAccess: permissions.RequestAccessibility,
		FindProcess:   process.FindProcess,
		BringToFront:  process.BringToFront,
		Getenv:        os.Getenv,
		GOOS:          runtime.GOOS,
	}
}

// Run 执行全部检查，任何一项失败都返回错误
func (c *Checker) Run() (*Result, error) {
	res := &Result{}

	// Linux 下没有 X11/Wayland 会话时不能调用 robotgo
	if c.GOOS == "linux" && c.Getenv("DISPLAY") == "" && c.Getenv("WAYLAND_DISPLAY") == "" {
		return res, fmt.Errorf("%w: 未设置 DISPLAY", ErrNoDisplay)
	}

	res.ScreenWidth, res.ScreenHeight = c.ScreenSize()
	if res.ScreenWidth <= 0 || res.ScreenHeight <= 0 {
		return res, fmt.Errorf("%w: 屏幕尺寸 %dx%d", ErrNoDisplay, res.ScreenWidth, res.ScreenHeight)
	}
	res.Displays = c.DisplayNum()

	res.Permissions = c.Permissions()
	if !res.Permissions.Accessibility {
		// 触发系统授权弹窗；已在弹窗前授权时直接通过
		res.Permissions.Accessibility = c.RequestAccess()
	}
	if !res.Permissions.AllGranted() {
		return res, fmt.Errorf("缺少系统权限\n%s", res.Permissions.Instructions())
	}

	if c.Process != "" {
		procs, err := c.FindProcess(c.Process)
		if err != nil {
			return res, fmt.Errorf("检查游戏进程失败: %w", err)
		}
		if len(procs) == 0 {
			return res, fmt.Errorf("未找到正在运行的进程: %s", c.Process)
		}
		res.Processes = procs

		if c.Activate {
			if err := c.BringToFront(procs[0].PID); err != nil {
				return res, err
			}
		}
	}

	return res, nil
}
