package clicker

import (
	"time"

	"github.com/zoeyai/yysclicker/internal/logger"
	"github.com/zoeyai/yysclicker/pkg/auto"
	"github.com/zoeyai/yysclicker/pkg/config"
	"github.com/zoeyai/yysclicker/pkg/humanize"
)

// Option 配置选项函数类型
type Option func(*Options)

// Options 执行器和扫描循环的配置
type Options struct {
	// Rand 随机数源（点击点、时长、空闲间隔）
	Rand humanize.Rand
	// Clock 时钟（等待可被 context 取消）
	Clock Clock
	// Logger 日志
	Logger *logger.Logger

	// FailSafe 是否启用安全角紧急中止
	FailSafe bool
	// FailSafeCorners 安全角坐标，鼠标位于任一点时中止
	FailSafeCorners []auto.Point
	// FailSafePoll 长等待拆分为多段，每段之间检查安全角
	FailSafePoll time.Duration
	// MoveStep 平滑移动的单步间隔
	MoveStep time.Duration

	// ScanInterval 一轮未匹配时的空闲等待区间
	ScanInterval auto.Range
	// Confidence 全局置信度覆盖，0 表示使用每个目标自己的阈值
	Confidence float64
	// PassCheck 每轮开始前调用，返回错误时停止扫描（可为 nil）
	PassCheck func() error
}

// 默认值
const (
	DefaultMoveStep     = 10 * time.Millisecond
	DefaultFailSafePoll = 50 * time.Millisecond
)

// DefaultOptions 默认配置
func DefaultOptions() *Options {
	return &Options{
		Clock:           RealClock(),
		Logger:          logger.Default(),
		FailSafe:        true,
		FailSafeCorners: []auto.Point{{X: 0, Y: 0}},
		FailSafePoll:    DefaultFailSafePoll,
		MoveStep:        DefaultMoveStep,
		ScanInterval:    config.DefaultScanInterval,
	}
}

// ApplyOptions 应用配置选项
func ApplyOptions(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.Rand == nil {
		o.Rand = humanize.NewRand(0)
	}
	return o
}

// WithRand 设置随机数源
func WithRand(r humanize.Rand) Option {
	return func(o *Options) {
		o.Rand = r
	}
}

// WithClock 设置时钟
func WithClock(c Clock) Option {
	return func(o *Options) {
		o.Clock = c
	}
}

// WithLogger 设置日志
func WithLogger(l *logger.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithFailSafe 启用或关闭安全角；corners 为空时保留当前安全角
func WithFailSafe(enabled bool, corners ...auto.Point) Option {
	return func(o *Options) {
		o.FailSafe = enabled
		if len(corners) > 0 {
			o.FailSafeCorners = append([]auto.Point(nil), corners...)
		}
	}
}

// WithMoveStep 设置平滑移动的单步间隔
func WithMoveStep(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.MoveStep = d
		}
	}
}

// WithFailSafePoll 设置等待期间检查安全角的间隔
func WithFailSafePoll(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.FailSafePoll = d
		}
	}
}

// WithScanInterval 设置空闲等待区间
func WithScanInterval(r auto.Range) Option {
	return func(o *Options) {
		o.ScanInterval = r
	}
}

// WithConfidence 设置全局置信度覆盖（0 表示不覆盖）
func WithConfidence(c float64) Option {
	return func(o *Options) {
		o.Confidence = c
	}
}

// WithPassCheck 设置每轮开始前的检查，例如确认游戏进程仍在运行
func WithPassCheck(check func() error) Option {
	return func(o *Options) {
		o.PassCheck = check
	}
}

// ScreenCorners 返回屏幕四个角的坐标
func ScreenCorners(width, height int) []auto.Point {
	if width <= 0 || height <= 0 {
		return []auto.Point{{X: 0, Y: 0}}
	}
	return []auto.Point{
		{X: 0, Y: 0},
		{X: width - 1, Y: 0},
		{X: 0, Y: height - 1},
		{X: width - 1, Y: height - 1},
	}
}
