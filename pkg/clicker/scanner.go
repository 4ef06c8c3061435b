package clicker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoeyai/yysclicker/internal/logger"
	"github.com/zoeyai/yysclicker/pkg/auto"
	"github.com/zoeyai/yysclicker/pkg/auto/screen"
	"github.com/zoeyai/yysclicker/pkg/humanize"
	"github.com/zoeyai/yysclicker/pkg/vision/cv"
)

// State 扫描循环状态
type State int32

const (
	// StateIdle 本轮没有目标命中（或尚未开始）
	StateIdle State = iota
	// StateScanning 正在按顺序匹配目标
	StateScanning
	// StateMatched 找到目标
	StateMatched
	// StateActing 正在执行点击
	StateActing
	// StateStopped 已被外部取消（终止状态）
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateScanning:
		return "Scanning"
	case StateMatched:
		return "Matched"
	case StateActing:
		return "Acting"
	case StateStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Stats 运行统计
type Stats struct {
	// Passes 已完成的轮数
	Passes int
	// IdlePasses 没有目标命中的轮数
	IdlePasses int
	// Clicks 点击总数
	Clicks int
	// PerTarget 每个目标的点击次数
	PerTarget map[string]int
	// LastMatch 最近一次命中的目标
	LastMatch string
	// Started 开始运行的时间
	Started time.Time
}

// Match 一次命中的结果
type Match struct {
	Target *Target
	// Box 全屏输入坐标下的边界框
	Box auto.Region
	// Confidence 匹配得分
	Confidence float64
}

// Scanner 扫描循环
// 单线程顺序执行：截图、匹配、点击互不并发；State/Stats 可从其他 goroutine 读取
type Scanner struct {
	targets  []*Target
	capturer screen.Capturer
	actuator *Actuator

	interval   auto.Range
	confidence float64
	passCheck  func() error
	rand       humanize.Rand
	clock      Clock
	log        *logger.Logger

	// 空闲等待期间检查安全角
	failSafe     func() error
	failSafePoll time.Duration

	state atomic.Int32

	mu    sync.Mutex
	stats Stats
}

// NewScanner 创建扫描循环
// targets 中未启用的目标会被跳过；actuator 不能为 nil
func NewScanner(targets []*Target, capturer screen.Capturer, actuator *Actuator, opts ...Option) *Scanner {
	o := ApplyOptions(opts...)
	s := &Scanner{
		targets:      EnabledTargets(targets),
		capturer:     capturer,
		actuator:     actuator,
		interval:     o.ScanInterval,
		confidence:   o.Confidence,
		passCheck:    o.PassCheck,
		rand:         o.Rand,
		clock:        o.Clock,
		log:          o.Logger,
		failSafe:     actuator.checkFailSafe,
		failSafePoll: actuator.failSafePollInterval(),
		stats:        Stats{PerTarget: make(map[string]int)},
	}
	s.state.Store(int32(StateIdle))
	return s
}

// State 返回当前状态
func (s *Scanner) State() State {
	return State(s.state.Load())
}

func (s *Scanner) setState(st State) {
	s.state.Store(int32(st))
}

// Stats 返回运行统计的副本
func (s *Scanner) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	stats.PerTarget = make(map[string]int, len(s.stats.PerTarget))
	for k, v := range s.stats.PerTarget {
		stats.PerTarget[k] = v
	}
	return stats
}

// Run 持续扫描直到 context 被取消
//
// 取消时进入 Stopped 并返回 nil；截图或注入失败、安全角中止、每轮检查失败时进入 Stopped 并返回该错误。
func (s *Scanner) Run(ctx context.Context) error {
	s.mu.Lock()
	s.stats.Started = s.clock.Now()
	s.mu.Unlock()

	s.log.Info("开始扫描: %d 个目标, 空闲间隔 %s", len(s.targets), s.interval)

	for {
		if err := ctx.Err(); err != nil {
			return s.stop(err)
		}
		if err := s.failSafe(); err != nil {
			return s.stop(err)
		}
		if s.passCheck != nil {
			if err := s.passCheck(); err != nil {
				return s.stop(err)
			}
		}

		matched, err := s.Pass(ctx)
		if err != nil {
			return s.stop(err)
		}
		if matched != nil {
			continue
		}

		idle := humanize.Duration(s.rand, s.interval)
		s.log.Debug("未找到目标，等待 %v", idle)
		if err := sleepChecked(ctx, s.clock, idle, s.failSafePoll, s.failSafe); err != nil {
			return s.stop(err)
		}
	}
}

// stop 进入 Stopped；context 取消视为正常停止
func (s *Scanner) stop(err error) error {
	s.setState(StateStopped)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Pass 执行一轮扫描
//
// 按配置顺序逐个截图匹配，第一个命中的目标会被点击并立即结束本轮（后续目标本轮不再检查）。
// 返回被点击的目标；全部未命中时返回 (nil, nil) 并进入 Idle。
func (s *Scanner) Pass(ctx context.Context) (*Target, error) {
	s.setState(StateScanning)

	match, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	if match == nil {
		s.setState(StateIdle)
		s.mu.Lock()
		s.stats.Passes++
		s.stats.IdlePasses++
		s.mu.Unlock()
		return nil, nil
	}

	s.setState(StateMatched)
	t := match.Target
	s.log.Info("检测到 '%s' 位于 %s (得分 %.3f >= %.3f)，点击",
		t.Name, match.Box, match.Confidence, t.Threshold(s.confidence))

	s.setState(StateActing)
	start := time.Now()
	report, err := s.actuator.Click(ctx, t, match.Box)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			s.log.LogEvent("CLICK", false, elapsed, fmt.Sprintf("%s: %v", t.Name, err))
		}
		return nil, err
	}
	s.log.LogEvent("CLICK", true, elapsed, fmt.Sprintf("%s (%d, %d) 移动 %v 前 %v 后 %v 共 %v",
		t.Name, report.Point.X, report.Point.Y, report.MoveDuration, report.PreClickDelay, report.PostClickDelay, report.Total()))

	s.mu.Lock()
	s.stats.Passes++
	s.stats.Clicks++
	s.stats.PerTarget[t.Name]++
	s.stats.LastMatch = t.Name
	s.mu.Unlock()

	s.setState(StateScanning)
	return t, nil
}

// scan 按顺序查找第一个命中的目标
func (s *Scanner) scan(ctx context.Context) (*Match, error) {
	for _, t := range s.targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		match, err := s.locate(t)
		if err != nil {
			return nil, err
		}
		if match != nil {
			return match, nil
		}
	}
	return nil, nil
}

// locate 在目标的搜索区域内截图并匹配
func (s *Scanner) locate(t *Target) (*Match, error) {
	frame, err := s.capturer.Capture(t.Region)
	if err != nil {
		return nil, fmt.Errorf("截图失败 (%s): %w", t.Name, err)
	}
	defer frame.Close()

	threshold := t.Threshold(s.confidence)
	result, err := cv.Locate(frame.Mat, t.Template, threshold)
	if err != nil {
		return nil, fmt.Errorf("匹配失败 (%s): %w", t.Name, err)
	}
	if result == nil {
		return nil, nil
	}

	return &Match{
		Target:     t,
		Box:        screen.AdjustBox(result.Box, frame.Meta),
		Confidence: result.Confidence,
	}, nil
}

// LogSummary 输出运行统计
func (s *Scanner) LogSummary() {
	stats := s.Stats()
	var elapsed time.Duration
	if !stats.Started.IsZero() {
		elapsed = s.clock.Now().Sub(stats.Started).Round(time.Second)
	}
	s.log.Info("运行统计: %d 轮, 空闲 %d 轮, 点击 %d 次, 用时 %v", stats.Passes, stats.IdlePasses, stats.Clicks, elapsed)
	for _, t := range s.targets {
		if n := stats.PerTarget[t.Name]; n > 0 {
			s.log.Info("  %s: %d 次", t.Name, n)
		}
	}
}
