package clicker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zoeyai/yysclicker/internal/logger"
	"github.com/zoeyai/yysclicker/pkg/auto"
	"github.com/zoeyai/yysclicker/pkg/auto/input"
	"github.com/zoeyai/yysclicker/pkg/humanize"
)

// ErrFailSafe 鼠标被移到安全角，紧急中止
var ErrFailSafe = errors.New("鼠标位于安全角，紧急中止")

// ClickReport 一次点击的实际参数
type ClickReport struct {
	Point          auto.Point
	MoveDuration   time.Duration
	PreClickDelay  time.Duration
	PostClickDelay time.Duration
}

// Total 返回本次点击占用的总时长
func (r ClickReport) Total() time.Duration {
	return r.MoveDuration + r.PreClickDelay + r.PostClickDelay
}

// Actuator 执行器：随机点击点、平滑移动、点击前后随机停顿
type Actuator struct {
	pointer input.Pointer
	rand    humanize.Rand
	clock   Clock
	log     *logger.Logger

	failSafe     bool
	corners      []auto.Point
	failSafePoll time.Duration
	moveStep     time.Duration
}

// NewActuator 创建执行器
func NewActuator(pointer input.Pointer, opts ...Option) *Actuator {
	return newActuator(pointer, ApplyOptions(opts...))
}

func newActuator(pointer input.Pointer, o *Options) *Actuator {
	return &Actuator{
		pointer:      pointer,
		rand:         o.Rand,
		clock:        o.Clock,
		log:          o.Logger,
		failSafe:     o.FailSafe,
		corners:      o.FailSafeCorners,
		failSafePoll: o.FailSafePoll,
		moveStep:     o.MoveStep,
	}
}

// Click 在边界框内点击目标
//
// 依次：在边界框内取随机点 → 随机时长平滑移动 → 随机停顿 → 在当前位置点击 → 随机停顿。
// 每个时长都从目标配置的区间中独立取值。
// 注入失败不重试，直接返回；context 取消时返回 ctx.Err()；
// 启用安全角时，任何等待点发现鼠标位于安全角都返回 ErrFailSafe。
func (a *Actuator) Click(ctx context.Context, t *Target, box auto.Region) (ClickReport, error) {
	report := ClickReport{
		Point:          humanize.RandomPointIn(a.rand, box, t.ClickMargin),
		MoveDuration:   humanize.Duration(a.rand, t.MoveDuration),
		PreClickDelay:  humanize.Duration(a.rand, t.PreClickDelay),
		PostClickDelay: humanize.Duration(a.rand, t.PostClickDelay),
	}

	if err := a.checkFailSafe(); err != nil {
		return report, err
	}

	if err := a.glide(ctx, report.Point, report.MoveDuration); err != nil {
		return report, err
	}
	if err := a.wait(ctx, report.PreClickDelay); err != nil {
		return report, err
	}
	if err := a.checkFailSafe(); err != nil {
		return report, err
	}

	if err := a.pointer.Click(); err != nil {
		return report, fmt.Errorf("点击失败: %w", err)
	}
	a.log.Debug("点击 %s 于 (%d, %d)", t.Name, report.Point.X, report.Point.Y)

	if err := a.wait(ctx, report.PostClickDelay); err != nil {
		return report, err
	}
	return report, nil
}

// glide 在 d 时间内把鼠标线性移动到 p，每一步之间检查取消和安全角
func (a *Actuator) glide(ctx context.Context, p auto.Point, d time.Duration) error {
	if d <= 0 {
		return a.move(p)
	}

	x0, y0 := a.pointer.Location()
	steps := max(int(d/a.moveStep), 1)

	var elapsed time.Duration
	for i := 1; i <= steps; i++ {
		// 按比例切分，保证各步之和恰好等于 d
		next := d * time.Duration(i) / time.Duration(steps)
		if err := a.clock.Sleep(ctx, next-elapsed); err != nil {
			return err
		}
		elapsed = next

		if err := a.checkFailSafe(); err != nil {
			return err
		}
		step := auto.Point{
			X: x0 + (p.X-x0)*i/steps,
			Y: y0 + (p.Y-y0)*i/steps,
		}
		if err := a.move(step); err != nil {
			return err
		}
	}
	return nil
}

func (a *Actuator) move(p auto.Point) error {
	if err := a.pointer.Move(p.X, p.Y); err != nil {
		return fmt.Errorf("移动鼠标失败: %w", err)
	}
	return nil
}

// wait 等待 d；启用安全角时拆分为多段，每段之后检查安全角
func (a *Actuator) wait(ctx context.Context, d time.Duration) error {
	return sleepChecked(ctx, a.clock, d, a.failSafePollInterval(), a.checkFailSafe)
}

func (a *Actuator) failSafePollInterval() time.Duration {
	if !a.failSafe {
		return 0
	}
	return a.failSafePoll
}

// checkFailSafe 鼠标位于任一安全角时返回 ErrFailSafe
func (a *Actuator) checkFailSafe() error {
	if !a.failSafe {
		return nil
	}
	x, y := a.pointer.Location()
	for _, c := range a.corners {
		if c.X == x && c.Y == y {
			return fmt.Errorf("%w (%d, %d)", ErrFailSafe, x, y)
		}
	}
	return nil
}

// sleepChecked 等待 d；poll > 0 时拆分为不超过 poll 的多段，每段之后调用 check
func sleepChecked(ctx context.Context, clock Clock, d, poll time.Duration, check func() error) error {
	if poll <= 0 || d <= poll {
		if err := clock.Sleep(ctx, d); err != nil {
			return err
		}
		return check()
	}

	for remaining := d; remaining > 0; {
		chunk := min(poll, remaining)
		if err := clock.Sleep(ctx, chunk); err != nil {
			return err
		}
		remaining -= chunk
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
