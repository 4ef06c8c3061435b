package input

import (
	"fmt"
	"sync"
)

// EventKind 输入事件类型
type EventKind string

const (
	EventMove  EventKind = "move"
	EventClick EventKind = "click"
)

// Event 一次被记录的输入事件
type Event struct {
	Kind EventKind
	X    int
	Y    int
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%d, %d)", e.Kind, e.X, e.Y)
}

// Recorder 只记录不注入的鼠标输入
// 用于演练模式（-dry-run）和测试
type Recorder struct {
	mu     sync.Mutex
	x, y   int
	events []Event

	// OnEvent 每记录一个事件后调用（可为 nil）
	OnEvent func(Event)
	// Fail 非 nil 时，Move/Click 返回该错误（模拟注入被系统拒绝）
	Fail error
}

// NewRecorder 创建记录器，初始鼠标位置为 (x, y)
func NewRecorder(x, y int) *Recorder {
	return &Recorder{x: x, y: y}
}

// Move 记录移动并更新位置
func (r *Recorder) Move(x, y int) error {
	r.mu.Lock()
	if r.Fail != nil {
		r.mu.Unlock()
		return r.Fail
	}
	r.x, r.y = x, y
	e := Event{Kind: EventMove, X: x, Y: y}
	r.events = append(r.events, e)
	r.mu.Unlock()

	r.notify(e)
	return nil
}

// Click 在当前位置记录一次点击
func (r *Recorder) Click() error {
	r.mu.Lock()
	if r.Fail != nil {
		r.mu.Unlock()
		return r.Fail
	}
	e := Event{Kind: EventClick, X: r.x, Y: r.y}
	r.events = append(r.events, e)
	r.mu.Unlock()

	r.notify(e)
	return nil
}

// Location 返回当前位置
func (r *Recorder) Location() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.x, r.y
}

// SetLocation 直接设置鼠标位置（模拟用户移动鼠标，不记录事件）
func (r *Recorder) SetLocation(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.x, r.y = x, y
}

// Events 返回已记录事件的副本
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Clicks 返回所有点击事件
func (r *Recorder) Clicks() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var clicks []Event
	for _, e := range r.events {
		if e.Kind == EventClick {
			clicks = append(clicks, e)
		}
	}
	return clicks
}

// Reset 清空已记录事件
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *Recorder) notify(e Event) {
	if r.OnEvent != nil {
		r.OnEvent(e)
	}
}
