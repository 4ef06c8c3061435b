// Package hotkey 注册全局停止热键
package hotkey

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// endTimeout 注销钩子后等待事件处理协程退出的上限
const endTimeout = time.Second

// 允许的修饰键
var modifiers = map[string]bool{
	"ctrl":  true,
	"shift": true,
	"alt":   true,
	"cmd":   true,
}

// ParseKeys 解析热键描述，如 "f12"、"ctrl+shift+q"
// 修饰键在前，最后一个是主键；返回小写键名
func ParseKeys(spec string) ([]string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("热键不能为空")
	}

	parts := strings.Split(strings.ToLower(spec), "+")
	keys := make([]string, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("无效热键: %q", spec)
		}
		last := i == len(parts)-1
		if !last && !modifiers[p] {
			return nil, fmt.Errorf("无效修饰键 %q (可用: ctrl, shift, alt, cmd)", p)
		}
		if last && modifiers[p] && len(parts) > 1 {
			return nil, fmt.Errorf("热键缺少主键: %q", spec)
		}
		keys = append(keys, p)
	}
	return keys, nil
}

// Watch 注册全局热键，按下时调用一次 onPress
// ctx 结束或调用返回的 stop 时注销钩子；同一进程只应有一个 Watch 在运行
func Watch(ctx context.Context, spec string, onPress func()) (stop func(), err error) {
	keys, err := ParseKeys(spec)
	if err != nil {
		return nil, err
	}

	var pressOnce sync.Once
	hook.Register(hook.KeyDown, keys, func(hook.Event) {
		pressOnce.Do(onPress)
	})

	events := hook.Start()
	stop = stopper(hook.End, hook.Process(events), endTimeout)

	go func() {
		<-ctx.Done()
		stop()
	}()

	return stop, nil
}

// stopper 返回只执行一次的注销函数：调用 end 后接收 done，
// 使事件处理协程的退出信号不会阻塞；最多等待 timeout
func stopper(end func(), done <-chan bool, timeout time.Duration) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			end()
			select {
			case <-done:
			case <-time.After(timeout):
			}
		})
	}
}
