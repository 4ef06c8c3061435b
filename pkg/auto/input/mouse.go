// Package input 提供鼠标输入注入
// 注入操作抽象为 Pointer 接口，实时运行使用 robotgo，演练和测试使用 Recorder
package input

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// Pointer 鼠标输入接口
type Pointer interface {
	// Move 立即把鼠标移动到 (x, y)（输入坐标）
	Move(x, y int) error
	// Click 在当前位置点击
	Click() error
	// Location 返回当前鼠标位置
	Location() (x, y int)
}

// Button 鼠标按键
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonCenter Button = "center"
)

// ParseButton 解析按键名
func ParseButton(s string) (Button, error) {
	switch Button(s) {
	case "", ButtonLeft:
		return ButtonLeft, nil
	case ButtonRight, ButtonCenter:
		return Button(s), nil
	default:
		return "", fmt.Errorf("未知鼠标按键: %s", s)
	}
}

// Robot 基于 robotgo 的鼠标输入
type Robot struct {
	// Button 点击使用的按键，默认左键
	Button Button
	// Double 是否双击
	Double bool
}

// NewRobot 创建 robotgo 鼠标输入，button 为空时使用左键
func NewRobot(button Button, double bool) *Robot {
	if button == "" {
		button = ButtonLeft
	}
	return &Robot{Button: button, Double: double}
}

// Move 移动鼠标
func (r *Robot) Move(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// Click 点击
func (r *Robot) Click() error {
	btn := r.Button
	if btn == "" {
		btn = ButtonLeft
	}
	robotgo.Click(string(btn), r.Double)
	return nil
}

// Location 获取鼠标位置
func (r *Robot) Location() (x, y int) {
	return robotgo.Location()
}
