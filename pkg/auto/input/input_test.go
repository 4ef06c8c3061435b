package input

import (
	"errors"
	"testing"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(5, 5)

	var seen []Event
	r.OnEvent = func(e Event) { seen = append(seen, e) }

	if err := r.Move(100, 200); err != nil {
		t.Fatalf("Move 失败: %v", err)
	}
	if err := r.Click(); err != nil {
		t.Fatalf("Click 失败: %v", err)
	}

	if x, y := r.Location(); x != 100 || y != 200 {
		t.Errorf("位置错误: (%d, %d)", x, y)
	}

	want := []Event{{EventMove, 100, 200}, {EventClick, 100, 200}}
	got := r.Events()
	if len(got) != len(want) {
		t.Fatalf("事件数量错误: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("事件 %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if len(seen) != 2 {
		t.Errorf("OnEvent 应被调用 2 次, 实际 %d", len(seen))
	}
	if clicks := r.Clicks(); len(clicks) != 1 || clicks[0].String() != "click(100, 200)" {
		t.Errorf("点击事件错误: %v", clicks)
	}

	r.SetLocation(0, 0)
	if len(r.Events()) != 2 {
		t.Error("SetLocation 不应记录事件")
	}
	r.Reset()
	if len(r.Events()) != 0 {
		t.Error("Reset 后应无事件")
	}
}

func TestRecorderFail(t *testing.T) {
	r := NewRecorder(0, 0)
	r.Fail = errors.New("注入被拒绝")

	if err := r.Move(1, 1); !errors.Is(err, r.Fail) {
		t.Errorf("Move 应返回注入错误: %v", err)
	}
	if err := r.Click(); !errors.Is(err, r.Fail) {
		t.Errorf("Click 应返回注入错误: %v", err)
	}
	if len(r.Events()) != 0 {
		t.Error("失败时不应记录事件")
	}
}

func TestParseButton(t *testing.T) {
	tests := []struct {
		in      string
		want    Button
		wantErr bool
	}{
		{"", ButtonLeft, false},
		{"left", ButtonLeft, false},
		{"right", ButtonRight, false},
		{"center", ButtonCenter, false},
		{"middle", "", true},
	}

	for _, tt := range tests {
		got, err := ParseButton(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseButton(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseButton(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewRobot(t *testing.T) {
	var _ Pointer = NewRecorder(0, 0)

	r := NewRobot("", false)
	if r.Button != ButtonLeft || r.Double {
		t.Errorf("默认应为左键单击: %+v", r)
	}
	var p Pointer = NewRobot(ButtonRight, true)
	if r := p.(*Robot); r.Button != ButtonRight || !r.Double {
		t.Errorf("按键设置未生效: %+v", r)
	}
}
