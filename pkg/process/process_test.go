package process

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindProcessSelf(t *testing.T) {
	exe, err := os.Executable()
	if err != nil {
		t.Skipf("无法获取可执行文件路径: %v", err)
	}
	// Linux 下进程名最多 15 个字符
	name := filepath.Base(exe)
	if len(name) > 15 {
		name = name[:15]
	}

	matches, err := FindProcess(strings.ToUpper(name))
	if err != nil {
		t.Skipf("无法获取进程列表: %v", err)
	}

	found := false
	for _, p := range matches {
		if p.PID == os.Getpid() {
			found = true
			t.Logf("找到自身进程: %s", p)
		}
	}
	if !found {
		t.Errorf("应能找到当前测试进程 %q (PID %d)", name, os.Getpid())
	}
}

func TestFindProcessEmptyName(t *testing.T) {
	if _, err := FindProcess("  "); err == nil {
		t.Error("空进程名应报错")
	}
}

func TestFindProcessMissing(t *testing.T) {
	matches, err := FindProcess("no-such-process-yysclicker-xyz")
	if err != nil {
		t.Skipf("无法获取进程列表: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("不应找到进程: %v", matches)
	}
}

func TestIsProcessRunning(t *testing.T) {
	if !IsProcessRunning(os.Getpid()) {
		t.Error("当前进程应在运行")
	}
	if IsProcessRunning(-1) {
		t.Error("无效 PID 不应在运行")
	}
}
