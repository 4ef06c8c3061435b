package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/zoeyai/yysclicker/internal/logger"
	"github.com/zoeyai/yysclicker/pkg/auto"
	"github.com/zoeyai/yysclicker/pkg/auto/input"
	"github.com/zoeyai/yysclicker/pkg/auto/screen"
	"github.com/zoeyai/yysclicker/pkg/clicker"
	"github.com/zoeyai/yysclicker/pkg/config"
	"github.com/zoeyai/yysclicker/pkg/hotkey"
	"github.com/zoeyai/yysclicker/pkg/humanize"
	"github.com/zoeyai/yysclicker/pkg/preflight"
	"github.com/zoeyai/yysclicker/pkg/process"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// 退出码
const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

// 截图后端
const (
	captureRobotgo    = "robotgo"
	captureScreenshot = "screenshot"
)

// options 命令行参数
type options struct {
	targets      string
	scanInterval auto.Range
	confidence   float64
	capture      string
	display      int
	replay       string
	failSafe     bool
	stopKey      string
	process      string
	activate     bool
	button       input.Button
	doubleClick  bool
	seed         uint64
	dryRun       bool
	logLevel     logger.Level
	logFile      string
	version      bool
	help         bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// parseFlags 解析并校验命令行参数
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("yysclicker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printHelp(stderr) }

	o := &options{}
	var interval, level, button string
	fs.StringVar(&o.targets, "targets", config.DefaultTargetsFile, "目标配置文件 (JSON)")
	fs.StringVar(&interval, "scan-interval", "0.3,0.6", "未找到目标时的随机等待区间 (秒) MIN,MAX")
	fs.Float64Var(&o.confidence, "confidence", 0, "全局置信度阈值，覆盖每个目标的配置 (0,1]")
	fs.StringVar(&o.capture, "capture", captureRobotgo, "截图后端: robotgo | screenshot")
	fs.IntVar(&o.display, "display", 0, "screenshot 后端使用的显示器编号")
	fs.StringVar(&o.replay, "replay", "", "使用截图文件代替实时屏幕 (调试用)")
	fs.StringVar(&button, "button", "left", "点击使用的鼠标按键: left | right | center")
	fs.BoolVar(&o.doubleClick, "double-click", false, "每次点击改为双击")
	fs.BoolVar(&o.failSafe, "failsafe", true, "鼠标移到屏幕角落时紧急中止")
	fs.StringVar(&o.stopKey, "stop-key", "f12", "全局停止热键，空字符串表示禁用")
	fs.StringVar(&o.process, "process", "", "启动前确认该进程正在运行 (部分匹配)")
	fs.BoolVar(&o.activate, "activate", true, "指定 -process 时把游戏窗口切到前台")
	fs.Uint64Var(&o.seed, "seed", 0, "随机数种子，0 表示基于时间")
	fs.BoolVar(&o.dryRun, "dry-run", false, "只记录点击，不实际操作鼠标")
	fs.StringVar(&level, "log-level", "info", "日志级别: debug | info | warn | error")
	fs.StringVar(&o.logFile, "log-file", "", "同时写入日志文件 (追加)")
	fs.BoolVar(&o.version, "version", false, "显示版本信息")
	fs.BoolVar(&o.help, "help", false, "显示帮助信息")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("未知参数: %s", strings.Join(fs.Args(), " "))
	}
	if o.version || o.help {
		return o, nil
	}

	var err error
	if o.scanInterval, err = config.ParseRange(interval); err != nil {
		return nil, fmt.Errorf("无效的 -scan-interval: %w", err)
	}
	if o.confidence != 0 && (math.IsNaN(o.confidence) || o.confidence <= 0 || o.confidence > 1) {
		return nil, fmt.Errorf("无效的 -confidence: %v (必须在 (0, 1] 内)", o.confidence)
	}
	if o.capture != captureRobotgo && o.capture != captureScreenshot {
		return nil, fmt.Errorf("无效的 -capture: %s (可用: robotgo, screenshot)", o.capture)
	}
	if o.display < 0 {
		return nil, fmt.Errorf("无效的 -display: %d", o.display)
	}
	if o.stopKey != "" {
		if _, err := hotkey.ParseKeys(o.stopKey); err != nil {
			return nil, fmt.Errorf("无效的 -stop-key: %w", err)
		}
	}
	if o.button, err = input.ParseButton(button); err != nil {
		return nil, fmt.Errorf("无效的 -button: %w", err)
	}
	if o.logLevel, err = logger.ParseLevel(level); err != nil {
		return nil, fmt.Errorf("无效的 -log-level: %w", err)
	}
	return o, nil
}

// run 执行命令并返回退出码
func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitUsage
	}
	if o.version {
		printVersion(stdout)
		return exitOK
	}
	if o.help {
		printHelp(stdout)
		return exitOK
	}

	log := logger.New()
	log.SetConsole(stdout)
	log.SetLevel(o.logLevel)
	if o.logFile != "" {
		if err := log.SetFile(true, o.logFile); err != nil {
			fmt.Fprintf(stderr, "[ERROR] %v\n", err)
			return exitFatal
		}
		log.Info("日志文件: %s", log.FilePath())
	}
	defer log.Close()

	// 加载目标（配置错误在进入循环前全部暴露）
	targets, err := clicker.LoadTargets(o.targets)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitUsage
	}
	defer clicker.CloseTargets(targets)

	enabled := clicker.EnabledTargets(targets)
	if len(enabled) == 0 {
		fmt.Fprintf(stderr, "[ERROR] %s 中没有可用的目标\n", o.targets)
		return exitUsage
	}
	for i, t := range enabled {
		log.Info("目标 %d: %s (阈值 %.2f)", i+1, t, t.Threshold(o.confidence))
	}

	// 环境检查；回放 + 演练模式不需要显示器
	live := o.replay == "" || !o.dryRun
	corners := []auto.Point{{X: 0, Y: 0}}
	var game *process.ProcessInfo
	if live {
		checker := preflight.NewChecker(o.process)
		checker.Activate = o.activate && !o.dryRun
		res, err := checker.Run()
		if err != nil {
			log.Error("环境检查失败: %v", err)
			return exitFatal
		}
		log.Info("屏幕 %dx%d, 显示器 %d 个", res.ScreenWidth, res.ScreenHeight, res.Displays)
		for _, p := range res.Processes {
			log.Info("游戏进程: %s", p)
		}
		if len(res.Processes) > 0 {
			game = &res.Processes[0]
		}
		corners = clicker.ScreenCorners(res.ScreenWidth, res.ScreenHeight)
	}

	capturer, cleanup, err := newCapturer(o)
	if err != nil {
		log.Error("%v", err)
		return exitFatal
	}
	defer cleanup()
	log.Info("截图源: %s", describeCapturer(capturer))

	var pointer input.Pointer = input.NewRobot(o.button, o.doubleClick)
	if o.dryRun {
		rec := input.NewRecorder(-1, -1)
		rec.OnEvent = func(e input.Event) {
			if e.Kind == input.EventClick {
				log.Info("[演练] 点击 (%d, %d)", e.X, e.Y)
				rec.Reset()
			}
		}
		pointer = rec
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if o.stopKey != "" && live {
		unhook, err := hotkey.Watch(ctx, o.stopKey, func() {
			log.Info("检测到停止热键 %s", o.stopKey)
			stop()
		})
		if err != nil {
			log.Warn("注册停止热键失败: %v", err)
		} else {
			defer unhook()
			log.Info("按 %s 或 Ctrl+C 停止", o.stopKey)
		}
	}
	if o.failSafe {
		log.Info("安全角已启用: 把鼠标移到屏幕角落可紧急中止")
	}

	opts := []clicker.Option{
		clicker.WithRand(humanize.NewRand(o.seed)),
		clicker.WithLogger(log),
		clicker.WithFailSafe(o.failSafe, corners...),
		clicker.WithScanInterval(o.scanInterval),
		clicker.WithConfidence(o.confidence),
	}
	if game != nil {
		opts = append(opts, clicker.WithPassCheck(processCheck(*game, process.IsProcessRunning)))
	}
	scanner := clicker.NewScanner(enabled, capturer, clicker.NewActuator(pointer, opts...), opts...)

	err = scanner.Run(ctx)
	scanner.LogSummary()

	switch {
	case err == nil:
		log.Info("已停止")
		return exitOK
	case errors.Is(err, clicker.ErrFailSafe):
		log.Warn("安全角触发，已中止: %v", err)
		return exitOK
	default:
		log.Error("运行失败: %v", err)
		return exitFatal
	}
}

// newCapturer 按参数创建截图源
func newCapturer(o *options) (screen.Capturer, func(), error) {
	if o.replay != "" {
		ic, err := screen.LoadImageCapturer(o.replay)
		if err != nil {
			return nil, nil, fmt.Errorf("加载回放截图失败: %w", err)
		}
		return ic, ic.Close, nil
	}

	switch o.capture {
	case captureScreenshot:
		sc, err := screen.NewScreenshotCapturer(o.display)
		if err != nil {
			return nil, nil, err
		}
		return sc, func() {}, nil
	default:
		return screen.NewRobotgoCapturer(), func() {}, nil
	}
}

// describeCapturer 返回截图源的说明，用于启动日志
func describeCapturer(c screen.Capturer) string {
	switch c := c.(type) {
	case *screen.ImageCapturer:
		w, h := c.Size()
		return fmt.Sprintf("回放截图 %dx%d", w, h)
	case *screen.ScreenshotCapturer:
		bounds := screen.DisplayBounds()
		if c.Display() < len(bounds) {
			return fmt.Sprintf("screenshot 显示器 %d %v (共 %d 个)", c.Display(), bounds[c.Display()], len(bounds))
		}
		return fmt.Sprintf("screenshot 显示器 %d", c.Display())
	default:
		return "robotgo 主显示器"
	}
}

// processCheck 返回每轮扫描前确认游戏进程仍在运行的检查
func processCheck(game process.ProcessInfo, running func(pid int) bool) func() error {
	return func() error {
		if !running(game.PID) {
			return fmt.Errorf("游戏进程已退出: %s", game)
		}
		return nil
	}
}

// printVersion 打印版本信息
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "yysclicker v%s\n", Version)
	fmt.Fprintf(w, "Build Time: %s\n", BuildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
}

// printHelp 打印帮助信息
func printHelp(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintln(w, "yysclicker - 阴阳师自动点击工具")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "用法:")
	fmt.Fprintf(w, "  %s [选项]\n", name)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "选项:")
	fmt.Fprintln(w, "  -targets string        目标配置文件 (默认 targets.json)")
	fmt.Fprintln(w, "  -scan-interval MIN,MAX 未找到目标时的随机等待区间，秒 (默认 0.3,0.6)")
	fmt.Fprintln(w, "  -confidence float      全局置信度阈值，覆盖每个目标的配置")
	fmt.Fprintln(w, "  -capture string        截图后端: robotgo | screenshot (默认 robotgo)")
	fmt.Fprintln(w, "  -display int           screenshot 后端使用的显示器编号")
	fmt.Fprintln(w, "  -replay string         使用截图文件代替实时屏幕")
	fmt.Fprintln(w, "  -failsafe              鼠标移到屏幕角落时紧急中止 (默认开启)")
	fmt.Fprintln(w, "  -stop-key string       全局停止热键 (默认 f12，空字符串禁用)")
	fmt.Fprintln(w, "  -process string        启动前确认游戏进程正在运行")
	fmt.Fprintln(w, "  -activate              指定 -process 时把游戏窗口切到前台 (默认开启)")
	fmt.Fprintln(w, "  -button string         点击使用的鼠标按键: left | right | center (默认 left)")
	fmt.Fprintln(w, "  -double-click          每次点击改为双击")
	fmt.Fprintln(w, "  -seed uint             随机数种子 (0 表示基于时间)")
	fmt.Fprintln(w, "  -dry-run               只记录点击，不实际操作鼠标")
	fmt.Fprintln(w, "  -log-level string      日志级别: debug | info | warn | error")
	fmt.Fprintln(w, "  -log-file string       同时写入日志文件")
	fmt.Fprintln(w, "  -version               显示版本信息")
	fmt.Fprintln(w, "  -help                  显示帮助信息")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "退出码:")
	fmt.Fprintln(w, "  0  正常停止 (Ctrl+C / 停止热键 / 安全角)")
	fmt.Fprintln(w, "  1  运行失败 (截图或鼠标操作失败、环境检查失败)")
	fmt.Fprintln(w, "  2  配置错误 (参数无效、目标文件无效、没有可用目标)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "示例:")
	fmt.Fprintf(w, "  %s -targets targets.json\n", name)
	fmt.Fprintf(w, "  %s -targets targets.json -scan-interval 0.5,1.0 -confidence 0.9\n", name)
	fmt.Fprintf(w, "  %s -targets targets.json -replay screen.png -dry-run -log-level debug\n", name)
}
