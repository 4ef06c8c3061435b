// yysmatch 对截图执行一次目标匹配并打印每个目标的得分，用于校准阈值和搜索区域
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/zoeyai/yysclicker/pkg/auto/screen"
	"github.com/zoeyai/yysclicker/pkg/clicker"
	"github.com/zoeyai/yysclicker/pkg/config"
	"github.com/zoeyai/yysclicker/pkg/vision/cv"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// report 单个目标的匹配结果
type report struct {
	Target    *clicker.Target
	Threshold float64
	// Best 最佳对齐位置（屏幕坐标）与得分；截图小于模板时为 nil
	Best  *clicker.Match
	Found bool
}

// evaluate 截图并计算每个目标的最佳匹配，不做点击
func evaluate(targets []*clicker.Target, capturer screen.Capturer, override float64) ([]report, error) {
	reports := make([]report, 0, len(targets))
	for _, t := range targets {
		r := report{Target: t, Threshold: t.Threshold(override)}

		frame, err := capturer.Capture(t.Region)
		if err != nil {
			return reports, fmt.Errorf("截图失败 (%s): %w", t.Name, err)
		}
		result, err := cv.BestMatch(frame.Mat, t.Template)
		meta := frame.Meta
		frame.Close()

		var sizeErr *cv.ImageSizeError
		switch {
		case errors.As(err, &sizeErr):
		case err != nil:
			return reports, fmt.Errorf("匹配失败 (%s): %w", t.Name, err)
		default:
			r.Best = &clicker.Match{
				Target:     t,
				Box:        screen.AdjustBox(result.Box, meta),
				Confidence: result.Confidence,
			}
			r.Found = result.Confidence >= r.Threshold
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// printReports 打印匹配结果表
func printReports(w io.Writer, reports []report) {
	ok := color.New(color.FgGreen).SprintFunc()
	miss := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(w, "%-16s %-8s %-8s %-22s %s\n", "目标", "得分", "阈值", "位置", "结果")
	fmt.Fprintln(w, strings.Repeat("-", 64))
	for _, r := range reports {
		if r.Best == nil {
			fmt.Fprintf(w, "%-16s %-8s %-8.3f %-22s %s\n", r.Target.Name, "-", r.Threshold, "-", miss("截图小于模板"))
			continue
		}
		verdict := miss("未命中")
		if r.Found {
			verdict = ok("命中")
		}
		fmt.Fprintf(w, "%-16s %-8.3f %-8.3f %-22s %s\n", r.Target.Name, r.Best.Confidence, r.Threshold, r.Best.Box, verdict)
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("yysmatch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	targetsPath := fs.String("targets", config.DefaultTargetsFile, "目标配置文件 (JSON)")
	imagePath := fs.String("image", "", "截图文件，留空则实时截屏")
	capture := fs.String("capture", "robotgo", "实时截屏后端: robotgo | screenshot")
	display := fs.Int("display", 0, "screenshot 后端使用的显示器编号")
	confidence := fs.Float64("confidence", 0, "全局置信度阈值，覆盖每个目标的配置")
	save := fs.String("save", "", "把实时截屏保存到该文件 (.png/.jpg)")
	all := fs.Bool("all", false, "包括 enabled=false 的目标")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if math.IsNaN(*confidence) || *confidence < 0 || *confidence > 1 {
		fmt.Fprintf(stderr, "[ERROR] 无效的 -confidence: %v\n", *confidence)
		return exitUsage
	}

	targets, err := clicker.LoadTargets(*targetsPath)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitUsage
	}
	defer clicker.CloseTargets(targets)
	if !*all {
		targets = clicker.EnabledTargets(targets)
	}
	if len(targets) == 0 {
		fmt.Fprintf(stderr, "[ERROR] %s 中没有可用的目标\n", *targetsPath)
		return exitUsage
	}

	var capturer screen.Capturer
	switch {
	case *imagePath != "":
		ic, err := screen.LoadImageCapturer(*imagePath)
		if err != nil {
			fmt.Fprintf(stderr, "[ERROR] %v\n", err)
			return exitFatal
		}
		defer ic.Close()
		capturer = ic
		w, h := ic.Size()
		fmt.Fprintf(stdout, "[INFO] 截图 %s (%dx%d)\n", *imagePath, w, h)
	case *capture == "screenshot":
		sc, err := screen.NewScreenshotCapturer(*display)
		if err != nil {
			fmt.Fprintf(stderr, "[ERROR] %v\n", err)
			return exitFatal
		}
		capturer = sc
	case *capture == "robotgo":
		capturer = screen.NewRobotgoCapturer()
	default:
		fmt.Fprintf(stderr, "[ERROR] 无效的 -capture: %s\n", *capture)
		return exitUsage
	}

	if *save != "" && *imagePath == "" {
		frame, err := capturer.Capture(nil)
		if err != nil {
			fmt.Fprintf(stderr, "[ERROR] 截图失败: %v\n", err)
			return exitFatal
		}
		err = screen.SaveFrame(frame, *save, 90)
		frame.Close()
		if err != nil {
			fmt.Fprintf(stderr, "[ERROR] %v\n", err)
			return exitFatal
		}
		fmt.Fprintf(stdout, "[INFO] 截图已保存: %s\n", *save)
	}

	reports, err := evaluate(targets, capturer, *confidence)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitFatal
	}
	printReports(stdout, reports)
	return exitOK
}
