package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/ByLCY/subtitlebar/layout"
	"github.com/ByLCY/subtitlebar/renderer"
	canvasrenderer "github.com/ByLCY/subtitlebar/renderer/canvas"
)

// globalOptions 是所有子命令共用的参数。
type globalOptions struct {
	Config string
	Data   string
	Debug  bool
}

func main() {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:   "subtitlebar",
		Short: "双行折叠标题演示",
		Long: `subtitlebar 按 TOML 配置与主题文件驱动折叠标题引擎，
可以输出逐帧 PDF/PNG、打印帧快照，或在终端中拖动折叠比例预览。`,
		Example: `  # 输出 5 帧 PDF
  subtitlebar render -c examples/header.toml -o output/header.pdf

  # 输出 PNG 联系表与调试 JSON
  subtitlebar render -o output/header.png --debug-json output/frames.json

  # 绑定数据并打印收起端的快照
  subtitlebar inspect --data '{"user":{"name":"Ada"}}' --fraction 1

  # 终端预览
  subtitlebar preview`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.Debug)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "examples/header.toml", "TOML 配置文件路径")
	rootCmd.PersistentFlags().StringVar(&opts.Data, "data", "", "绑定到标题文本的 JSON 数据，@file 表示从文件读取")
	rootCmd.PersistentFlags().BoolVarP(&opts.Debug, "debug", "d", false, "输出调试日志")

	rootCmd.AddCommand(renderCmd(&opts))
	rootCmd.AddCommand(inspectCmd(&opts))
	rootCmd.AddCommand(previewCmd(&opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func renderCmd(opts *globalOptions) *cobra.Command {
	var (
		output    string
		debugJSON string
		dpmm      float64
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "按配置的帧数输出 PDF 或 PNG",
		Long: `render 从展开 (0) 到收起 (1) 均匀取帧。
输出路径以 .png 结尾时生成自上而下拼接的联系表，否则每帧一页 PDF。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runRender(*opts, output, debugJSON, dpmm); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已生成：%s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "out", "o", "output/header.pdf", "输出路径（.pdf 或 .png）")
	cmd.Flags().StringVar(&debugJSON, "debug-json", "", "帧快照调试 JSON 输出路径")
	cmd.Flags().Float64Var(&dpmm, "dpmm", 4, "每宿主单位的像素数，用于 PNG 输出与文字位图")
	return cmd
}

func inspectCmd(opts *globalOptions) *cobra.Command {
	var fraction float64
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "打印解析后的帧快照",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(*opts, fraction, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Float64Var(&fraction, "fraction", -1, "只打印该折叠比例的快照，负数表示按配置逐帧打印")
	return cmd
}

// session 是一次命令执行所需的配置、渲染器与引擎。
type session struct {
	cfg      Config
	renderer *canvasrenderer.Renderer
	header   *header
}

// openSession 装配一次会话。bitmapDPMM 是文字位图的栅格化分辨率，应与输出分辨率一致。
func openSession(opts globalOptions, bitmapDPMM float64) (*session, error) {
	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		return nil, err
	}
	data, err := parseData(opts.Data)
	if err != nil {
		return nil, err
	}
	theme, err := cfg.LoadTheme()
	if err != nil {
		return nil, err
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:    cfg.dir,
		BitmapDPMM: bitmapDPMM,
		Logger:     slog.Default(),
		Info: canvasrenderer.DocumentInfo{
			Title:    cfg.Header.Title,
			Subject:  "collapsing header frames",
			Keywords: []string{"subtitlebar"},
			Creator:  "subtitlebar",
		},
	})
	if err := registerThemeFonts(theme, r); err != nil {
		return nil, err
	}
	h, err := buildHeader(cfg, theme, r, r, data, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("装配标题失败: %w", err)
	}
	return &session{cfg: cfg, renderer: r, header: h}, nil
}

func runRender(opts globalOptions, outputPath, debugPath string, dpmm float64) error {
	s, err := openSession(opts, dpmm)
	if err != nil {
		return err
	}
	defer s.header.engine.Release()

	if debugPath != "" {
		if err := writeDebug(s.header.debugDump(), debugPath); err != nil {
			return err
		}
	}

	pages := s.pages()
	var out []byte
	if strings.EqualFold(filepath.Ext(outputPath), ".png") {
		out, err = s.renderer.RenderPNG(pages, dpmm)
	} else {
		var r renderer.Renderer = s.renderer
		out, err = r.Render(pages)
	}
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	slog.Debug("rendered header frames", "path", outputPath, "frames", len(pages), "textured", s.cfg.UseTexture)
	return nil
}

// pages 为每个折叠比例生成一页，页面在渲染时才设置比例并绘制。
func (s *session) pages() []renderer.Page {
	fractions := s.cfg.Fractions()
	pages := make([]renderer.Page, 0, len(fractions))
	for _, f := range fractions {
		pages = append(pages, renderer.Page{
			Width:      float64(s.cfg.View.Width),
			Height:     float64(s.cfg.View.Height),
			Background: s.cfg.color(s.cfg.View.Background),
			Draw: func(c renderer.Canvas) {
				s.header.drawFrame(c, f)
			},
		})
	}
	return pages
}

func runInspect(opts globalOptions, fraction float64, w io.Writer) error {
	s, err := openSession(opts, 1)
	if err != nil {
		return err
	}
	defer s.header.engine.Release()

	if fraction >= 0 {
		s.header.engine.SetExpansionFraction(fraction)
		_, err := fmt.Fprintf(w, "%# v\n", pretty.Formatter(s.header.engine.Frame()))
		return err
	}
	for _, frame := range s.header.frames() {
		if _, err := fmt.Fprintf(w, "%# v\n", pretty.Formatter(frame)); err != nil {
			return err
		}
	}
	return nil
}

// parseData 解析 --data 参数：JSON 字面量，或以 @ 开头的 JSON 文件路径。
func parseData(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	content := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取数据文件 %s 失败: %w", path, err)
		}
		content = b
	}
	var data any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

func writeDebug(dump *layout.DebugDump, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(dump, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
