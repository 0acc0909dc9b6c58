package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ByLCY/subtitlebar/dsl"
	"github.com/ByLCY/subtitlebar/layout"
	"github.com/ByLCY/subtitlebar/renderer/term"
)

const (
	previewStep  = 0.05
	previewFrame = 16 * time.Millisecond // ~60 FPS
)

func previewCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "在终端中拖动折叠比例",
		Long: `preview 以终端单元格为画布绘制标题，视图宽度随终端变化。
←/→ 或 h/l 调整比例，Home/End 跳到两端，空格自动播放，
p 切换按下状态，Esc、q 或 Ctrl-C 退出。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(*opts)
		},
	}
}

// scrubber 是终端预览的状态。
type scrubber struct {
	screen   tcell.Screen
	canvas   *term.Canvas
	header   *header
	fraction float64
	playing  bool
	step     float64
	pressed  bool
}

func runPreview(opts globalOptions) error {
	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		return err
	}
	data, err := parseData(opts.Data)
	if err != nil {
		return err
	}
	theme, err := cfg.LoadTheme()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("初始化终端失败: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("初始化终端失败: %w", err)
	}
	defer screen.Fini()

	s, err := newScrubber(screen, cfg, theme, data)
	if err != nil {
		return err
	}
	s.run()
	return nil
}

// newScrubber 创建预览状态。终端上没有位图，位图缓存总是关闭。
func newScrubber(screen tcell.Screen, cfg Config, theme *dsl.Theme, data any) (*scrubber, error) {
	canvas := term.NewCanvas(screen)
	if bg := cfg.color(cfg.View.Background); bg.A > 0 {
		canvas.SetBackground(bg)
	}
	cfg.UseTexture = false

	h, err := buildHeader(cfg, theme, term.Typesetter{}, nil, data, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("装配标题失败: %w", err)
	}
	s := &scrubber{screen: screen, canvas: canvas, header: h, step: previewStep}
	s.resize()
	return s, nil
}

// resize 让视图宽度跟随屏幕，高度保持配置值但不超过屏幕。
func (s *scrubber) resize() {
	w, h := s.canvas.Size()
	height := min(s.header.cfg.View.Height, int(h))
	s.header.resize(int(w), height)
}

func (s *scrubber) run() {
	ticker := time.NewTicker(previewFrame)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := pollEvents(s.screen.PollEvent, done)

	s.draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !s.handle(ev) {
				return
			}
			s.draw()
		case <-ticker.C:
			if s.playing {
				s.advance()
				s.draw()
			}
		}
	}
}

// pollEvents 在独立的 goroutine 中读取终端事件。poll 返回 nil 或 done 关闭后
// goroutine 退出并关闭返回的通道。
func pollEvents(poll func() tcell.Event, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := poll()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

// handle 处理一个终端事件，返回 false 表示退出。
func (s *scrubber) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			s.seek(s.fraction - previewStep)
		case tcell.KeyRight:
			s.seek(s.fraction + previewStep)
		case tcell.KeyHome:
			s.seek(0)
		case tcell.KeyEnd:
			s.seek(1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'h':
				s.seek(s.fraction - previewStep)
			case 'l':
				s.seek(s.fraction + previewStep)
			case ' ':
				s.playing = !s.playing
			case 'p':
				s.togglePressed()
			}
		}
	case *tcell.EventResize:
		s.screen.Sync()
		s.resize()
	}
	return true
}

func (s *scrubber) seek(f float64) {
	s.playing = false
	s.fraction = layout.Clamp01(f)
}

// advance 在两端之间往返播放。
func (s *scrubber) advance() {
	next := s.fraction + s.step
	if next > 1 || next < 0 {
		s.step = -s.step
		next = s.fraction + s.step
	}
	s.fraction = layout.Clamp01(next)
}

func (s *scrubber) togglePressed() {
	s.pressed = !s.pressed
	state := layout.StateEnabled
	if s.pressed {
		state |= layout.StatePressed
	}
	if !s.header.engine.SetState(state) {
		slog.Debug("header colors are not stateful")
	}
}

func (s *scrubber) draw() {
	s.screen.Clear()
	s.header.drawFrame(s.canvas, s.fraction)
	s.status()
	s.screen.Show()
}

// status 在最后一行显示当前比例与按键提示。
func (s *scrubber) status() {
	_, rows := s.screen.Size()
	line := fmt.Sprintf(" fraction %.2f  pressed=%t  [←/→ h/l] seek  [space] play  [p] press  [q] quit", s.fraction, s.pressed)
	style := tcell.StyleDefault.Reverse(true)
	col := 0
	for _, r := range line {
		s.screen.SetContent(col, rows-1, r, nil, style)
		col++
	}
}
