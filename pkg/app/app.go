// Package app 提供游戏应用的核心包装器
//
// 该包把模拟循环、设备输入、帧调度和渲染器组装成 ebiten.Game，
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/decker502/shuttlerally/pkg/config"
	"github.com/decker502/shuttlerally/pkg/embedded"
	"github.com/decker502/shuttlerally/pkg/engine"
	"github.com/decker502/shuttlerally/pkg/game"
	"github.com/decker502/shuttlerally/pkg/input"
	"github.com/decker502/shuttlerally/pkg/render"
	"github.com/decker502/shuttlerally/pkg/types"
	"github.com/decker502/shuttlerally/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// CharacterIndex 角色外观序号，小于 0 时使用保存的偏好
	CharacterIndex int
	// Difficulty 电脑难度，为 0 时使用保存的偏好
	Difficulty float64
}

// hudState 由模拟循环的通知维护的 HUD 状态
type hudState struct {
	human, ai int
	powerup   types.PowerupType
	over      bool
	winner    types.Hitter
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	loop      *engine.Loop
	scheduler *engine.ManualScheduler
	source    *input.EbitenSource
	renderer  *render.Renderer
	settings  *game.SettingsManager

	hud           hudState
	ticks         int64
	canvasWidth   int // 当前逻辑画布尺寸，随窗口保持 16:9
	canvasHeight  int
	mobile        bool
	unsubscribers []func()

	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前应先调用 embedded.Init() 交付内置数据；未初始化时使用默认玩法配置。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	gameplay, err := loadGameplayConfig()
	if err != nil {
		return nil, fmt.Errorf("玩法配置加载失败: %w", err)
	}

	// 偏好存储不可用时降级为仅内存
	storage, err := game.OpenStorage()
	if err != nil {
		log.Printf("[App] Warning: %v (preferences will not persist)", err)
		storage = nil
	}
	settings := game.NewSettingsManager(storage)
	if cfg.CharacterIndex >= 0 {
		settings.SetCharacterIndex(cfg.CharacterIndex)
	}
	if cfg.Difficulty > 0 {
		settings.SetDifficulty(cfg.Difficulty)
	}
	prefs := settings.Preferences()

	a := &App{
		scheduler: engine.NewManualScheduler(),
		source:    input.NewEbitenSource(),
		renderer:  render.NewRenderer(),
		settings:  settings,
		mobile:    utils.IsMobile(),
		verbose:   cfg.Verbose,

		canvasWidth:  config.GameWindowWidth,
		canvasHeight: config.GameWindowHeight,
	}

	loop, err := engine.New(engine.Options{
		Width:          config.GameWindowWidth,
		Height:         config.GameWindowHeight,
		CharacterIndex: prefs.CharacterIndex,
		Difficulty:     prefs.Difficulty,
		Config:         gameplay,
		Renderer:       a.renderer,
		Scheduler:      a.scheduler,
		Input:          a.source,
	})
	if err != nil {
		return nil, fmt.Errorf("模拟循环初始化失败: %w", err)
	}
	a.loop = loop
	a.subscribe()

	if err := settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	ebiten.SetFullscreen(prefs.Fullscreen)

	loop.Start()
	log.Printf("[App] Started (character=%s, difficulty=%.2f, mobile=%v)",
		render.CharacterPalette(prefs.CharacterIndex).Name, prefs.Difficulty, a.mobile)
	return a, nil
}

// loadGameplayConfig 读取内置的玩法配置；没有内置数据时使用默认值
func loadGameplayConfig() (*config.GameplayConfig, error) {
	data, err := embedded.ReadFile(embedded.GameplayConfigPath)
	if errors.Is(err, embedded.ErrNotInitialized) {
		log.Printf("[App] Embedded data not initialized, using default gameplay config")
		return config.DefaultGameplayConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return config.ParseGameplayConfig(data)
}

func (a *App) subscribe() {
	a.unsubscribers = append(a.unsubscribers,
		a.loop.OnScoreUpdate(func(human, ai int) {
			a.hud.human, a.hud.ai = human, ai
			if human == 0 && ai == 0 {
				a.hud.over = false
				a.hud.winner = types.HitterNone
			}
		}),
		a.loop.OnPowerupChange(func(kind types.PowerupType) {
			a.hud.powerup = kind
		}),
		a.loop.OnMatchOver(func(winner types.Hitter) {
			a.hud.over = true
			a.hud.winner = winner
			log.Printf("[App] Match over: %s wins %d:%d", winner, a.hud.human, a.hud.ai)
		}),
	)
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	// Esc / P 暂停或继续
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.togglePause()
	}

	// R 重新开始
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.loop.Restart()
		a.loop.Resume()
	}

	a.ticks++
	now := tickTime(a.ticks, ebiten.TPS())
	a.source.Poll(now)
	a.scheduler.Fire(now)
	return nil
}

// tickTime 把 tick 计数换算为单调时间戳
func tickTime(ticks int64, tps int) time.Duration {
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return time.Duration(ticks) * time.Second / time.Duration(tps)
}

func (a *App) togglePause() {
	switch a.loop.State() {
	case engine.StateRunning:
		a.loop.Pause()
	case engine.StatePaused:
		a.loop.Resume()
	}
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	if !fullscreen {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
	}

	a.settings.SetFullscreen(fullscreen)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.renderer.Draw(screen)
	for i, line := range hudLines(a.hud, a.loop.State(), a.mobile) {
		ebitenutil.DebugPrintAt(screen, line, 10, 10+i*16)
	}
}

// hudLines 生成 HUD 文本
func hudLines(h hudState, state engine.State, mobile bool) []string {
	lines := []string{fmt.Sprintf("You %d : %d CPU", h.human, h.ai)}
	if h.powerup != types.PowerupNone {
		lines = append(lines, "Power-up: "+h.powerup.String())
	}

	switch {
	case h.over:
		result := "CPU wins!"
		if h.winner == types.HitterHuman {
			result = "You win!"
		}
		lines = append(lines, result+" Press R to play again")
	case state == engine.StatePaused:
		lines = append(lines, "PAUSED - press P or Esc to resume")
	}

	if mobile {
		lines = append(lines, "Drag to move, tap to hit, double tap or hold for a power hit")
	}
	return lines
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 逻辑画布取窗口内最大的 16:9 区域，尺寸变化时同步给模拟循环
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h, ok := fitCanvas(outsideWidth, outsideHeight)
	if !ok {
		return a.canvasWidth, a.canvasHeight
	}
	if w != a.canvasWidth || h != a.canvasHeight {
		if err := a.loop.Resize(float64(w), float64(h)); err != nil {
			log.Printf("[App] Warning: %v", err)
			return a.canvasWidth, a.canvasHeight
		}
		a.canvasWidth, a.canvasHeight = w, h
		log.Printf("[App] Canvas resized to %dx%d", w, h)
	}
	return w, h
}

// fitCanvas 计算窗口内的 16:9 画布尺寸，窗口尚未就绪（尺寸为 0）时返回 false
func fitCanvas(outsideWidth, outsideHeight int) (int, int, bool) {
	w, h := config.FitAspect(float64(outsideWidth), float64(outsideHeight))
	cw, ch := int(w), int(h)
	if cw <= 0 || ch <= 0 {
		return 0, 0, false
	}
	return cw, ch, true
}

// Close 停止模拟循环、取消订阅并保存偏好
func (a *App) Close() {
	a.loop.Stop()
	for _, unsubscribe := range a.unsubscribers {
		unsubscribe()
	}
	a.unsubscribers = nil
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// Loop 返回模拟循环
func (a *App) Loop() *engine.Loop {
	return a.loop
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
