// Package app 提供查看器的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"time"

	"github.com/gonewx/phototree/pkg/config"
	"github.com/gonewx/phototree/pkg/game"
	"github.com/gonewx/phototree/pkg/gesture"
	"github.com/gonewx/phototree/pkg/input"
	"github.com/gonewx/phototree/pkg/photos"
	"github.com/gonewx/phototree/pkg/render"
	"github.com/gonewx/phototree/pkg/systems"
	"github.com/gonewx/phototree/pkg/types"
	"github.com/gonewx/phototree/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// 默认窗口尺寸
const (
	WindowWidth  = 1280
	WindowHeight = 800
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// SceneDefaults 内嵌的 data/scene.yaml 内容，可为 nil
	SceneDefaults []byte
	// ConfigPath 用户场景配置文件，为空则只使用内嵌默认值
	ConfigPath string
	// State 启动后切换到的状态（tree/carousel/chaos），为空保持 tree
	State string
	// Photos 启动时预加载的图片
	Photos []string
	// Seed 随机种子，0 表示随机
	Seed uint64
	// SimulatedHand 强制开启鼠标模拟手（否则读取已保存的设置）
	SimulatedHand bool
}

// App 查看器应用，实现 ebiten.Game 接口
type App struct {
	controller *game.Controller
	tracker    *gesture.Tracker
	hand       *input.SimulatedHand
	ambient    *systems.AmbientSystem
	renderer   *render.Renderer
	loader     *photos.Loader
	settings   *game.SettingsManager

	status     string
	autoRotate bool
	now        time.Duration

	// picked 文件对话框的选择结果（对话框在独立 goroutine 中阻塞）
	picked  chan []string
	picking bool

	width, height int
	verbose       bool
}

// NewApp 创建并初始化查看器
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	sceneCfg, err := config.LoadSceneConfig(cfg.SceneDefaults, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("场景配置加载失败: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	log.Printf("[App] 随机种子: %d", seed)

	a := &App{
		picked:  make(chan []string, 1),
		width:   WindowWidth,
		height:  WindowHeight,
		verbose: cfg.Verbose,
	}

	a.settings = game.NewSettingsManager(openStorage())
	a.controller = game.NewController(sceneCfg, rng, a)
	a.ambient = systems.NewAmbientSystem(sceneCfg.Ambient, rng)
	a.loader = photos.NewLoader(a.controller)

	a.renderer, err = render.NewRenderer(sceneCfg.Counts.Photos, sceneCfg.Counts.Particles, rng)
	if err != nil {
		return nil, fmt.Errorf("渲染器初始化失败: %w", err)
	}

	a.hand = input.NewSimulatedHand(cfg.SimulatedHand || a.settings.Settings().SimulatedHand)
	a.tracker = gesture.NewTracker(
		a.hand,
		gesture.NewClassifier(sceneCfg.Gesture),
		gesture.NewInterpreter(a.controller, sceneCfg),
		sceneCfg.Gesture.PollInterval,
	)

	if cfg.State != "" {
		state, err := types.ParseState(cfg.State)
		if err != nil {
			return nil, err
		}
		a.controller.TransitionTo(state, -1, false)
	}

	if len(cfg.Photos) > 0 {
		a.loadPhotos(cfg.Photos)
	}

	if a.settings.Settings().Fullscreen {
		ebiten.SetFullscreen(true)
	}
	log.Printf("[App] 初始化完成")
	return a, nil
}

// openStorage 打开设置存储，失败时返回 nil（降级为内存设置）
func openStorage() *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] 存储目录不可用: %v", err)
		return nil
	}
	m, err := gdata.Open(gdata.Config{AppName: utils.StorageDirName})
	if err != nil {
		log.Printf("[App] gdata 打开失败: %v（设置不会保存）", err)
		return nil
	}
	return m
}

// SetStatus 实现 game.StatusSink
func (a *App) SetStatus(label string) {
	a.status = label
}

// SetAutoRotate 实现 game.StatusSink
func (a *App) SetAutoRotate(on bool) {
	a.autoRotate = on
}

// Update 更新逻辑，每个 tick 调用一次
func (a *App) Update() error {
	if err := a.handleKeys(); err != nil {
		return err
	}

	select {
	case paths := <-a.picked:
		a.picking = false
		a.loadPhotos(paths)
		a.settings.RememberPhotoDir(paths)
		a.saveSettings()
	default:
	}

	tick := time.Second / time.Duration(ebiten.TPS())
	a.now += tick

	a.hand.Update(a.width, a.height)
	a.tracker.Tick(a.now)

	dt := tick.Seconds()
	a.controller.Update(dt)
	a.ambient.Update(dt)
	return nil
}

// handleKeys 处理快捷键
func (a *App) handleKeys() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.saveSettings()
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		a.controller.TransitionTo(types.StateTree, -1, false)
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		a.controller.TransitionTo(types.StateCarousel, -1, false)
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		a.controller.TransitionTo(types.StateChaos, -1, false)
	case inpututil.IsKeyJustPressed(ebiten.Key4):
		a.controller.TransitionTo(types.StateFocus, a.controller.NearestPhotoToCamera(), false)
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		a.openPicker()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		on := !a.hand.Enabled()
		a.hand.SetEnabled(on)
		if !on {
			a.controller.SetHandActive(false)
		}
		a.settings.SetSimulatedHand(on)
		a.saveSettings()
		log.Printf("[App] 模拟手: %v", on)
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		a.settings.SetShowHints(!a.settings.Settings().ShowHints)
		a.saveSettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyF11):
		full := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(full)
		a.settings.SetFullscreen(full)
		a.saveSettings()
	}
	return nil
}

// openPicker 在后台打开文件对话框，结果在下一次 Update 中处理
func (a *App) openPicker() {
	if a.picking {
		return
	}
	a.picking = true
	dir := a.settings.Settings().LastPhotoDir
	go func() {
		paths, err := pickPhotos(dir)
		if err != nil {
			log.Printf("[App] 选择图片失败: %v", err)
		}
		a.picked <- paths
	}()
}

// loadPhotos 解码图片、更新照片尺寸并上传贴图
func (a *App) loadPhotos(paths []string) {
	if len(paths) == 0 {
		return
	}
	loaded, err := a.loader.LoadFiles(paths)
	if errors.Is(err, photos.ErrNoFreeSlot) {
		a.status = fmt.Sprintf("Only %d photos fit, extra images ignored", a.controller.PhotoCount())
	} else if err != nil {
		log.Printf("[App] 加载图片失败: %v", err)
	}
	for _, item := range loaded {
		if err := a.renderer.SetPhotoImage(item.Index, item.Image); err != nil {
			log.Printf("[App] 上传贴图失败: %v", err)
		}
	}
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] 保存设置失败: %v", err)
	}
}

// Draw 绘制一帧
func (a *App) Draw(screen *ebiten.Image) {
	a.renderer.Draw(screen, a.controller, a.ambient)

	hud := render.HUD{Status: a.status, Hand: a.hand.Frame()}
	if a.settings.Settings().ShowHints && !utils.IsMobile() {
		hud.Hints = a.hints()
	}
	a.renderer.DrawHUD(screen, hud)
}

func (a *App) hints() []string {
	hand := "off"
	if a.hand.Enabled() {
		hand = "on (Z fist, X palm, V victory, P pinch)"
	}
	rotate := "off"
	if a.autoRotate {
		rotate = "on"
	}
	return []string{
		"1 tree  2 carousel  3 chaos  4 focus nearest",
		"O open photos  F11 fullscreen  H hide hints  Esc quit",
		"C simulated hand: " + hand,
		"auto-rotate: " + rotate,
	}
}

// Layout 逻辑屏幕尺寸跟随窗口
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		a.width, a.height = outsideWidth, outsideHeight
	}
	return a.width, a.height
}

// Controller 返回展示状态机
func (a *App) Controller() *game.Controller {
	return a.controller
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
