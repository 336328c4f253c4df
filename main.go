// Command phototree 显示一棵由粒子、丝带和照片组成的圣诞树，
// 可以用手势（或鼠标模拟的手）在树形、画廊、混沌与聚焦之间切换。
//
// Usage:
//
//	phototree [flags] [photo ...]
//
// Flags:
//
//	--config <file>   场景配置文件（覆盖内嵌的 data/scene.yaml）
//	--state <name>    启动状态：tree、carousel、chaos
//	--seed <n>        随机种子（0 为随机）
//	--hand            开启鼠标模拟手
//	--verbose         输出详细日志
package main

import (
	"flag"
	"log"

	"github.com/gonewx/phototree/pkg/app"
	"github.com/gonewx/phototree/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	configFlag  = flag.String("config", "", "Scene config YAML overriding the embedded defaults")
	stateFlag   = flag.String("state", "", "Initial state: tree, carousel or chaos")
	seedFlag    = flag.Uint64("seed", 0, "Random seed for layouts (0 = random)")
	handFlag    = flag.Bool("hand", false, "Enable the mouse-driven simulated hand")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	viewer, err := app.NewApp(app.Config{
		Verbose:       *verboseFlag,
		SceneDefaults: embedded.SceneDefaults(),
		ConfigPath:    *configFlag,
		State:         *stateFlag,
		Photos:        flag.Args(),
		Seed:          *seedFlag,
		SimulatedHand: *handFlag,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Photo Tree")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
