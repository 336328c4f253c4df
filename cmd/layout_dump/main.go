// layout_dump 计算场景布局并以 YAML 输出，用于调参时检查各状态的形状
//
// 用法:
//
//	go run ./cmd/layout_dump [--config data/scene.yaml] [--seed 1] [--state tree] [--photos]
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/config"
	"github.com/gonewx/phototree/pkg/layout"
	"github.com/gonewx/phototree/pkg/types"
	"gopkg.in/yaml.v3"
)

var (
	configPath = flag.String("config", "data/scene.yaml", "场景配置文件")
	seed       = flag.Uint64("seed", 1, "随机种子")
	stateName  = flag.String("state", "", "只输出指定状态（tree/carousel/chaos），为空输出全部")
	withPhotos = flag.Bool("photos", false, "输出每张照片的目标位置")
)

// bounds 一组点的包围盒
type bounds struct {
	Min [3]float64 `yaml:"min,flow"`
	Max [3]float64 `yaml:"max,flow"`
}

type photoDump struct {
	Index    int        `yaml:"index"`
	Position [3]float64 `yaml:"position,flow"`
	Scale    float64    `yaml:"scale"`
}

type stateDump struct {
	State     string      `yaml:"state"`
	Particles bounds      `yaml:"particles"`
	Ribbon    bounds      `yaml:"ribbon"`
	Photos    bounds      `yaml:"photos"`
	Accent    [3]float64  `yaml:"accent,flow"`
	Detail    []photoDump `yaml:"detail,omitempty"`
}

func main() {
	flag.Parse()

	data, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}
	cfg, err := config.LoadSceneConfig(data, "")
	if err != nil {
		log.Fatalf("配置无效: %v", err)
	}

	states := []types.State{types.StateTree, types.StateCarousel, types.StateChaos}
	if *stateName != "" {
		s, err := types.ParseState(*stateName)
		if err != nil || s == types.StateFocus {
			log.Fatalf("不支持的状态: %s", *stateName)
		}
		states = []types.State{s}
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	gen := layout.NewGenerator(cfg.Layout, rng)
	table := gen.Compute(layout.Counts{
		Particles: cfg.Counts.Particles,
		Ribbons:   cfg.Counts.Ribbons,
		Photos:    cfg.Counts.Photos,
	})

	out := make([]stateDump, 0, len(states))
	for _, s := range states {
		out = append(out, dumpState(s, table.Get(s)))
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "输出失败: %v\n", err)
		os.Exit(1)
	}
}

func dumpState(s types.State, target *layout.Target) stateDump {
	d := stateDump{
		State:  s.String(),
		Accent: target.Accent.Position,
	}

	b := newBounds()
	for i := 0; i+2 < len(target.Points); i += 3 {
		b.add(mgl64.Vec3{target.Points[i], target.Points[i+1], target.Points[i+2]})
	}
	d.Particles = b.finish()

	b = newBounds()
	for _, m := range target.Ribbon {
		b.add(m.Col(3).Vec3())
	}
	d.Ribbon = b.finish()

	b = newBounds()
	for i, p := range target.Photos {
		b.add(p.Position)
		if *withPhotos {
			d.Detail = append(d.Detail, photoDump{Index: i, Position: p.Position, Scale: p.ScaleMultiplier})
		}
	}
	d.Photos = b.finish()
	return d
}

func newBounds() *bounds {
	return &bounds{
		Min: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

func (b *bounds) add(p mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
}

// finish 空集合输出全零
func (b *bounds) finish() bounds {
	if math.IsInf(b.Min[0], 1) {
		return bounds{}
	}
	return *b
}
