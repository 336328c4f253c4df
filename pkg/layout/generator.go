package layout

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/config"
	"github.com/gonewx/phototree/pkg/types"
	"github.com/gonewx/phototree/pkg/utils"
)

// Generator 布局生成器
type Generator struct {
	cfg config.LayoutConfig
	rng RandomSource
}

// NewGenerator 创建布局生成器，rng 为 nil 时使用非固定种子的全局随机源
func NewGenerator(cfg config.LayoutConfig, rng RandomSource) *Generator {
	if rng == nil {
		rng = DefaultSource()
	}
	return &Generator{cfg: cfg, rng: rng}
}

// Compute 计算 TREE / CAROUSEL / CHAOS 三个状态的目标表
func (g *Generator) Compute(counts Counts) *Table {
	return &Table{
		Counts: counts,
		targets: map[types.State]*Target{
			types.StateTree:     g.tree(counts),
			types.StateCarousel: g.carousel(counts),
			types.StateChaos:    g.chaos(counts),
		},
	}
}

// tree 锥体粒子 + 上升螺旋丝带 + 松散螺旋照片 + 顶部星星
func (g *Generator) tree(counts Counts) *Target {
	c := g.cfg.Tree
	span := c.HeightMax - c.HeightMin

	points := make([]float64, 0, counts.Particles*3)
	for i := 0; i < counts.Particles; i++ {
		h := c.HeightMin + g.rng.Float64()*span
		normH := (h - c.HeightMin) / span
		maxR := (1 - normH) * c.BaseRadius
		// sqrt 使粒子在圆盘截面上面积均匀
		r := math.Sqrt(g.rng.Float64()) * maxR
		theta := g.rng.Float64() * 2 * math.Pi
		points = append(points, r*math.Cos(theta), h, r*math.Sin(theta))
	}

	ribbon := make([]mgl64.Mat4, counts.Ribbons)
	for i := range ribbon {
		t := float64(i) / float64(counts.Ribbons)
		angle := t * c.RibbonTurns * 2 * math.Pi
		h := t*c.RibbonHeight - c.RibbonHeight/2
		r := (1-t)*c.RibbonBaseRadius + c.RibbonMinRadius
		ribbon[i] = mgl64.Translate3D(math.Cos(angle)*r, h, math.Sin(angle)*r)
	}

	photos := make([]PhotoTarget, counts.Photos)
	for i := range photos {
		t := float64(i) / float64(counts.Photos)
		angle := t * c.PhotoTurns * 2 * math.Pi
		h := t*c.PhotoHeight - c.PhotoHeight/2
		r := (1-(h-c.HeightMin)/span)*c.PhotoBaseRadius + c.PhotoMinRadius
		photos[i] = PhotoTarget{
			Position:        mgl64.Vec3{math.Cos(angle) * r, h, math.Sin(angle) * r},
			Rotation:        utils.EulerToQuat(mgl64.Vec3{0, -angle, c.PhotoTilt}),
			ScaleMultiplier: c.PhotoScale,
		}
	}

	return &Target{
		Points: points,
		Ribbon: ribbon,
		Photos: photos,
		Accent: accentTarget(c.Accent),
	}
}

// carousel 大范围随机散布 + 照片等距排成一圈、面朝圆心
func (g *Generator) carousel(counts Counts) *Target {
	c := g.cfg.Carousel

	photos := make([]PhotoTarget, counts.Photos)
	for i := range photos {
		angle := float64(i) / float64(counts.Photos) * 2 * math.Pi
		photos[i] = PhotoTarget{
			Position: mgl64.Vec3{math.Cos(angle) * c.PhotoRadius, 0, math.Sin(angle) * c.PhotoRadius},
			// 平面默认朝 +Z，绕 Y 转 -angle-90° 后法线指向圆心
			Rotation:        utils.EulerToQuat(mgl64.Vec3{0, -angle - math.Pi/2, 0}),
			ScaleMultiplier: c.PhotoScale,
		}
	}

	return &Target{
		Points: g.scatterPoints(counts.Particles, c.ParticleBox),
		Ribbon: g.scatterRibbon(counts.Ribbons, c.RibbonBox),
		Photos: photos,
		Accent: accentTarget(c.Accent),
	}
}

// chaos 紧凑随机散布 + 照片位置、朝向、缩放全部随机
func (g *Generator) chaos(counts Counts) *Target {
	c := g.cfg.Chaos

	photos := make([]PhotoTarget, counts.Photos)
	for i := range photos {
		euler := mgl64.Vec3{
			g.rng.Float64() * 2 * math.Pi,
			g.rng.Float64() * 2 * math.Pi,
			g.rng.Float64() * 2 * math.Pi,
		}
		photos[i] = PhotoTarget{
			Position:        g.boxPoint(c.PhotoBox),
			Rotation:        utils.EulerToQuat(euler),
			ScaleMultiplier: c.PhotoScaleMin + g.rng.Float64()*(c.PhotoScaleMax-c.PhotoScaleMin),
		}
	}

	return &Target{
		Points: g.scatterPoints(counts.Particles, c.ParticleBox),
		Ribbon: g.scatterRibbon(counts.Ribbons, c.RibbonBox),
		Photos: photos,
		Accent: accentTarget(c.Accent),
	}
}

// RandomScaleMultiplier 返回 CHAOS 范围内的随机缩放倍数（上传照片时使用）
func (g *Generator) RandomScaleMultiplier() float64 {
	c := g.cfg.Chaos
	return c.PhotoScaleMin + g.rng.Float64()*(c.PhotoScaleMax-c.PhotoScaleMin)
}

// Float64 暴露生成器的随机源，FOCUS 隐藏照片的随机偏移也使用同一个源
func (g *Generator) Float64() float64 {
	return g.rng.Float64()
}

func (g *Generator) scatterPoints(n int, box config.Vec3) []float64 {
	points := make([]float64, 0, n*3)
	for i := 0; i < n; i++ {
		p := g.boxPoint(box)
		points = append(points, p[0], p[1], p[2])
	}
	return points
}

func (g *Generator) scatterRibbon(n int, box config.Vec3) []mgl64.Mat4 {
	ribbon := make([]mgl64.Mat4, n)
	for i := range ribbon {
		p := g.boxPoint(box)
		ribbon[i] = mgl64.Translate3D(p[0], p[1], p[2])
	}
	return ribbon
}

// boxPoint 在以原点为中心、边长为 box 的盒子内均匀取点
func (g *Generator) boxPoint(box config.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		(g.rng.Float64() - 0.5) * box[0],
		(g.rng.Float64() - 0.5) * box[1],
		(g.rng.Float64() - 0.5) * box[2],
	}
}

func accentTarget(a config.AccentTarget) AccentTarget {
	return AccentTarget{
		Position: mgl64.Vec3{a.Position[0], a.Position[1], a.Position[2]},
		Scale:    a.Scale,
	}
}
