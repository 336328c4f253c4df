package render

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/components"
	"github.com/gonewx/phototree/pkg/ecs"
	"github.com/gonewx/phototree/pkg/game"
	"github.com/gonewx/phototree/pkg/layout"
	"github.com/gonewx/phototree/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 世界单位下的绘制尺寸
const (
	swarmPointSize = 6.0
	starPointSize  = 3.5
	snowPointSize  = 4.0
	ribbonRadius   = 5.0
	accentRadius   = 20.0
	accentHalo     = 120.0

	swarmAlpha = 0.9
	starAlpha  = 0.6
	snowAlpha  = 0.8
	haloAlpha  = 0.4

	// 单批最多顶点数（uint16 索引）
	maxBatchVertices = 65532
)

// photoQuad 一张照片投影后的四个角
type photoQuad struct {
	index   int
	corners [4]ScreenPoint
	depth   float64
}

// Renderer 场景渲染器
type Renderer struct {
	glow  *ebiten.Image
	snow  *ebiten.Image
	white *ebiten.Image
	face  *text.GoTextFace

	swarmColors  []color.RGBA
	placeholders []*ebiten.Image
	textures     map[int]*ebiten.Image

	// 预分配缓冲，避免每帧分配
	vertices []ebiten.Vertex
	indices  []uint16
	quads    []photoQuad
}

// NewRenderer 创建渲染器并生成贴图
//
// 参数:
//   - photoCount: 照片数量（生成对应数量的占位贴图）
//   - particleCount: 粒子数量（预先分配颜色）
//   - rng: 粒子配色的随机源
func NewRenderer(photoCount, particleCount int, rng layout.RandomSource) (*Renderer, error) {
	src, err := newFontSource()
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		glow:        newGlowImage(),
		snow:        newSnowImage(),
		white:       newWhiteImage(),
		face:        &text.GoTextFace{Source: src, Size: 28},
		swarmColors: SwarmColors(particleCount, rng),
		textures:    make(map[int]*ebiten.Image),
	}
	r.placeholders = make([]*ebiten.Image, photoCount)
	for i := range r.placeholders {
		r.placeholders[i] = newPlaceholder(i, r.face)
	}
	log.Printf("[Renderer] 初始化完成: %d 张占位图, %d 个粒子颜色", photoCount, particleCount)
	return r, nil
}

// SetPhotoImage 替换照片贴图
func (r *Renderer) SetPhotoImage(index int, img image.Image) error {
	if index < 0 || index >= len(r.placeholders) {
		return fmt.Errorf("photo index %d out of range (count %d)", index, len(r.placeholders))
	}
	if old, ok := r.textures[index]; ok {
		old.Deallocate()
	}
	r.textures[index] = ebiten.NewImageFromImage(img)
	return nil
}

// Face 返回界面文字使用的字体
func (r *Renderer) Face() *text.GoTextFace {
	return r.face
}

// Draw 绘制一帧
func (r *Renderer) Draw(screen *ebiten.Image, c *game.Controller, ambient *systems.AmbientSystem) {
	screen.Fill(ColorBackground)

	b := screen.Bounds()
	camera := c.Camera()
	aspect := float64(b.Dx()) / float64(b.Dy())
	proj := NewProjector(camera.View(), camera.Projection(aspect), b.Dx(), b.Dy())
	em := c.EntityManager()
	sceneWorld := systems.NodeWorldMatrix(em, c.SceneRoot())

	if ambient != nil {
		r.drawAmbient(screen, proj, ambient)
	}
	r.drawSwarm(screen, proj, sceneWorld, c.Swarm())
	r.drawRibbons(screen, proj, sceneWorld, c.Swarm().Ribbon())
	r.drawPhotos(screen, proj, em, c.Photos())
	r.drawAccent(screen, proj, em, c.Accent())
}

func (r *Renderer) drawAmbient(screen *ebiten.Image, proj Projector, ambient *systems.AmbientSystem) {
	r.resetBatch()
	stars := ambient.Stars()
	for i := 0; i < len(stars); i += 3 {
		p := mgl64.Vec3{stars[i], stars[i+1], stars[i+2]}
		r.addSprite(screen, r.glow, proj, p, starPointSize, StarColor(ambient.StarIsGold(i/3)), starAlpha)
	}
	r.flush(screen, r.glow, true)

	snow := ambient.Snow()
	for i := 0; i < len(snow); i += 3 {
		p := mgl64.Vec3{snow[i], snow[i+1], snow[i+2]}
		r.addSprite(screen, r.snow, proj, p, snowPointSize, ColorSnow, snowAlpha)
	}
	r.flush(screen, r.snow, true)
}

func (r *Renderer) drawSwarm(screen *ebiten.Image, proj Projector, sceneWorld mgl64.Mat4, swarm *systems.MorphSystem) {
	r.resetBatch()
	points := swarm.Points()
	for i := 0; i+2 < len(points); i += 3 {
		p := sceneWorld.Mul4x1(mgl64.Vec4{points[i], points[i+1], points[i+2], 1}).Vec3()
		clr := ColorGold
		if i/3 < len(r.swarmColors) {
			clr = r.swarmColors[i/3]
		}
		r.addSprite(screen, r.glow, proj, p, swarmPointSize, clr, swarmAlpha)
	}
	r.flush(screen, r.glow, true)
}

func (r *Renderer) drawRibbons(screen *ebiten.Image, proj Projector, sceneWorld mgl64.Mat4, ribbon []mgl64.Mat4) {
	for i, m := range ribbon {
		world := sceneWorld.Mul4(m)
		sp, ok := proj.Project(world.Col(3).Vec3())
		if !ok || !proj.OnScreen(sp, 20) {
			continue
		}
		radius := float32(ribbonRadius * proj.PixelsPerUnit(sp.Depth))
		vector.DrawFilledCircle(screen, float32(sp.X), float32(sp.Y), max(radius, 1), RibbonColor(i), true)
	}
}

func (r *Renderer) drawPhotos(screen *ebiten.Image, proj Projector, em *ecs.EntityManager, photos []ecs.EntityID) {
	r.quads = r.quads[:0]
	corners := [4]mgl64.Vec3{{-0.5, 0.5, 0}, {0.5, 0.5, 0}, {-0.5, -0.5, 0}, {0.5, -0.5, 0}}

	for i, id := range photos {
		world := systems.WorldMatrix(em, id)
		q := photoQuad{index: i}
		visible := true
		for k, corner := range corners {
			sp, ok := proj.Project(world.Mul4x1(corner.Vec4(1)).Vec3())
			if !ok {
				visible = false
				break
			}
			q.corners[k] = sp
			q.depth += sp.Depth / 4
		}
		if visible {
			r.quads = append(r.quads, q)
		}
	}

	// 从远到近
	sort.Slice(r.quads, func(a, b int) bool { return r.quads[a].depth > r.quads[b].depth })

	for _, q := range r.quads {
		tex := r.photoTexture(q.index)
		w, h := float32(tex.Bounds().Dx()), float32(tex.Bounds().Dy())
		src := [4][2]float32{{0, 0}, {w, 0}, {0, h}, {w, h}}
		cr, cg, cb := float32(ColorPhotoTint.R)/255, float32(ColorPhotoTint.G)/255, float32(ColorPhotoTint.B)/255

		vs := make([]ebiten.Vertex, 4)
		for k, sp := range q.corners {
			vs[k] = ebiten.Vertex{
				DstX: float32(sp.X), DstY: float32(sp.Y),
				SrcX: src[k][0], SrcY: src[k][1],
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1,
			}
		}
		op := &ebiten.DrawTrianglesOptions{AntiAlias: true, Filter: ebiten.FilterLinear}
		screen.DrawTriangles(vs, []uint16{0, 1, 2, 1, 3, 2}, tex, op)
	}
}

func (r *Renderer) photoTexture(index int) *ebiten.Image {
	if tex, ok := r.textures[index]; ok {
		return tex
	}
	return r.placeholders[index]
}

func (r *Renderer) drawAccent(screen *ebiten.Image, proj Projector, em *ecs.EntityManager, accent ecs.EntityID) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](em, accent)
	if !ok {
		return
	}
	sp, ok := proj.Project(systems.WorldPosition(em, accent))
	if !ok {
		return
	}
	scale := transform.Scale[0]
	ppu := proj.PixelsPerUnit(sp.Depth) * scale

	r.resetBatch()
	r.appendQuad(sp.X, sp.Y, accentHalo*ppu, r.glow.Bounds(), ColorStarYellow, haloAlpha)
	r.flush(screen, r.glow, true)

	// 正八面体的投影近似为菱形
	rad := float32(accentRadius * ppu)
	x, y := float32(sp.X), float32(sp.Y)
	cr, cg, cb := float32(ColorStarYellow.R)/255, float32(ColorStarYellow.G)/255, float32(ColorStarYellow.B)/255
	vs := []ebiten.Vertex{
		{DstX: x, DstY: y - rad, SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1},
		{DstX: x + rad, DstY: y, SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1},
		{DstX: x, DstY: y + rad, SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1},
		{DstX: x - rad, DstY: y, SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1},
	}
	screen.DrawTriangles(vs, []uint16{0, 1, 2, 0, 2, 3}, r.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// ========== 精灵批处理 ==========

func (r *Renderer) resetBatch() {
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}

// addSprite 投影一个世界坐标点并加入批次，批次满时先绘制
func (r *Renderer) addSprite(screen, img *ebiten.Image, proj Projector, world mgl64.Vec3, size float64, clr color.RGBA, alpha float64) {
	sp, ok := proj.Project(world)
	if !ok || !proj.OnScreen(sp, 10) {
		return
	}
	px := size * proj.PixelsPerUnit(sp.Depth)
	if px < 1 {
		px = 1
	}
	if len(r.vertices)+4 > maxBatchVertices {
		r.flush(screen, img, true)
	}
	r.appendQuad(sp.X, sp.Y, px, img.Bounds(), clr, alpha)
}

// appendQuad 追加一个以 (x, y) 为中心、边长 size 的四边形
func (r *Renderer) appendQuad(x, y, size float64, src image.Rectangle, clr color.RGBA, alpha float64) {
	h := float32(size / 2)
	cx, cy := float32(x), float32(y)
	a := float32(alpha)
	cr, cg, cb := float32(clr.R)/255*a, float32(clr.G)/255*a, float32(clr.B)/255*a

	x0, y0 := float32(src.Min.X), float32(src.Min.Y)
	x1, y1 := float32(src.Max.X), float32(src.Max.Y)
	base := uint16(len(r.vertices))
	r.vertices = append(r.vertices,
		ebiten.Vertex{DstX: cx - h, DstY: cy - h, SrcX: x0, SrcY: y0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: a},
		ebiten.Vertex{DstX: cx + h, DstY: cy - h, SrcX: x1, SrcY: y0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: a},
		ebiten.Vertex{DstX: cx - h, DstY: cy + h, SrcX: x0, SrcY: y1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: a},
		ebiten.Vertex{DstX: cx + h, DstY: cy + h, SrcX: x1, SrcY: y1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: a},
	)
	r.indices = append(r.indices, base, base+1, base+2, base+1, base+3, base+2)
}

// flush 绘制并清空当前批次
func (r *Renderer) flush(screen, img *ebiten.Image, additive bool) {
	if len(r.vertices) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{
		AntiAlias:      true,
		Filter:         ebiten.FilterLinear,
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
	}
	if additive {
		op.Blend = ebiten.BlendLighter
	}
	screen.DrawTriangles(r.vertices, r.indices, img, op)
	r.resetBatch()
}
