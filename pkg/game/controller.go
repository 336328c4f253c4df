package game

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/components"
	"github.com/gonewx/phototree/pkg/config"
	"github.com/gonewx/phototree/pkg/ecs"
	"github.com/gonewx/phototree/pkg/layout"
	"github.com/gonewx/phototree/pkg/systems"
	"github.com/gonewx/phototree/pkg/types"
	"github.com/gonewx/phototree/pkg/utils"
)

var (
	// ErrPhotoIndexOutOfRange 照片索引超出范围
	ErrPhotoIndexOutOfRange = errors.New("photo index out of range")
	// ErrInvalidAspect 图片宽高比必须为正的有限值
	ErrInvalidAspect = errors.New("invalid image aspect ratio")
)

// StatusSink 接收状态机对外的 UI 副作用
type StatusSink interface {
	// SetStatus 更新状态栏文字
	SetStatus(label string)
	// SetAutoRotate 通知相机自动旋转开关
	SetAutoRotate(on bool)
}

// Controller 展示状态机
//
// 持有当前状态、聚焦索引、手势标志和收敛速度，
// TransitionTo 是修改状态的唯一入口。照片、星星、场景根与照片组都是实体，
// 由补间系统、旋转系统驱动；粒子与丝带由收敛系统每帧逼近当前状态的目标。
//
// 所有方法都在渲染线程调用，不做加锁。
type Controller struct {
	cfg           *config.SceneConfig
	entityManager *ecs.EntityManager
	generator     *layout.Generator
	table         *layout.Table

	tweens   *systems.TweenSystem
	morph    *systems.MorphSystem
	rotation *systems.RotationSystem
	camera   *systems.CameraSystem

	sceneRoot  ecs.EntityID
	photoGroup ecs.EntityID
	accent     ecs.EntityID
	photos     []ecs.EntityID
	display    *components.DisplayStateComponent

	morphSpeed float64
	status     StatusSink
}

// NewController 创建状态机并进入初始 TREE 状态
//
// 参数:
//   - cfg: 已校验的场景配置
//   - rng: 布局随机源，nil 时使用非固定种子的全局随机源
//   - status: UI 副作用接收者，可为 nil
func NewController(cfg *config.SceneConfig, rng layout.RandomSource, status StatusSink) *Controller {
	em := ecs.NewEntityManager()
	c := &Controller{
		cfg:           cfg,
		entityManager: em,
		generator:     layout.NewGenerator(cfg.Layout, rng),
		tweens:        systems.NewTweenSystem(em),
		morph:         systems.NewMorphSystem(cfg.Counts.Particles, cfg.Counts.Ribbons),
		camera:        systems.NewCameraSystem(em, cfg.Camera),
		morphSpeed:    cfg.Morph.DefaultSpeed,
		status:        status,
	}

	c.createSceneGraph()
	c.rotation = systems.NewRotationSystem(em, c.camera, cfg, c.sceneRoot, c.photoGroup, c.photos)
	c.RecomputeLayouts()
	c.TransitionTo(types.StateTree, -1, false)
	return c
}

// createSceneGraph 创建场景根、照片组、星星和照片实体
func (c *Controller) createSceneGraph() {
	em := c.entityManager

	c.sceneRoot = em.CreateEntity()
	ecs.AddComponent(em, c.sceneRoot, &components.NodeComponent{Kind: components.NodeSceneRoot})
	c.display = &components.DisplayStateComponent{State: types.StateTree, FocusIndex: -1}
	ecs.AddComponent(em, c.sceneRoot, c.display)

	c.photoGroup = em.CreateEntity()
	ecs.AddComponent(em, c.photoGroup, &components.NodeComponent{
		Kind:   components.NodePhotoGroup,
		Parent: c.sceneRoot,
	})

	c.accent = em.CreateEntity()
	ecs.AddComponent(em, c.accent, components.NewTransform(c.sceneRoot))
	ecs.AddComponent(em, c.accent, &components.AccentComponent{})

	baseH := c.cfg.Photo.BaseHeight
	baseW := baseH * c.cfg.Photo.DefaultAspect
	c.photos = make([]ecs.EntityID, c.cfg.Counts.Photos)
	for i := range c.photos {
		id := em.CreateEntity()
		transform := components.NewTransform(c.photoGroup)
		transform.Scale = mgl64.Vec3{baseW, baseH, 1}
		ecs.AddComponent(em, id, transform)
		ecs.AddComponent(em, id, &components.PhotoComponent{
			Index:      i,
			BaseWidth:  baseW,
			BaseHeight: baseH,
		})
		c.photos[i] = id
	}
}

// RecomputeLayouts 重新计算 TREE / CAROUSEL / CHAOS 的目标表
// 随机散布每次都不同；已在进行中的补间不受影响
func (c *Controller) RecomputeLayouts() {
	c.table = c.generator.Compute(layout.Counts{
		Particles: c.cfg.Counts.Particles,
		Ribbons:   c.cfg.Counts.Ribbons,
		Photos:    len(c.photos),
	})
}

// TransitionTo 切换展示状态
//
// FOCUS 必须带有效的照片索引，否则改为切换到 CAROUSEL（保留 fast）。
// 进入 TREE 时开启相机自动旋转、场景根与照片组旋转归零、聚焦索引清为 -1；
// 其他状态关闭自动旋转。每次调用都从对象当前值启动新补间，不等待也不排队。
//
// 参数:
//   - state: 目标状态
//   - focusIndex: 仅 FOCUS 使用的照片索引，其他状态忽略
//   - fast: 使用短时长配置（无手快速复位）
func (c *Controller) TransitionTo(state types.State, focusIndex int, fast bool) {
	if state == types.StateFocus && (focusIndex < 0 || focusIndex >= len(c.photos)) {
		c.TransitionTo(types.StateCarousel, -1, fast)
		return
	}
	if state != types.StateFocus {
		focusIndex = -1
	}

	c.display.State = state
	c.display.FocusIndex = focusIndex
	log.Printf("[Controller] 切换到 %s (focus=%d, fast=%v)", state, focusIndex, fast)
	if c.status != nil {
		c.status.SetStatus(state.Label())
	}

	durations := c.cfg.Transition.Profile(fast)

	if state == types.StateTree {
		c.SetAutoRotate(true)
		c.tweens.TweenNodeRotation(c.sceneRoot, mgl64.Vec3{}, durations.SceneRotation, utils.EaseOutCubic)
		c.tweens.TweenNodeRotation(c.photoGroup, mgl64.Vec3{}, durations.GroupRotation, utils.EaseOutCubic)
	} else {
		c.SetAutoRotate(false)
	}

	var targets []layout.PhotoTarget
	if state == types.StateFocus {
		targets = c.generator.Focus(focusIndex, len(c.photos), c.focusView())
	} else if target := c.table.Get(state); target != nil {
		targets = target.Photos
	}

	for i, id := range c.photos {
		if i >= len(targets) {
			break
		}
		photo, ok := ecs.GetComponent[*components.PhotoComponent](c.entityManager, id)
		if !ok {
			continue
		}
		tgt := targets[i]
		s := tgt.ScaleMultiplier
		c.tweens.TweenPosition(id, tgt.Position, durations.Position, utils.EaseOutCubic)
		c.tweens.TweenRotation(id, tgt.Rotation, durations.Rotation, utils.EaseOutCubic)
		c.tweens.TweenScale(id, mgl64.Vec3{s * photo.BaseWidth, s * photo.BaseHeight, s}, durations.Scale, utils.EaseOutElastic)
	}

	if accent, ok := c.table.Accent(state); ok {
		c.tweens.TweenPosition(c.accent, accent.Position, durations.Accent, utils.EaseOutCubic)
		c.tweens.TweenScale(c.accent, mgl64.Vec3{accent.Scale, accent.Scale, accent.Scale}, durations.Accent, utils.EaseLinear)
	}
}

// focusView 采集切换时刻的相机与照片组世界变换
func (c *Controller) focusView() layout.FocusView {
	return layout.FocusView{
		CameraPosition: c.camera.Position(),
		CameraForward:  c.camera.Forward(),
		CameraUp:       c.camera.Up(),
		ParentWorld:    systems.NodeWorldMatrix(c.entityManager, c.photoGroup),
		ParentRotation: systems.NodeWorldRotation(c.entityManager, c.photoGroup),
	}
}

// Update 推进一帧：补间 → 相机 → 旋转 → 粒子收敛，最后清理结束的补间实体
func (c *Controller) Update(dt float64) {
	c.tweens.Update(dt)
	c.camera.Update(dt)
	c.rotation.Update(dt)
	c.morph.Update(c.table.Swarm(c.display.State), c.morphSpeed)
	c.entityManager.RemoveMarkedEntities()
}

// CurrentState 返回当前状态
func (c *Controller) CurrentState() types.State {
	return c.display.State
}

// FocusIndex 返回聚焦照片索引，非 FOCUS 时为 -1
func (c *Controller) FocusIndex() int {
	return c.display.FocusIndex
}

// NearestPhotoIndex 返回世界坐标离 cameraPos 最近的照片索引
// 没有照片时返回 -1；距离相同时取索引较小者
func (c *Controller) NearestPhotoIndex(cameraPos mgl64.Vec3) int {
	best := -1
	bestDist := math.Inf(1)
	for i, id := range c.photos {
		d := systems.WorldPosition(c.entityManager, id).Sub(cameraPos).Len()
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// NearestPhotoToCamera 以当前相机位置调用 NearestPhotoIndex
func (c *Controller) NearestPhotoToCamera() int {
	return c.NearestPhotoIndex(c.camera.Position())
}

// SetHandActive 设置手势标志
func (c *Controller) SetHandActive(active bool) {
	c.display.HandActive = active
}

// HandActive 返回手势标志
func (c *Controller) HandActive() bool {
	return c.display.HandActive
}

// SetAutoRotate 开关相机自动旋转并通知 UI
func (c *Controller) SetAutoRotate(on bool) {
	c.camera.SetAutoRotate(on)
	if c.status != nil {
		c.status.SetAutoRotate(on)
	}
}

// AutoRotate 返回相机自动旋转是否开启
func (c *Controller) AutoRotate() bool {
	return c.camera.AutoRotate()
}

// SetMorphSpeed 覆盖收敛速度
// 非正数或 NaN 被忽略（收敛速度必须始终为正），大于 1 按 1 处理
func (c *Controller) SetMorphSpeed(speed float64) {
	if !(speed > 0) {
		return
	}
	c.morphSpeed = math.Min(speed, 1)
}

// ResetMorphSpeed 恢复默认收敛速度
func (c *Controller) ResetMorphSpeed() {
	c.morphSpeed = c.cfg.Morph.DefaultSpeed
}

// MorphSpeed 返回当前收敛速度
func (c *Controller) MorphSpeed() float64 {
	return c.morphSpeed
}

// FollowHand 按手腕位置缓动场景旋转
func (c *Controller) FollowHand(handX, handY float64) {
	c.rotation.FollowHand(c.display.State, handX, handY)
}

// SetPhotoAspect 为照片分配新图片的宽高比
//
// 基础高度固定，宽度 = 高度 × aspect；随后按当前状态立即缩放：
// CAROUSEL 为 1.0，CHAOS 为随机 [0.5, 1.5)，其他为 0.5。
// 进行中的缩放补间会被取消，避免旧尺寸覆盖新尺寸。
//
// 返回:
//   - error: 索引越界返回 ErrPhotoIndexOutOfRange，宽高比无效返回 ErrInvalidAspect
func (c *Controller) SetPhotoAspect(index int, aspect float64) error {
	if index < 0 || index >= len(c.photos) {
		return fmt.Errorf("%w: %d (count %d)", ErrPhotoIndexOutOfRange, index, len(c.photos))
	}
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAspect, aspect)
	}

	id := c.photos[index]
	photo, ok1 := ecs.GetComponent[*components.PhotoComponent](c.entityManager, id)
	transform, ok2 := ecs.GetComponent[*components.TransformComponent](c.entityManager, id)
	if !ok1 || !ok2 {
		return fmt.Errorf("%w: %d", ErrPhotoIndexOutOfRange, index)
	}

	photo.BaseHeight = c.cfg.Photo.BaseHeight
	photo.BaseWidth = c.cfg.Photo.BaseHeight * aspect
	photo.HasImage = true

	mult := c.uploadScaleMultiplier()
	c.tweens.Cancel(components.TweenKey{Target: id, Property: components.TweenScale})
	transform.Scale = mgl64.Vec3{photo.BaseWidth * mult, photo.BaseHeight * mult, mult}

	log.Printf("[Controller] 照片 %d 宽高比 %.3f，尺寸 %.1fx%.1f，倍数 %.2f",
		index, aspect, photo.BaseWidth, photo.BaseHeight, mult)
	return nil
}

func (c *Controller) uploadScaleMultiplier() float64 {
	switch c.display.State {
	case types.StateCarousel:
		return c.cfg.Layout.Carousel.PhotoScale
	case types.StateChaos:
		return c.generator.RandomScaleMultiplier()
	default:
		return c.cfg.Layout.Tree.PhotoScale
	}
}

// ========== 渲染访问器 ==========

// EntityManager 返回实体管理器（渲染层只读）
func (c *Controller) EntityManager() *ecs.EntityManager {
	return c.entityManager
}

// Photos 返回按索引排列的照片实体
func (c *Controller) Photos() []ecs.EntityID {
	return c.photos
}

// PhotoCount 返回照片数量
func (c *Controller) PhotoCount() int {
	return len(c.photos)
}

// Accent 返回星星实体
func (c *Controller) Accent() ecs.EntityID {
	return c.accent
}

// Camera 返回相机系统
func (c *Controller) Camera() *systems.CameraSystem {
	return c.camera
}

// Swarm 返回粒子/丝带收敛系统
func (c *Controller) Swarm() *systems.MorphSystem {
	return c.morph
}

// Layouts 返回当前目标表
func (c *Controller) Layouts() *layout.Table {
	return c.table
}

// ActiveTweens 返回进行中的补间数量
func (c *Controller) ActiveTweens() int {
	return c.tweens.Active()
}

// SceneRoot 返回场景根节点（粒子、丝带与星星所在的坐标系）
func (c *Controller) SceneRoot() ecs.EntityID {
	return c.sceneRoot
}
