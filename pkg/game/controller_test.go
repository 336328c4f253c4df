package game

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/components"
	"github.com/gonewx/phototree/pkg/config"
	"github.com/gonewx/phototree/pkg/ecs"
	"github.com/gonewx/phototree/pkg/systems"
	"github.com/gonewx/phototree/pkg/types"
)

// recordingSink 记录状态栏与自动旋转通知
type recordingSink struct {
	labels     []string
	autoRotate []bool
}

func (r *recordingSink) SetStatus(label string) { r.labels = append(r.labels, label) }
func (r *recordingSink) SetAutoRotate(on bool)  { r.autoRotate = append(r.autoRotate, on) }

func (r *recordingSink) lastLabel() string {
	if len(r.labels) == 0 {
		return ""
	}
	return r.labels[len(r.labels)-1]
}

func testSceneConfig() *config.SceneConfig {
	cfg := config.DefaultSceneConfig()
	cfg.Counts.Particles = 200
	cfg.Counts.Ribbons = 20
	return cfg
}

func newTestController(t *testing.T, cfg *config.SceneConfig) (*Controller, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	c := NewController(cfg, rand.New(rand.NewPCG(42, 7)), sink)
	return c, sink
}

// runFor 以 60fps 推进 seconds 秒
func runFor(c *Controller, seconds float64) {
	frames := int(math.Ceil(seconds * 60))
	for i := 0; i < frames; i++ {
		c.Update(1.0 / 60)
	}
}

func transformOf(t *testing.T, c *Controller, id ecs.EntityID) *components.TransformComponent {
	t.Helper()
	transform, ok := ecs.GetComponent[*components.TransformComponent](c.EntityManager(), id)
	if !ok {
		t.Fatalf("实体 %d 缺少 TransformComponent", id)
	}
	return transform
}

// TestNewControllerStartsInTree 初始状态为 TREE，自动旋转开启
func TestNewControllerStartsInTree(t *testing.T) {
	c, sink := newTestController(t, testSceneConfig())

	if c.CurrentState() != types.StateTree {
		t.Errorf("初始状态 = %s, 期望 tree", c.CurrentState())
	}
	if c.FocusIndex() != -1 {
		t.Errorf("初始 FocusIndex = %d, 期望 -1", c.FocusIndex())
	}
	if !c.AutoRotate() {
		t.Error("初始应开启自动旋转")
	}
	if sink.lastLabel() != "Mode: TREE FORM" {
		t.Errorf("状态栏 = %q", sink.lastLabel())
	}
	if c.PhotoCount() != 12 {
		t.Errorf("照片数 = %d, 期望 12", c.PhotoCount())
	}
	if c.MorphSpeed() != 0.03 {
		t.Errorf("MorphSpeed = %v, 期望 0.03", c.MorphSpeed())
	}
}

// TestTransitionSetsState 切换后立即查询得到目标状态，FOCUS 无效索引改为 CAROUSEL
func TestTransitionSetsState(t *testing.T) {
	tests := []struct {
		name      string
		state     types.State
		index     int
		wantState types.State
		wantFocus int
		wantLabel string
		wantAuto  bool
	}{
		{"tree", types.StateTree, -1, types.StateTree, -1, "Mode: TREE FORM", true},
		{"tree ignores stale index", types.StateTree, 5, types.StateTree, -1, "Mode: TREE FORM", true},
		{"carousel", types.StateCarousel, -1, types.StateCarousel, -1, "Mode: CAROUSEL GALLERY", false},
		{"chaos ignores index", types.StateChaos, 4, types.StateChaos, -1, "Mode: CHAOS MOTION", false},
		{"focus valid", types.StateFocus, 3, types.StateFocus, 3, "Mode: FOCUS MEMORY", false},
		{"focus without index", types.StateFocus, -1, types.StateCarousel, -1, "Mode: CAROUSEL GALLERY", false},
		{"focus out of range", types.StateFocus, 12, types.StateCarousel, -1, "Mode: CAROUSEL GALLERY", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sink := newTestController(t, testSceneConfig())
			c.TransitionTo(types.StateChaos, -1, false)

			c.TransitionTo(tt.state, tt.index, false)
			if c.CurrentState() != tt.wantState {
				t.Errorf("状态 = %s, 期望 %s", c.CurrentState(), tt.wantState)
			}
			if c.FocusIndex() != tt.wantFocus {
				t.Errorf("FocusIndex = %d, 期望 %d", c.FocusIndex(), tt.wantFocus)
			}
			if sink.lastLabel() != tt.wantLabel {
				t.Errorf("状态栏 = %q, 期望 %q", sink.lastLabel(), tt.wantLabel)
			}
			if c.AutoRotate() != tt.wantAuto {
				t.Errorf("AutoRotate = %v, 期望 %v", c.AutoRotate(), tt.wantAuto)
			}
			if got := sink.autoRotate[len(sink.autoRotate)-1]; got != tt.wantAuto {
				t.Errorf("通知的自动旋转 = %v, 期望 %v", got, tt.wantAuto)
			}
		})
	}
}

// TestFocusRedirectKeepsFast 无效 FOCUS 改为 CAROUSEL 时保留 fast 时长
func TestFocusRedirectKeepsFast(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())
	runFor(c, 2)

	c.TransitionTo(types.StateFocus, -1, true)
	// fast 配置下位置补间 250ms
	runFor(c, 0.3)
	if c.ActiveTweens() != 0 {
		t.Errorf("fast 切换 300ms 后仍有 %d 个补间", c.ActiveTweens())
	}
}

// TestCarouselPhotosReachTargets 补间结束后照片到达 CAROUSEL 目标
func TestCarouselPhotosReachTargets(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())
	c.TransitionTo(types.StateCarousel, -1, false)
	runFor(c, 1.6)

	if c.ActiveTweens() != 0 {
		t.Fatalf("1.6s 后仍有 %d 个补间", c.ActiveTweens())
	}
	targets := c.Layouts().Get(types.StateCarousel).Photos
	for i, id := range c.Photos() {
		transform := transformOf(t, c, id)
		if transform.Position.Sub(targets[i].Position).Len() > 1e-9 {
			t.Errorf("照片 %d 位置 = %v, 期望 %v", i, transform.Position, targets[i].Position)
		}
		wantScale := mgl64.Vec3{52, 52, 1}
		if transform.Scale.Sub(wantScale).Len() > 1e-9 {
			t.Errorf("照片 %d 缩放 = %v, 期望 %v", i, transform.Scale, wantScale)
		}
	}

	accent := transformOf(t, c, c.Accent())
	if accent.Position != (mgl64.Vec3{0, 800, 0}) || accent.Scale != (mgl64.Vec3{0.1, 0.1, 0.1}) {
		t.Errorf("星星 = %v / %v", accent.Position, accent.Scale)
	}
}

// TestReentrantTransition 中途再次切换从当前值出发，不等待旧补间
func TestReentrantTransition(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())
	runFor(c, 2)

	c.TransitionTo(types.StateChaos, -1, false)
	runFor(c, 0.5)
	mid := transformOf(t, c, c.Photos()[0]).Position

	c.TransitionTo(types.StateCarousel, -1, false)
	if got := transformOf(t, c, c.Photos()[0]).Position; got != mid {
		t.Errorf("切换瞬间位置跳变: %v -> %v", mid, got)
	}
	runFor(c, 1.6)

	want := c.Layouts().Get(types.StateCarousel).Photos[0].Position
	if got := transformOf(t, c, c.Photos()[0]).Position; got.Sub(want).Len() > 1e-9 {
		t.Errorf("最终位置 = %v, 期望 %v", got, want)
	}
}

// TestTreeResetsRotations 进入 TREE 时场景根与照片组旋转归零
func TestTreeResetsRotations(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())
	runFor(c, 1.1)
	c.TransitionTo(types.StateCarousel, -1, false)
	c.SetHandActive(true)
	for i := 0; i < 30; i++ {
		c.FollowHand(0.9, 0.2)
		c.Update(1.0 / 60)
	}
	c.SetHandActive(false)
	runFor(c, 0.5)

	em := c.EntityManager()
	group, _ := ecs.GetComponent[*components.NodeComponent](em, c.photoGroup)
	scene, _ := ecs.GetComponent[*components.NodeComponent](em, c.sceneRoot)
	if group.Rotation[1] == 0 || scene.Rotation[1] == 0 {
		t.Fatal("前置条件：旋转应非零")
	}

	c.TransitionTo(types.StateTree, -1, false)
	runFor(c, 1.1)
	if group.Rotation != (mgl64.Vec3{}) {
		t.Errorf("照片组旋转 = %v, 期望 0", group.Rotation)
	}
	if scene.Rotation != (mgl64.Vec3{}) {
		t.Errorf("场景根旋转 = %v, 期望 0", scene.Rotation)
	}
}

// TestFocusPlacesPhotoInFrontOfCamera 聚焦照片停在相机前方 200 处
func TestFocusPlacesPhotoInFrontOfCamera(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())
	c.TransitionTo(types.StateCarousel, -1, false)
	runFor(c, 1)

	c.TransitionTo(types.StateFocus, 3, false)
	runFor(c, 1.6)

	camera := c.Camera().Position()
	world := systems.WorldPosition(c.EntityManager(), c.Photos()[3])
	if d := world.Sub(camera).Len(); math.Abs(d-200) > 1e-6 {
		t.Errorf("聚焦照片距相机 %v, 期望 200", d)
	}
	focused := transformOf(t, c, c.Photos()[3])
	if focused.Scale.Sub(mgl64.Vec3{208, 208, 4}).Len() > 1e-9 {
		t.Errorf("聚焦照片缩放 = %v, 期望 (208,208,4)", focused.Scale)
	}
	for i, id := range c.Photos() {
		if i == 3 {
			continue
		}
		if s := transformOf(t, c, id).Scale[2]; math.Abs(s-0.1) > 1e-9 {
			t.Errorf("照片 %d 倍数 = %v, 期望 0.1", i, s)
		}
	}
}

// TestNearestPhotoIndex 最近照片查询返回真实最小距离的索引
func TestNearestPhotoIndex(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())
	runFor(c, 2)

	rng := rand.New(rand.NewPCG(3, 4))
	for trial := 0; trial < 20; trial++ {
		camera := mgl64.Vec3{
			(rng.Float64() - 0.5) * 1000,
			(rng.Float64() - 0.5) * 1000,
			(rng.Float64() - 0.5) * 1000,
		}
		got := c.NearestPhotoIndex(camera)
		if got < 0 {
			t.Fatal("有照片时不应返回 -1")
		}
		best := systems.WorldPosition(c.EntityManager(), c.Photos()[got]).Sub(camera).Len()
		for j, id := range c.Photos() {
			if d := systems.WorldPosition(c.EntityManager(), id).Sub(camera).Len(); d < best {
				t.Errorf("照片 %d 距离 %v 小于结果 %d 的 %v", j, d, got, best)
			}
		}
	}
}

// TestNearestPhotoIndexAccountsForGroup 查询使用世界坐标（包含照片组旋转）
func TestNearestPhotoIndexAccountsForGroup(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())
	em := c.EntityManager()
	for i, id := range c.Photos() {
		transformOf(t, c, id).Position = mgl64.Vec3{float64(i+1) * 100, 0, 0}
	}
	group, _ := ecs.GetComponent[*components.NodeComponent](em, c.photoGroup)
	group.Rotation = mgl64.Vec3{0, math.Pi / 2, 0}

	// 照片组绕 Y 转 90° 后 +X 变为 -Z
	if got := c.NearestPhotoIndex(mgl64.Vec3{0, 0, -310}); got != 2 {
		t.Errorf("NearestPhotoIndex = %d, 期望 2", got)
	}
}

// TestNearestPhotoIndexEmpty 没有照片时返回 -1
func TestNearestPhotoIndexEmpty(t *testing.T) {
	cfg := testSceneConfig()
	cfg.Counts.Photos = 0
	c, _ := newTestController(t, cfg)

	if got := c.NearestPhotoToCamera(); got != -1 {
		t.Errorf("NearestPhotoToCamera = %d, 期望 -1", got)
	}
	c.TransitionTo(types.StateFocus, 0, false)
	if c.CurrentState() != types.StateCarousel {
		t.Errorf("没有照片时 FOCUS 应改为 CAROUSEL, got %s", c.CurrentState())
	}
}

// TestMorphDistanceDecreases 收敛过程中与目标的距离严格递减
func TestMorphDistanceDecreases(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())
	c.TransitionTo(types.StateChaos, -1, false)
	target := c.Layouts().Swarm(types.StateChaos).Points

	distance := func() float64 {
		sum := 0.0
		for i, v := range c.Swarm().Points() {
			d := target[i] - v
			sum += d * d
		}
		return math.Sqrt(sum)
	}

	prev := distance()
	for i := 0; i < 400; i++ {
		c.Update(1.0 / 60)
		d := distance()
		if d >= prev {
			t.Fatalf("第 %d 帧距离未减小: %v -> %v", i, prev, d)
		}
		prev = d
	}
	if prev > 1 {
		t.Errorf("400 帧后距离 = %v, 期望接近 0", prev)
	}
}

// TestFocusUsesTreeSwarm FOCUS 下粒子收敛到 TREE 目标
func TestFocusUsesTreeSwarm(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())
	c.TransitionTo(types.StateFocus, 1, false)
	c.SetMorphSpeed(1)
	c.Update(1.0 / 60)

	tree := c.Layouts().Get(types.StateTree).Points
	for i, v := range c.Swarm().Points() {
		if v != tree[i] {
			t.Fatalf("分量 %d = %v, 期望 TREE 目标 %v", i, v, tree[i])
		}
	}
}

// TestSetMorphSpeed 非正数被忽略，重置回默认值
func TestSetMorphSpeed(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())

	c.SetMorphSpeed(0.2)
	if c.MorphSpeed() != 0.2 {
		t.Errorf("MorphSpeed = %v, 期望 0.2", c.MorphSpeed())
	}
	for _, bad := range []float64{0, -1, math.NaN()} {
		c.SetMorphSpeed(bad)
		if c.MorphSpeed() != 0.2 {
			t.Errorf("SetMorphSpeed(%v) 不应生效, MorphSpeed = %v", bad, c.MorphSpeed())
		}
	}
	c.SetMorphSpeed(5)
	if c.MorphSpeed() != 1 {
		t.Errorf("MorphSpeed = %v, 期望限制为 1", c.MorphSpeed())
	}
	c.ResetMorphSpeed()
	if c.MorphSpeed() != 0.03 {
		t.Errorf("ResetMorphSpeed 后 = %v, 期望 0.03", c.MorphSpeed())
	}
}

// TestSetPhotoAspectInCarousel 画廊中上传 0.75 宽高比的图片
func TestSetPhotoAspectInCarousel(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())
	c.TransitionTo(types.StateCarousel, -1, false)

	if err := c.SetPhotoAspect(2, 0.75); err != nil {
		t.Fatalf("SetPhotoAspect 失败: %v", err)
	}

	id := c.Photos()[2]
	photo, _ := ecs.GetComponent[*components.PhotoComponent](c.EntityManager(), id)
	if photo.BaseWidth != 39 || photo.BaseHeight != 52 {
		t.Errorf("基础尺寸 = %vx%v, 期望 39x52", photo.BaseWidth, photo.BaseHeight)
	}
	if !photo.HasImage {
		t.Error("HasImage 应为 true")
	}
	if got := transformOf(t, c, id).Scale; got != (mgl64.Vec3{39, 52, 1}) {
		t.Errorf("缩放 = %v, 期望 (39,52,1)", got)
	}

	// 进行中的缩放补间已取消，不会覆盖新尺寸
	runFor(c, 2)
	if got := transformOf(t, c, id).Scale; got != (mgl64.Vec3{39, 52, 1}) {
		t.Errorf("补间后缩放 = %v, 期望保持 (39,52,1)", got)
	}
}

// TestSetPhotoAspectMultipliers 各状态下上传的缩放倍数
func TestSetPhotoAspectMultipliers(t *testing.T) {
	tests := []struct {
		state    types.State
		min, max float64
	}{
		{types.StateTree, 0.5, 0.5},
		{types.StateCarousel, 1.0, 1.0},
		{types.StateChaos, 0.5, 1.5},
		{types.StateFocus, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			c, _ := newTestController(t, testSceneConfig())
			c.TransitionTo(tt.state, 0, false)
			if err := c.SetPhotoAspect(1, 2.0); err != nil {
				t.Fatal(err)
			}
			m := transformOf(t, c, c.Photos()[1]).Scale[2]
			if m < tt.min || m > tt.max {
				t.Errorf("倍数 = %v, 期望在 [%v, %v]", m, tt.min, tt.max)
			}
		})
	}
}

// TestSetPhotoAspectErrors 测试参数校验
func TestSetPhotoAspectErrors(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())

	tests := []struct {
		name   string
		index  int
		aspect float64
		want   error
	}{
		{"negative index", -1, 1, ErrPhotoIndexOutOfRange},
		{"index too large", 12, 1, ErrPhotoIndexOutOfRange},
		{"zero aspect", 0, 0, ErrInvalidAspect},
		{"nan aspect", 0, math.NaN(), ErrInvalidAspect},
		{"inf aspect", 0, math.Inf(1), ErrInvalidAspect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.SetPhotoAspect(tt.index, tt.aspect)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, 期望 %v", err, tt.want)
			}
		})
	}
}

// TestRecomputeLayouts 重新计算得到不同的随机散布
func TestRecomputeLayouts(t *testing.T) {
	c, _ := newTestController(t, testSceneConfig())
	before := c.Layouts().Get(types.StateChaos).Points[0]
	c.RecomputeLayouts()
	after := c.Layouts().Get(types.StateChaos).Points[0]
	if before == after {
		t.Error("重新计算后混沌布局应不同")
	}
}
