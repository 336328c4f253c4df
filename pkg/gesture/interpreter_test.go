package gesture

import (
	"testing"
	"time"

	"github.com/gonewx/phototree/pkg/config"
	"github.com/gonewx/phototree/pkg/types"
)

type transition struct {
	state types.State
	focus int
	fast  bool
}

// fakeEngine 记录策略对状态机的调用
type fakeEngine struct {
	state       types.State
	nearest     int
	transitions []transition
	handActive  bool
	autoRotate  bool
	morphSpeed  float64
	follows     int
}

func newFakeEngine(state types.State) *fakeEngine {
	return &fakeEngine{state: state, nearest: -1, morphSpeed: 0.03, autoRotate: true}
}

func (f *fakeEngine) TransitionTo(state types.State, focusIndex int, fast bool) {
	f.state = state
	f.transitions = append(f.transitions, transition{state, focusIndex, fast})
	f.autoRotate = state == types.StateTree
}
func (f *fakeEngine) CurrentState() types.State       { return f.state }
func (f *fakeEngine) NearestPhotoToCamera() int       { return f.nearest }
func (f *fakeEngine) SetHandActive(active bool)       { f.handActive = active }
func (f *fakeEngine) SetAutoRotate(on bool)           { f.autoRotate = on }
func (f *fakeEngine) SetMorphSpeed(speed float64)     { f.morphSpeed = speed }
func (f *fakeEngine) ResetMorphSpeed()                { f.morphSpeed = 0.03 }
func (f *fakeEngine) FollowHand(handX, handY float64) { f.follows++ }

func (f *fakeEngine) last() (transition, bool) {
	if len(f.transitions) == 0 {
		return transition{}, false
	}
	return f.transitions[len(f.transitions)-1], true
}

type interpreterFixture struct {
	engine      *fakeEngine
	interpreter *Interpreter
	classifier  *Classifier
}

func newInterpreterFixture(state types.State) *interpreterFixture {
	cfg := config.DefaultSceneConfig()
	engine := newFakeEngine(state)
	return &interpreterFixture{
		engine:      engine,
		interpreter: NewInterpreter(engine, cfg),
		classifier:  NewClassifier(cfg.Gesture),
	}
}

func (f *interpreterFixture) hand(now time.Duration, pose Pose) {
	f.interpreter.Handle(now, f.classifier.Classify(SynthesizeHand(0.5, 0.6, pose)))
}

func (f *interpreterFixture) noHand(now time.Duration) {
	f.interpreter.Handle(now, f.classifier.Classify(NoHand()))
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// TestPoseTransitions 单个手势在各状态下触发的切换
func TestPoseTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    types.State
		pose    Pose
		nearest int
		want    *transition
	}{
		{"剪刀手进入混沌", types.StateTree, PoseVictory, -1, &transition{types.StateChaos, -1, false}},
		{"已在混沌不重复切换", types.StateChaos, PoseVictory, -1, nil},
		{"握拳回到树形", types.StateCarousel, PoseFist, -1, &transition{types.StateTree, -1, false}},
		{"已在树形握拳无动作", types.StateTree, PoseFist, -1, nil},
		{"张开手进入画廊", types.StateTree, PoseOpenPalm, -1, &transition{types.StateCarousel, -1, false}},
		{"混沌中捏合聚焦最近照片", types.StateChaos, PosePinch, 3, &transition{types.StateFocus, 3, false}},
		{"画廊中捏合聚焦最近照片", types.StateCarousel, PosePinch, 7, &transition{types.StateFocus, 7, false}},
		{"树形中捏合无动作", types.StateTree, PosePinch, 3, nil},
		{"没有可聚焦照片", types.StateChaos, PosePinch, -1, nil},
		{"中性手势无动作", types.StateCarousel, PoseNeutral, 3, nil},
		{"聚焦中张开手回到画廊", types.StateFocus, PoseOpenPalm, 3, &transition{types.StateCarousel, -1, false}},
		{"聚焦中握拳回到树形", types.StateFocus, PoseFist, 3, &transition{types.StateTree, -1, false}},
		{"聚焦中剪刀手无动作", types.StateFocus, PoseVictory, 3, nil},
		{"聚焦中捏合无动作", types.StateFocus, PosePinch, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInterpreterFixture(tt.from)
			f.engine.nearest = tt.nearest
			f.hand(ms(1000), tt.pose)

			got, ok := f.engine.last()
			if tt.want == nil {
				if ok {
					t.Errorf("期望无切换, 实际 %+v", got)
				}
				return
			}
			if !ok {
				t.Fatalf("期望切换到 %+v, 实际无切换", *tt.want)
			}
			if got != *tt.want {
				t.Errorf("切换 = %+v, 期望 %+v", got, *tt.want)
			}
		})
	}
}

// TestHandPresentSideEffects 有手时关闭自动旋转并跟随手
func TestHandPresentSideEffects(t *testing.T) {
	f := newInterpreterFixture(types.StateTree)
	f.engine.morphSpeed = 0.2
	f.hand(0, PoseNeutral)

	if !f.engine.handActive {
		t.Error("期望 handActive = true")
	}
	if f.engine.autoRotate {
		t.Error("有手时应关闭自动旋转")
	}
	if f.engine.follows != 1 {
		t.Errorf("FollowHand 调用 %d 次, 期望 1", f.engine.follows)
	}
	if f.engine.morphSpeed != 0.03 {
		t.Errorf("收敛速度 = %v, 期望恢复为 0.03", f.engine.morphSpeed)
	}
}

// TestNoHandReturnsToTree 没有手时快速回到树形并短暂加速收敛
func TestNoHandReturnsToTree(t *testing.T) {
	f := newInterpreterFixture(types.StateCarousel)
	f.noHand(ms(1000))

	got, ok := f.engine.last()
	if !ok || got != (transition{types.StateTree, -1, true}) {
		t.Fatalf("切换 = %+v, 期望快速回到 tree", got)
	}
	if !f.engine.autoRotate {
		t.Error("回到树形后应开启自动旋转")
	}
	if f.engine.handActive {
		t.Error("期望 handActive = false")
	}
	if f.engine.morphSpeed != 0.2 {
		t.Errorf("收敛速度 = %v, 期望 0.2", f.engine.morphSpeed)
	}

	f.interpreter.Tick(ms(1299))
	if f.engine.morphSpeed != 0.2 {
		t.Errorf("恢复前收敛速度 = %v, 期望 0.2", f.engine.morphSpeed)
	}
	f.interpreter.Tick(ms(1300))
	if f.engine.morphSpeed != 0.03 {
		t.Errorf("恢复后收敛速度 = %v, 期望 0.03", f.engine.morphSpeed)
	}
	if f.interpreter.RestorePending() {
		t.Error("恢复后不应再有待执行的恢复")
	}
}

// TestNoHandIdleInTree 树形下持续无手不重复切换
func TestNoHandIdleInTree(t *testing.T) {
	f := newInterpreterFixture(types.StateTree)
	for i := 0; i < 10; i++ {
		f.noHand(ms(i * 20))
	}
	if len(f.engine.transitions) != 0 {
		t.Errorf("期望无切换, 实际 %d 次", len(f.engine.transitions))
	}

	// 手离开的那一帧即使在树形也要复位
	f.hand(ms(500), PoseNeutral)
	f.noHand(ms(520))
	f.noHand(ms(540))
	if len(f.engine.transitions) != 1 {
		t.Errorf("手离开后切换 %d 次, 期望 1", len(f.engine.transitions))
	}
}

// TestRestoreRearmed 手短暂出现会取消恢复，再次离开重新计时
func TestRestoreRearmed(t *testing.T) {
	f := newInterpreterFixture(types.StateCarousel)
	f.noHand(0)
	f.hand(ms(100), PoseNeutral)
	if f.interpreter.RestorePending() {
		t.Error("有手时应取消待执行的恢复")
	}
	f.noHand(ms(150))

	f.interpreter.Tick(ms(320))
	if f.engine.morphSpeed != 0.2 {
		t.Errorf("旧截止时间不应生效, 收敛速度 = %v", f.engine.morphSpeed)
	}
	f.interpreter.Tick(ms(450))
	if f.engine.morphSpeed != 0.03 {
		t.Errorf("新截止时间到期后收敛速度 = %v, 期望 0.03", f.engine.morphSpeed)
	}
}

// TestActionDebounce 两次手势切换至少间隔防抖时间
func TestActionDebounce(t *testing.T) {
	f := newInterpreterFixture(types.StateTree)
	f.hand(0, PoseOpenPalm)
	f.hand(ms(100), PoseFist)
	if f.engine.state != types.StateCarousel {
		t.Errorf("防抖期内状态 = %s, 期望 carousel", f.engine.state)
	}
	f.hand(ms(260), PoseFist)
	if f.engine.state != types.StateTree {
		t.Errorf("防抖期后状态 = %s, 期望 tree", f.engine.state)
	}
}

// TestPinchCooldown 捏合距上次切换至少间隔冷却时间
func TestPinchCooldown(t *testing.T) {
	f := newInterpreterFixture(types.StateTree)
	f.engine.nearest = 5
	f.hand(0, PoseVictory)
	if f.engine.state != types.StateChaos {
		t.Fatalf("状态 = %s, 期望 chaos", f.engine.state)
	}

	f.hand(ms(300), PosePinch)
	if f.engine.state != types.StateChaos {
		t.Errorf("冷却期内状态 = %s, 期望 chaos", f.engine.state)
	}
	f.hand(ms(399), PosePinch)
	if f.engine.state != types.StateChaos {
		t.Errorf("冷却结束前状态 = %s, 期望 chaos", f.engine.state)
	}
	f.hand(ms(400), PosePinch)
	got, _ := f.engine.last()
	if got != (transition{types.StateFocus, 5, false}) {
		t.Errorf("切换 = %+v, 期望聚焦 5", got)
	}
}
