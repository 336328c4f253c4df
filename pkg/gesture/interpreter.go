package gesture

import (
	"log"
	"time"

	"github.com/gonewx/phototree/pkg/config"
	"github.com/gonewx/phototree/pkg/types"
)

// Engine 手势策略驱动的展示状态机
// game.Controller 实现该接口
type Engine interface {
	TransitionTo(state types.State, focusIndex int, fast bool)
	CurrentState() types.State
	NearestPhotoToCamera() int
	SetHandActive(active bool)
	SetAutoRotate(on bool)
	SetMorphSpeed(speed float64)
	ResetMorphSpeed()
	FollowHand(handX, handY float64)
}

// Interpreter 手势触发策略
//
// 时间使用单调递增的 time.Duration（从启动开始计），由调用方传入，
// 便于测试使用手动时钟。
type Interpreter struct {
	engine Engine
	cfg    config.GestureConfig
	morph  config.MorphConfig

	// lastAction 最近一次手势触发切换的时间
	lastAction    time.Duration
	hasLastAction bool

	// handSeen 上一帧是否有手
	handSeen bool

	// restoreAt 收敛速度恢复的截止时间，可被重新设定
	restoreAt      time.Duration
	restorePending bool
}

// NewInterpreter 创建手势策略
func NewInterpreter(engine Engine, cfg *config.SceneConfig) *Interpreter {
	return &Interpreter{
		engine: engine,
		cfg:    cfg.Gesture,
		morph:  cfg.Morph,
	}
}

// Handle 处理一帧手势信号
func (in *Interpreter) Handle(now time.Duration, sig Signal) {
	if !sig.Present {
		in.handleNoHand(now)
		return
	}
	in.handSeen = true

	// 有手时恢复默认速度，取消待执行的恢复
	in.engine.ResetMorphSpeed()
	in.restorePending = false
	in.engine.SetHandActive(true)
	in.engine.SetAutoRotate(false)

	in.engine.FollowHand(sig.HandX, sig.HandY)

	state := in.engine.CurrentState()
	if state == types.StateFocus {
		switch {
		case sig.OpenCount >= in.cfg.OpenHandMin:
			in.act(now, types.StateCarousel, -1, "张开手退出聚焦")
		case sig.OpenCount <= in.cfg.ClosedHandMax:
			in.act(now, types.StateTree, -1, "握拳退出聚焦")
		}
		return
	}

	switch {
	case sig.Victory():
		if state != types.StateChaos {
			in.act(now, types.StateChaos, -1, "剪刀手")
		}
	case sig.OpenCount <= in.cfg.ClosedHandMax:
		if state != types.StateTree {
			in.act(now, types.StateTree, -1, "握拳")
		}
	case sig.OpenCount >= in.cfg.OpenHandMin:
		if state != types.StateCarousel {
			in.act(now, types.StateCarousel, -1, "张开手")
		}
	case sig.Pinch:
		if state != types.StateCarousel && state != types.StateChaos {
			return
		}
		if in.hasLastAction && now-in.lastAction < in.cfg.PinchCooldown {
			return
		}
		if idx := in.engine.NearestPhotoToCamera(); idx != -1 {
			in.act(now, types.StateFocus, idx, "捏合")
		}
	}
}

// act 在防抖窗口外执行一次切换并记录时间
func (in *Interpreter) act(now time.Duration, state types.State, focusIndex int, reason string) {
	if in.hasLastAction && now-in.lastAction < in.cfg.ActionDebounce {
		return
	}
	log.Printf("[GestureInterpreter] %s -> %s (focus=%d)", reason, state, focusIndex)
	in.engine.TransitionTo(state, focusIndex, false)
	in.lastAction = now
	in.hasLastAction = true
}

// handleNoHand 没有手：快速回到 TREE 并短暂加速收敛
// 只在手刚消失，或状态不是 TREE 时执行，避免每帧重复启动补间
func (in *Interpreter) handleNoHand(now time.Duration) {
	wasSeen := in.handSeen
	in.handSeen = false
	in.engine.SetHandActive(false)

	if !wasSeen && in.engine.CurrentState() == types.StateTree {
		return
	}

	in.engine.SetMorphSpeed(in.morph.BoostSpeed)
	// TREE 切换会重新开启自动旋转
	in.engine.TransitionTo(types.StateTree, -1, true)
	in.restoreAt = now + in.morph.BoostHold
	in.restorePending = true
	if wasSeen {
		log.Printf("[GestureInterpreter] 手离开画面，快速回到 tree")
	}
}

// Tick 每帧调用，到期时恢复默认收敛速度
func (in *Interpreter) Tick(now time.Duration) {
	if in.restorePending && now >= in.restoreAt {
		in.engine.ResetMorphSpeed()
		in.restorePending = false
	}
}

// RestorePending 报告是否有待执行的收敛速度恢复
func (in *Interpreter) RestorePending() bool {
	return in.restorePending
}
