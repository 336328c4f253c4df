// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import "fmt"

// State 定义展示模式（视觉布局状态）
// 同一时刻只有一个状态处于激活，只能通过 Controller.TransitionTo 修改
type State int

const (
	// StateTree 圣诞树形态（默认）
	StateTree State = iota
	// StateCarousel 环形画廊
	StateCarousel
	// StateChaos 混沌散布
	StateChaos
	// StateFocus 单张照片聚焦
	StateFocus
)

// AllStates 按声明顺序列出全部状态
var AllStates = []State{StateTree, StateCarousel, StateChaos, StateFocus}

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateTree:
		return "tree"
	case StateCarousel:
		return "carousel"
	case StateChaos:
		return "chaos"
	case StateFocus:
		return "focus"
	default:
		return "unknown"
	}
}

// Label 返回状态栏显示的模式文字
func (s State) Label() string {
	switch s {
	case StateTree:
		return "Mode: TREE FORM"
	case StateCarousel:
		return "Mode: CAROUSEL GALLERY"
	case StateChaos:
		return "Mode: CHAOS MOTION"
	case StateFocus:
		return "Mode: FOCUS MEMORY"
	default:
		return "Mode: UNKNOWN"
	}
}

// HasOwnSwarmLayout 报告该状态是否拥有独立的粒子/丝带目标
// FOCUS 复用 TREE 的粒子与丝带布局，只有照片目标不同
func (s State) HasOwnSwarmLayout() bool {
	return s == StateTree || s == StateCarousel || s == StateChaos
}

// ParseState 将字符串解析为状态
func ParseState(name string) (State, error) {
	for _, s := range AllStates {
		if s.String() == name {
			return s, nil
		}
	}
	return StateTree, fmt.Errorf("unknown display state %q", name)
}
