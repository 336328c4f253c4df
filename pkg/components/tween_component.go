package components

import (
	"github.com/gonewx/phototree/pkg/ecs"
	"github.com/gonewx/phototree/pkg/utils"
)

// TweenProperty 补间作用的属性
type TweenProperty int

const (
	TweenPosition TweenProperty = iota
	TweenRotation
	TweenScale
	// TweenNodeRotation 节点欧拉角
	TweenNodeRotation
)

// String 返回属性名（日志用）
func (p TweenProperty) String() string {
	switch p {
	case TweenPosition:
		return "position"
	case TweenRotation:
		return "rotation"
	case TweenScale:
		return "scale"
	case TweenNodeRotation:
		return "nodeRotation"
	default:
		return "unknown"
	}
}

// TweenKey 补间的键：同一对象的同一属性只保留最新的补间
type TweenKey struct {
	Target   ecs.EntityID
	Property TweenProperty
}

// TweenComponent 一次进行中的补间
//
// 起始值在开始时由调用方捕获进 Apply 闭包，
// 每帧以缓动后的进度调用 Apply，进度到 1 后实体被删除。
type TweenComponent struct {
	Key TweenKey

	// Elapsed 已经过时间（秒）
	Elapsed float64

	// Duration 总时长（秒），<= 0 表示下一次更新直接写入终值
	Duration float64

	Easing utils.EasingFunc

	// Apply 写入插值结果，参数为缓动后的进度
	Apply func(progress float64)
}
