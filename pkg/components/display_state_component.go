package components

import "github.com/gonewx/phototree/pkg/types"

// DisplayStateComponent 当前展示状态（挂在场景根实体上的单例）
//
// 由状态机写入，旋转系统等每帧读取。
type DisplayStateComponent struct {
	State types.State

	// FocusIndex 被聚焦照片索引，非 FOCUS 时为 -1
	FocusIndex int

	// HandActive 最近一次手势检测是否看到手
	HandActive bool
}
