// Package gesture 将手部关键点分类为手势信号，并按策略驱动展示状态切换。
//
// 关键点采用 21 点手部模型（0 为手腕，4/8/12/16/20 为五个指尖），
// 坐标为归一化图像坐标 [0, 1]。检测器本身是外部协作者，
// 这里只定义 Detector 接口与节流轮询。
package gesture

import "math"

// LandmarkCount 单只手的关键点数量
const LandmarkCount = 21

// 关键点索引
const (
	Wrist     = 0
	ThumbTip  = 4
	IndexPIP  = 6
	IndexTip  = 8
	MiddlePIP = 10
	MiddleTip = 12
	RingPIP   = 14
	RingTip   = 16
	PinkyPIP  = 18
	PinkyTip  = 20
)

// Landmark 单个关键点（归一化坐标）
type Landmark struct {
	X, Y, Z float64
}

// HandFrame 一帧检测结果，Landmarks 为空表示没有手
type HandFrame struct {
	Landmarks []Landmark
}

// NoHand 返回"没有手"的检测结果
func NoHand() HandFrame {
	return HandFrame{}
}

// HasHand 报告该帧是否包含完整的一只手
func (f HandFrame) HasHand() bool {
	return len(f.Landmarks) >= LandmarkCount
}

// dist 两个关键点在图像平面上的距离（忽略深度）
func (f HandFrame) dist(i, j int) float64 {
	a, b := f.Landmarks[i], f.Landmarks[j]
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
