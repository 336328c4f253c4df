// Package input 把键盘和鼠标映射为手势检测结果，用于没有摄像头时操作查看器。
package input

import (
	"time"

	"github.com/gonewx/phototree/pkg/gesture"
	"github.com/hajimehoshi/ebiten/v2"
)

// PoseKeys 按住即保持对应姿态的按键，按优先级排列
var PoseKeys = []struct {
	Key  ebiten.Key
	Pose gesture.Pose
}{
	{ebiten.KeyZ, gesture.PoseFist},
	{ebiten.KeyX, gesture.PoseOpenPalm},
	{ebiten.KeyV, gesture.PoseVictory},
	{ebiten.KeyP, gesture.PosePinch},
}

// PoseFromKeys 返回按住的第一个姿态键对应的姿态，没有按键时为中性姿态
func PoseFromKeys(pressed func(ebiten.Key) bool) gesture.Pose {
	for _, pk := range PoseKeys {
		if pressed(pk.Key) {
			return pk.Pose
		}
	}
	return gesture.PoseNeutral
}

// WristFromCursor 将光标位置换算为归一化的手腕坐标
// 摄像头画面是镜像的，所以 x 取反：光标在右侧 = 手在画面左侧
func WristFromCursor(x, y, width, height int) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 0.5, 0.5
	}
	nx := 1 - clamp01(float64(x)/float64(width))
	ny := clamp01(float64(y) / float64(height))
	return nx, ny
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SimulatedHand 鼠标 + 键盘模拟的手部检测器
//
// 关闭时报告检测器未运行（不是"没有手"）；开启后在第一次 Update 之前报告未就绪。
type SimulatedHand struct {
	enabled bool
	ready   bool
	frame   gesture.HandFrame
	pose    gesture.Pose
}

// NewSimulatedHand 创建模拟检测器
func NewSimulatedHand(enabled bool) *SimulatedHand {
	return &SimulatedHand{enabled: enabled}
}

// SetEnabled 开关模拟手
func (s *SimulatedHand) SetEnabled(on bool) {
	s.enabled = on
	s.ready = false
}

// Enabled 报告模拟手是否开启
func (s *SimulatedHand) Enabled() bool {
	return s.enabled
}

// Update 每帧读取光标与按键，生成当前帧的关键点
func (s *SimulatedHand) Update(screenWidth, screenHeight int) {
	if !s.enabled {
		return
	}
	cx, cy := ebiten.CursorPosition()
	s.pose = PoseFromKeys(ebiten.IsKeyPressed)
	s.Set(WristFromCursor(cx, cy, screenWidth, screenHeight))
}

// Set 直接设置手腕位置（测试与脚本使用）
func (s *SimulatedHand) Set(wristX, wristY float64) {
	s.frame = gesture.SynthesizeHand(wristX, wristY, s.pose)
	s.ready = true
}

// SetPose 直接设置姿态
func (s *SimulatedHand) SetPose(pose gesture.Pose) {
	s.pose = pose
	if s.ready {
		s.frame = gesture.SynthesizeHand(s.wristX(), s.wristY(), pose)
	}
}

// Pose 返回当前姿态
func (s *SimulatedHand) Pose() gesture.Pose {
	return s.pose
}

func (s *SimulatedHand) wristX() float64 { return s.frame.Landmarks[gesture.Wrist].X }
func (s *SimulatedHand) wristY() float64 { return s.frame.Landmarks[gesture.Wrist].Y }

// Detect 实现 gesture.Detector
func (s *SimulatedHand) Detect(now time.Duration) (gesture.HandFrame, error) {
	if !s.enabled {
		return gesture.HandFrame{}, gesture.ErrDetectorStopped
	}
	if !s.ready {
		return gesture.HandFrame{}, gesture.ErrDetectorNotReady
	}
	return s.frame, nil
}

// Frame 返回最近一帧（用于界面绘制）
func (s *SimulatedHand) Frame() gesture.HandFrame {
	if !s.enabled || !s.ready {
		return gesture.NoHand()
	}
	return s.frame
}
