package components

import "github.com/go-gl/mathgl/mgl64"

// CameraComponent 绕目标点旋转的透视相机
//
// 位置以相对目标点的球坐标保存，自动旋转时只改变方位角，
// 与 OrbitControls 的行为一致。
type CameraComponent struct {
	// Target 注视点（世界坐标）
	Target mgl64.Vec3

	// Radius 相机到注视点的距离
	Radius float64

	// Azimuth 方位角（弧度），0 表示相机在 +Z 方向
	Azimuth float64

	// Polar 极角（弧度），从 +Y 量起
	Polar float64

	// FOV 垂直视场角（度）
	FOV float64

	Near float64
	Far  float64

	// AutoRotate 是否自动绕 Y 轴旋转
	AutoRotate bool

	// AutoRotateSpeed 自动旋转速度，2.0 表示 60fps 下约 30 秒转一圈
	AutoRotateSpeed float64
}
