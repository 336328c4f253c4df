// Package render 用 ebiten 把展示状态机的 3D 场景投影到屏幕。
//
// 粒子、丝带与星空按加法混合绘制为发光点，照片为带纹理的四边形，
// 按深度从远到近绘制。投影与配色是纯函数，不依赖 GPU，可直接测试。
package render

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ScreenPoint 投影后的屏幕坐标，Depth 为相机空间深度（越大越远）
type ScreenPoint struct {
	X, Y  float64
	Depth float64
}

// Projector 透视投影
type Projector struct {
	viewProj mgl64.Mat4
	focal    float64
	width    float64
	height   float64
	nearW    float64
}

// NewProjector 由相机的视图矩阵、投影矩阵和屏幕尺寸创建投影器
func NewProjector(view, projection mgl64.Mat4, width, height int) Projector {
	return Projector{
		viewProj: projection.Mul4(view),
		focal:    projection.At(1, 1),
		width:    float64(width),
		height:   float64(height),
		nearW:    1e-3,
	}
}

// Project 将世界坐标投影到屏幕，位于相机后方时返回 false
func (p Projector) Project(world mgl64.Vec3) (ScreenPoint, bool) {
	clip := p.viewProj.Mul4x1(world.Vec4(1))
	w := clip.W()
	if w <= p.nearW {
		return ScreenPoint{}, false
	}
	ndcX, ndcY := clip.X()/w, clip.Y()/w
	return ScreenPoint{
		X:     (ndcX + 1) / 2 * p.width,
		Y:     (1 - ndcY) / 2 * p.height,
		Depth: w,
	}, true
}

// PixelsPerUnit 深度 depth 处一个世界单位对应的像素数
func (p Projector) PixelsPerUnit(depth float64) float64 {
	if depth <= p.nearW {
		return 0
	}
	return p.focal * p.height / 2 / depth
}

// OnScreen 报告点是否在屏幕内（margin 像素的余量）
func (p Projector) OnScreen(sp ScreenPoint, margin float64) bool {
	return sp.X >= -margin && sp.X <= p.width+margin && sp.Y >= -margin && sp.Y <= p.height+margin
}
