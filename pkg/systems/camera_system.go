package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/components"
	"github.com/gonewx/phototree/pkg/config"
	"github.com/gonewx/phototree/pkg/ecs"
)

// ReferenceFrameRate 逐帧常量（自转角度、自动旋转速度）对应的参考帧率
const ReferenceFrameRate = 60.0

// CameraSystem 轨道相机
// 负责相机绕注视点的自动旋转，并提供视图/投影矩阵给渲染层。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	cameraEntity  ecs.EntityID // 相机实体ID
}

// NewCameraSystem 根据配置创建相机实体
// 初始位置换算为相对注视点的球坐标
func NewCameraSystem(em *ecs.EntityManager, cfg config.CameraConfig) *CameraSystem {
	cs := &CameraSystem{entityManager: em}

	target := mgl64.Vec3{cfg.Target[0], cfg.Target[1], cfg.Target[2]}
	offset := mgl64.Vec3{cfg.Position[0], cfg.Position[1], cfg.Position[2]}.Sub(target)
	radius := offset.Len()
	polar := math.Pi / 2
	if radius > 0 {
		polar = math.Acos(math.Max(-1, math.Min(1, offset[1]/radius)))
	}

	cs.cameraEntity = em.CreateEntity()
	ecs.AddComponent(em, cs.cameraEntity, &components.CameraComponent{
		Target:          target,
		Radius:          radius,
		Azimuth:         math.Atan2(offset[0], offset[2]),
		Polar:           polar,
		FOV:             cfg.FOV,
		Near:            cfg.Near,
		Far:             cfg.Far,
		AutoRotate:      true,
		AutoRotateSpeed: cfg.AutoRotateSpeed,
	})
	return cs
}

func (cs *CameraSystem) camera() *components.CameraComponent {
	cam, _ := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	return cam
}

// Update 自动旋转开启时按 2π/60/60 × speed（每参考帧）减小方位角
func (cs *CameraSystem) Update(dt float64) {
	cam := cs.camera()
	if cam == nil || !cam.AutoRotate {
		return
	}
	step := 2 * math.Pi / 60 / 60 * cam.AutoRotateSpeed
	cam.Azimuth -= step * dt * ReferenceFrameRate
}

// SetAutoRotate 开关自动旋转
func (cs *CameraSystem) SetAutoRotate(on bool) {
	if cam := cs.camera(); cam != nil {
		cam.AutoRotate = on
	}
}

// AutoRotate 返回自动旋转是否开启
func (cs *CameraSystem) AutoRotate() bool {
	cam := cs.camera()
	return cam != nil && cam.AutoRotate
}

// Position 返回相机世界坐标
func (cs *CameraSystem) Position() mgl64.Vec3 {
	cam := cs.camera()
	if cam == nil {
		return mgl64.Vec3{}
	}
	sinPolar := math.Sin(cam.Polar)
	return cam.Target.Add(mgl64.Vec3{
		cam.Radius * sinPolar * math.Sin(cam.Azimuth),
		cam.Radius * math.Cos(cam.Polar),
		cam.Radius * sinPolar * math.Cos(cam.Azimuth),
	})
}

// Forward 返回相机的世界朝向（单位向量）
func (cs *CameraSystem) Forward() mgl64.Vec3 {
	cam := cs.camera()
	if cam == nil {
		return mgl64.Vec3{0, 0, -1}
	}
	dir := cam.Target.Sub(cs.Position())
	if dir.Len() < 1e-9 {
		return mgl64.Vec3{0, 0, -1}
	}
	return dir.Normalize()
}

// Up 返回相机的上方向
func (cs *CameraSystem) Up() mgl64.Vec3 {
	return mgl64.Vec3{0, 1, 0}
}

// View 返回视图矩阵
func (cs *CameraSystem) View() mgl64.Mat4 {
	cam := cs.camera()
	if cam == nil {
		return mgl64.Ident4()
	}
	return mgl64.LookAtV(cs.Position(), cam.Target, cs.Up())
}

// Projection 返回透视投影矩阵
func (cs *CameraSystem) Projection(aspect float64) mgl64.Mat4 {
	cam := cs.camera()
	if cam == nil || aspect <= 0 {
		return mgl64.Ident4()
	}
	return mgl64.Perspective(mgl64.DegToRad(cam.FOV), aspect, cam.Near, cam.Far)
}
