package systems

import (
	"github.com/gonewx/phototree/pkg/components"
	"github.com/gonewx/phototree/pkg/config"
	"github.com/gonewx/phototree/pkg/ecs"
	"github.com/gonewx/phototree/pkg/types"
	"github.com/gonewx/phototree/pkg/utils"
)

// RotationSystem 场景根与照片组的旋转
//
// 每帧：
//   - 无手：CAROUSEL / CHAOS 下照片组绕 Y 轴自转
//   - 有手：照片组跟随场景根旋转（CAROUSEL 下 X 固定为 0）
//   - FOCUS：被聚焦的照片始终正面朝向相机
//
// 手势驱动的场景根旋转由 FollowHand 在每次检测到手时调用。
type RotationSystem struct {
	entityManager *ecs.EntityManager
	camera        *CameraSystem
	spin          config.SpinConfig
	gesture       config.GestureConfig

	sceneRoot  ecs.EntityID
	photoGroup ecs.EntityID
	photos     []ecs.EntityID
}

// NewRotationSystem 创建旋转系统
//
// 参数:
//   - sceneRoot: 挂有 NodeComponent 与 DisplayStateComponent 的场景根
//   - photoGroup: 照片组节点
//   - photos: 按索引排列的照片实体
func NewRotationSystem(em *ecs.EntityManager, camera *CameraSystem, cfg *config.SceneConfig,
	sceneRoot, photoGroup ecs.EntityID, photos []ecs.EntityID) *RotationSystem {
	return &RotationSystem{
		entityManager: em,
		camera:        camera,
		spin:          cfg.Spin,
		gesture:       cfg.Gesture,
		sceneRoot:     sceneRoot,
		photoGroup:    photoGroup,
		photos:        photos,
	}
}

// Update 更新照片组旋转与聚焦照片朝向
func (s *RotationSystem) Update(dt float64) {
	display, ok := ecs.GetComponent[*components.DisplayStateComponent](s.entityManager, s.sceneRoot)
	if !ok {
		return
	}
	scene, ok1 := ecs.GetComponent[*components.NodeComponent](s.entityManager, s.sceneRoot)
	group, ok2 := ecs.GetComponent[*components.NodeComponent](s.entityManager, s.photoGroup)
	if !ok1 || !ok2 {
		return
	}

	if !display.HandActive {
		frames := dt * ReferenceFrameRate
		switch display.State {
		case types.StateCarousel:
			group.Rotation[1] += s.spin.Carousel * frames
		case types.StateChaos:
			group.Rotation[1] += s.spin.Chaos * frames
		}
	} else {
		group.Rotation[1] = scene.Rotation[1]
		if display.State == types.StateCarousel {
			group.Rotation[0] = 0
		} else {
			group.Rotation[0] = scene.Rotation[0]
		}
	}

	if display.State == types.StateFocus && display.FocusIndex >= 0 && display.FocusIndex < len(s.photos) {
		s.faceCamera(s.photos[display.FocusIndex])
	}
}

// faceCamera 将照片正面转向相机（照片组局部朝向）
func (s *RotationSystem) faceCamera(photo ecs.EntityID) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, photo)
	if !ok {
		return
	}
	world := WorldPosition(s.entityManager, photo)
	worldRot := utils.LookAtQuat(s.camera.Position(), world, s.camera.Up())
	transform.Rotation = utils.WorldToLocalQuat(NodeWorldRotation(s.entityManager, transform.Parent), worldRot)
}

// FollowHand 按手的位置缓动场景根旋转，只在 TREE / CAROUSEL / CHAOS 下生效
//
// 参数:
//   - handX, handY: 手腕的归一化图像坐标 [0, 1]
func (s *RotationSystem) FollowHand(state types.State, handX, handY float64) {
	if !state.HasOwnSwarmLayout() {
		return
	}
	scene, ok := ecs.GetComponent[*components.NodeComponent](s.entityManager, s.sceneRoot)
	if !ok {
		return
	}

	g := s.gesture
	targetY := (handX - 0.5) * g.YawRange
	scene.Rotation[1] += (targetY - scene.Rotation[1]) * g.RotationEase

	targetX := 0.0
	switch state {
	case types.StateTree:
		targetX = (handY - 0.5) * g.TreeTiltRange
	case types.StateChaos:
		targetX = (handY - 0.5) * g.ChaosTiltRange
	}
	scene.Rotation[0] += (targetX - scene.Rotation[0]) * g.RotationEase
}
