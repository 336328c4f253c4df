package systems

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/components"
	"github.com/gonewx/phototree/pkg/ecs"
	"github.com/gonewx/phototree/pkg/utils"
)

// TweenSystem 补间调度器
//
// 每个补间是一个带 TweenComponent 的实体，多个补间互相独立地并行推进。
// 同一 (对象, 属性) 上启动新补间时，旧补间立即停止写入并在帧末清理；
// 新补间从对象当前的值（可能仍在运动中）出发，调用方不需要持有句柄。
type TweenSystem struct {
	entityManager *ecs.EntityManager
	byKey         map[components.TweenKey]ecs.EntityID
}

// NewTweenSystem 创建补间系统
func NewTweenSystem(em *ecs.EntityManager) *TweenSystem {
	return &TweenSystem{
		entityManager: em,
		byKey:         make(map[components.TweenKey]ecs.EntityID),
	}
}

// Start 启动一个补间
//
// 参数:
//   - key: 补间键，相同键的旧补间被取代
//   - duration: 时长，<= 0 时下一次 Update 直接写入终值
//   - easing: 缓动函数，nil 时使用线性
//   - apply: 每帧以缓动后的进度调用，起始值应在调用 Start 前捕获
//
// 返回:
//   - ecs.EntityID: 补间实体ID
func (s *TweenSystem) Start(key components.TweenKey, duration time.Duration, easing utils.EasingFunc, apply func(progress float64)) ecs.EntityID {
	if easing == nil {
		easing = utils.EaseLinear
	}
	s.Cancel(key)

	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.TweenComponent{
		Key:      key,
		Duration: duration.Seconds(),
		Easing:   easing,
		Apply:    apply,
	})
	s.byKey[key] = id
	return id
}

// Cancel 停止并移除指定键上的补间，没有时什么也不做
func (s *TweenSystem) Cancel(key components.TweenKey) {
	old, ok := s.byKey[key]
	if !ok {
		return
	}
	ecs.RemoveComponent[*components.TweenComponent](s.entityManager, old)
	s.entityManager.DestroyEntity(old)
	delete(s.byKey, key)
}

// Update 推进所有补间
func (s *TweenSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.TweenComponent](s.entityManager) {
		tween, ok := ecs.GetComponent[*components.TweenComponent](s.entityManager, id)
		if !ok {
			continue
		}

		tween.Elapsed += deltaTime
		progress := 1.0
		if tween.Duration > 0 {
			progress = utils.Clamp01(tween.Elapsed / tween.Duration)
		}

		// 终点直接写 1，避免缓动函数在端点的浮点误差
		if progress >= 1 {
			tween.Apply(1)
			s.finish(id, tween.Key)
			continue
		}
		tween.Apply(tween.Easing(progress))
	}
}

func (s *TweenSystem) finish(id ecs.EntityID, key components.TweenKey) {
	ecs.RemoveComponent[*components.TweenComponent](s.entityManager, id)
	s.entityManager.DestroyEntity(id)
	if s.byKey[key] == id {
		delete(s.byKey, key)
	}
}

// Active 返回进行中的补间数量
func (s *TweenSystem) Active() int {
	return len(s.byKey)
}

// IsActive 报告指定键上是否有进行中的补间
func (s *TweenSystem) IsActive(key components.TweenKey) bool {
	_, ok := s.byKey[key]
	return ok
}

// TweenPosition 将实体位置补间到 to
func (s *TweenSystem) TweenPosition(entity ecs.EntityID, to mgl64.Vec3, duration time.Duration, easing utils.EasingFunc) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, entity)
	if !ok {
		return
	}
	from := transform.Position
	s.Start(components.TweenKey{Target: entity, Property: components.TweenPosition}, duration, easing, func(p float64) {
		transform.Position = lerpVec3(from, to, p)
	})
}

// TweenScale 将实体缩放补间到 to
func (s *TweenSystem) TweenScale(entity ecs.EntityID, to mgl64.Vec3, duration time.Duration, easing utils.EasingFunc) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, entity)
	if !ok {
		return
	}
	from := transform.Scale
	s.Start(components.TweenKey{Target: entity, Property: components.TweenScale}, duration, easing, func(p float64) {
		transform.Scale = lerpVec3(from, to, p)
	})
}

// TweenRotation 以球面插值将实体朝向补间到 to
// 起点是调用时刻的朝向
func (s *TweenSystem) TweenRotation(entity ecs.EntityID, to mgl64.Quat, duration time.Duration, easing utils.EasingFunc) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, entity)
	if !ok {
		return
	}
	from := transform.Rotation
	s.Start(components.TweenKey{Target: entity, Property: components.TweenRotation}, duration, easing, func(p float64) {
		// 弹性缓动可能超过 1，Slerp 只接受 [0, 1]
		if p >= 1 {
			transform.Rotation = to
			return
		}
		transform.Rotation = utils.SlerpShortest(from, to, utils.Clamp01(p))
	})
}

// TweenNodeRotation 将节点欧拉角逐分量补间到 to
func (s *TweenSystem) TweenNodeRotation(entity ecs.EntityID, to mgl64.Vec3, duration time.Duration, easing utils.EasingFunc) {
	node, ok := ecs.GetComponent[*components.NodeComponent](s.entityManager, entity)
	if !ok {
		return
	}
	from := node.Rotation
	s.Start(components.TweenKey{Target: entity, Property: components.TweenNodeRotation}, duration, easing, func(p float64) {
		node.Rotation = lerpVec3(from, to, p)
	})
}

func lerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{
		utils.Lerp(a[0], b[0], t),
		utils.Lerp(a[1], b[1], t),
		utils.Lerp(a[2], b[2], t),
	}
}
