package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/components"
	"github.com/gonewx/phototree/pkg/ecs"
	"github.com/gonewx/phototree/pkg/utils"
)

// maxGraphDepth 父链最大深度，防止错误的父子关系造成死循环
const maxGraphDepth = 16

// NodeWorldMatrix 返回旋转组节点的世界矩阵（只含旋转）
// id 为 InvalidEntity 或不是节点时返回单位矩阵
func NodeWorldMatrix(em *ecs.EntityManager, id ecs.EntityID) mgl64.Mat4 {
	return NodeWorldRotation(em, id).Mat4()
}

// NodeWorldRotation 返回旋转组节点的世界朝向
func NodeWorldRotation(em *ecs.EntityManager, id ecs.EntityID) mgl64.Quat {
	rot := mgl64.QuatIdent()
	for depth := 0; id != ecs.InvalidEntity && depth < maxGraphDepth; depth++ {
		node, ok := ecs.GetComponent[*components.NodeComponent](em, id)
		if !ok {
			break
		}
		rot = utils.EulerToQuat(node.Rotation).Mul(rot)
		id = node.Parent
	}
	return rot.Normalize()
}

// WorldMatrix 返回带变换组件实体的世界矩阵
func WorldMatrix(em *ecs.EntityManager, id ecs.EntityID) mgl64.Mat4 {
	transform, ok := ecs.GetComponent[*components.TransformComponent](em, id)
	if !ok {
		return mgl64.Ident4()
	}
	local := utils.ComposeMatrix(transform.Position, transform.Rotation, transform.Scale)
	return NodeWorldMatrix(em, transform.Parent).Mul4(local)
}

// WorldPosition 返回带变换组件实体的世界坐标
func WorldPosition(em *ecs.EntityManager, id ecs.EntityID) mgl64.Vec3 {
	transform, ok := ecs.GetComponent[*components.TransformComponent](em, id)
	if !ok {
		return mgl64.Vec3{}
	}
	return utils.LocalToWorld(NodeWorldMatrix(em, transform.Parent), transform.Position)
}
