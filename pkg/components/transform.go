package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/ecs"
)

// TransformComponent 存储实体相对于父节点的变换
//
// 照片的父节点是照片组，星星的父节点是场景根。
// 世界矩阵 = 父节点世界矩阵 × T × R × S
type TransformComponent struct {
	// Position 局部位置
	Position mgl64.Vec3

	// Rotation 局部朝向
	Rotation mgl64.Quat

	// Scale 局部缩放（照片为 宽 × 高 × 倍数，星星为统一缩放）
	Scale mgl64.Vec3

	// Parent 父节点实体，InvalidEntity 表示直接挂在世界下
	Parent ecs.EntityID
}

// NewTransform 创建单位变换
func NewTransform(parent ecs.EntityID) *TransformComponent {
	return &TransformComponent{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
		Parent:   parent,
	}
}
