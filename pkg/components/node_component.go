package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/ecs"
)

// NodeKind 节点类型
type NodeKind int

const (
	// NodeSceneRoot 场景根，手势可驱动其旋转
	NodeSceneRoot NodeKind = iota
	// NodePhotoGroup 照片组，画廊自转、跟随手势
	NodePhotoGroup
)

// NodeComponent 场景图中的旋转组节点
//
// 旋转以欧拉角（XYZ 顺序）存储，补间和手势都直接修改分量，
// 与照片的四元数朝向不同。
type NodeComponent struct {
	Kind NodeKind

	// Rotation 欧拉角（弧度）
	Rotation mgl64.Vec3

	// Parent 父节点，InvalidEntity 表示直接挂在世界下
	Parent ecs.EntityID
}
