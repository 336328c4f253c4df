package layout

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/utils"
)

// FocusView 计算 FOCUS 目标所需的相机与父节点信息
type FocusView struct {
	CameraPosition mgl64.Vec3
	// CameraForward 相机世界朝向（单位向量）
	CameraForward mgl64.Vec3
	CameraUp      mgl64.Vec3
	// ParentWorld 照片组的世界矩阵（场景根 × 照片组）
	ParentWorld mgl64.Mat4
	// ParentRotation 照片组的世界朝向
	ParentRotation mgl64.Quat
}

// Focus 计算 FOCUS 状态下所有照片的目标（照片组局部坐标）
//
// 被聚焦的照片放到相机正前方 Distance 处、正面朝向相机、放大到 Scale；
// 其余照片推到后方随机位置并缩小到 HiddenScale。
// 目标在世界坐标中计算后再转换回照片组局部坐标，因此父节点旋转不影响最终视觉位置。
//
// 参数:
//   - focusIndex: 被聚焦照片索引，必须在 [0, count)
//   - count: 照片总数
//   - view: 切换发生时的相机与父节点状态
func (g *Generator) Focus(focusIndex, count int, view FocusView) []PhotoTarget {
	c := g.cfg.Focus
	up := view.CameraUp
	if up.Len() < 1e-9 {
		up = mgl64.Vec3{0, 1, 0}
	}

	targets := make([]PhotoTarget, count)
	for i := range targets {
		if i == focusIndex {
			world := view.CameraPosition.Add(view.CameraForward.Normalize().Mul(c.Distance))
			worldRot := utils.LookAtQuat(view.CameraPosition, world, up)
			targets[i] = PhotoTarget{
				Position:        utils.WorldToLocal(view.ParentWorld, world),
				Rotation:        utils.WorldToLocalQuat(view.ParentRotation, worldRot),
				ScaleMultiplier: c.Scale,
			}
			continue
		}
		targets[i] = PhotoTarget{
			Position: mgl64.Vec3{
				(g.rng.Float64() - 0.5) * c.HiddenSpread,
				(g.rng.Float64() - 0.5) * c.HiddenSpread,
				c.HiddenDepth,
			},
			Rotation:        mgl64.QuatIdent(),
			ScaleMultiplier: c.HiddenScale,
		}
	}
	return targets
}
