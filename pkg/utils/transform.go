// transform.go 提供三维变换工具，负责世界坐标与局部坐标之间的转换。
//
// # 坐标系统概述
//
//   - **世界坐标**：相机所在的坐标系
//   - **场景根**：整体场景的旋转（手势可驱动，TREE 时归零）
//   - **照片组**：照片的父节点，自身还有旋转（画廊自转、跟随手势）
//   - **照片局部坐标**：照片相对于照片组的位置与朝向
//
// 照片的世界矩阵 = 场景根矩阵 × 照片组矩阵 × 照片局部矩阵。
// FOCUS 目标先在世界坐标中计算，再用父矩阵的逆转换回照片组局部坐标。
//
// 旋转的欧拉角统一使用 XYZ 顺序。
package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EulerToQuat 将 XYZ 顺序的欧拉角转换为四元数
func EulerToQuat(euler mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(euler[0], euler[1], euler[2], mgl64.XYZ)
}

// RotationMatrix 返回欧拉角对应的 4x4 旋转矩阵
func RotationMatrix(euler mgl64.Vec3) mgl64.Mat4 {
	return EulerToQuat(euler).Mat4()
}

// ComposeMatrix 按 平移 × 旋转 × 缩放 组合变换矩阵
func ComposeMatrix(position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(position[0], position[1], position[2]).
		Mul4(rotation.Mat4()).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

// LocalToWorld 将父节点局部坐标中的点转换为世界坐标
func LocalToWorld(parentWorld mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return parentWorld.Mul4x1(p.Vec4(1)).Vec3()
}

// WorldToLocal 将世界坐标中的点转换为父节点局部坐标
func WorldToLocal(parentWorld mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return parentWorld.Inv().Mul4x1(p.Vec4(1)).Vec3()
}

// WorldToLocalQuat 将世界朝向转换为父节点局部朝向
func WorldToLocalQuat(parentWorld mgl64.Quat, q mgl64.Quat) mgl64.Quat {
	return parentWorld.Inverse().Mul(q).Normalize()
}

// LookAtQuat 返回位于 target 的物体 +Z 轴（照片正面）朝向 eye 的朝向
// up 与视线平行时对视线做微小扰动，避免叉积退化
func LookAtQuat(eye, target, up mgl64.Vec3) mgl64.Quat {
	z := eye.Sub(target)
	if z.Len() < 1e-9 {
		z = mgl64.Vec3{0, 0, 1}
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.Len() < 1e-9 {
		if math.Abs(up[2]) == 1 {
			z[0] += 0.0001
		} else {
			z[2] += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(x, y, z).Mat4()).Normalize()
}

// SlerpShortest 沿最短路径做球面插值
func SlerpShortest(from, to mgl64.Quat, t float64) mgl64.Quat {
	if from.Dot(to) < 0 {
		to = mgl64.Quat{W: -to.W, V: to.V.Mul(-1)}
	}
	return mgl64.QuatSlerp(from, to, t)
}

// QuatAngle 返回两个朝向之间的夹角（弧度）
func QuatAngle(a, b mgl64.Quat) float64 {
	d := math.Abs(a.Normalize().Dot(b.Normalize()))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}
