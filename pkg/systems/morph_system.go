package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/layout"
)

// MorphSystem 粒子群与丝带实例的指数收敛
//
// 每帧每个分量执行 cur += (tgt - cur) × speed，与补间不同，
// 这里没有时长与终点，只要目标不变就一直向目标逼近。
// 缓冲区在创建时分配一次，之后原地修改。
type MorphSystem struct {
	points []float64
	ribbon []mgl64.Mat4
}

// NewMorphSystem 创建收敛系统
// 粒子初始位于原点，丝带实例初始为单位矩阵
func NewMorphSystem(particles, ribbons int) *MorphSystem {
	ribbon := make([]mgl64.Mat4, ribbons)
	for i := range ribbon {
		ribbon[i] = mgl64.Ident4()
	}
	return &MorphSystem{
		points: make([]float64, particles*3),
		ribbon: ribbon,
	}
}

// Update 将当前缓冲区向 target 收敛一步
//
// 参数:
//   - target: 当前状态的粒子/丝带目标，nil 时不做任何事
//   - speed: 收敛速度，取值 (0, 1]
func (s *MorphSystem) Update(target *layout.Target, speed float64) {
	if target == nil {
		return
	}

	n := min(len(s.points), len(target.Points))
	for i := 0; i < n; i++ {
		s.points[i] += (target.Points[i] - s.points[i]) * speed
	}

	// 丝带矩阵逐元素插值，目标只有平移时等价于位置插值
	m := min(len(s.ribbon), len(target.Ribbon))
	for i := 0; i < m; i++ {
		cur := &s.ribbon[i]
		tgt := target.Ribbon[i]
		for k := range cur {
			cur[k] += (tgt[k] - cur[k]) * speed
		}
	}
}

// Points 返回粒子当前位置（x0,y0,z0,x1,...），调用方只读
func (s *MorphSystem) Points() []float64 {
	return s.points
}

// Ribbon 返回丝带实例当前矩阵，调用方只读
func (s *MorphSystem) Ribbon() []mgl64.Mat4 {
	return s.ribbon
}

// ParticleCount 返回粒子数量
func (s *MorphSystem) ParticleCount() int {
	return len(s.points) / 3
}
