// Package layout 计算各展示状态下粒子、丝带、照片和星星的目标变换。
//
// 生成器是纯函数式的：给定数量与随机源，返回一张按状态索引的目标表。
// 启动时计算一次，之后只读；数量变化或需要重新打散时可再次计算。
// 随机散布使用注入的随机源，生产环境每次计算结果都不同，测试可传入固定种子。
package layout

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/phototree/pkg/types"
)

// RandomSource 随机数源，返回 [0, 1) 的均匀分布
// *rand.Rand 满足该接口
type RandomSource interface {
	Float64() float64
}

// globalSource 使用 math/rand/v2 的全局（自动播种）随机源
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource 返回生产环境使用的非固定种子随机源
func DefaultSource() RandomSource {
	return globalSource{}
}

// Counts 布局所需的对象数量
type Counts struct {
	Particles int
	Ribbons   int
	Photos    int
}

// PhotoTarget 单张照片的目标（照片组局部坐标）
type PhotoTarget struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	ScaleMultiplier float64
}

// AccentTarget 星星的目标位置与统一缩放
type AccentTarget struct {
	Position mgl64.Vec3
	Scale    float64
}

// Target 一个状态的完整目标
type Target struct {
	// Points 粒子目标位置，扁平存储 x0,y0,z0,x1,...，长度 = 3 × 粒子数
	Points []float64
	// Ribbon 丝带实例目标矩阵，长度 = 丝带数
	Ribbon []mgl64.Mat4
	// Photos 照片目标，长度 = 照片数
	Photos []PhotoTarget
	Accent AccentTarget
}

// Table 按状态索引的目标表，只包含 TREE / CAROUSEL / CHAOS
// FOCUS 的照片目标在切换时动态计算，粒子与丝带复用 TREE
type Table struct {
	Counts  Counts
	targets map[types.State]*Target
}

// Has 报告目标表是否包含该状态的预计算目标
func (t *Table) Has(state types.State) bool {
	if t == nil {
		return false
	}
	_, ok := t.targets[state]
	return ok
}

// Get 返回状态的预计算目标，FOCUS 或未计算时返回 nil
func (t *Table) Get(state types.State) *Target {
	if t == nil {
		return nil
	}
	return t.targets[state]
}

// Swarm 返回粒子/丝带应收敛的目标
// TREE 与 FOCUS 共用 TREE，CHAOS 用 CHAOS，CAROUSEL 用 CAROUSEL
func (t *Table) Swarm(state types.State) *Target {
	switch state {
	case types.StateChaos:
		return t.Get(types.StateChaos)
	case types.StateCarousel:
		return t.Get(types.StateCarousel)
	default:
		return t.Get(types.StateTree)
	}
}

// Accent 返回星星目标：TREE、CHAOS 各自使用自己的，CAROUSEL 与 FOCUS 使用 CAROUSEL 的
func (t *Table) Accent(state types.State) (AccentTarget, bool) {
	var target *Target
	switch state {
	case types.StateTree:
		target = t.Get(types.StateTree)
	case types.StateChaos:
		target = t.Get(types.StateChaos)
	default:
		target = t.Get(types.StateCarousel)
	}
	if target == nil {
		return AccentTarget{}, false
	}
	return target.Accent, true
}
