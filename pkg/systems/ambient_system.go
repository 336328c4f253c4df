package systems

import (
	"math"

	"github.com/gonewx/phototree/pkg/config"
	"github.com/gonewx/phototree/pkg/layout"
)

// AmbientSystem 背景星空与飘雪
//
// 两组点都在世界坐标系中，不受场景旋转与展示状态影响。
// 星星按 sin(t/2 + x) 缓慢上下漂移；雪花匀速下落，低于下限后回到上限。
type AmbientSystem struct {
	cfg     config.AmbientConfig
	elapsed float64

	// 每三个值为一个点的 x, y, z
	stars    []float64
	starGold []bool
	snow     []float64
}

// NewAmbientSystem 在配置的盒子内随机撒点
func NewAmbientSystem(cfg config.AmbientConfig, rng layout.RandomSource) *AmbientSystem {
	s := &AmbientSystem{
		cfg:      cfg,
		stars:    make([]float64, cfg.Stars*3),
		starGold: make([]bool, cfg.Stars),
		snow:     make([]float64, cfg.Snow*3),
	}
	for i := 0; i < cfg.Stars; i++ {
		for k := 0; k < 3; k++ {
			s.stars[i*3+k] = (rng.Float64() - 0.5) * cfg.StarBox[k]
		}
		s.starGold[i] = rng.Float64() > 0.6
	}
	for i := 0; i < cfg.Snow; i++ {
		for k := 0; k < 3; k++ {
			s.snow[i*3+k] = (rng.Float64() - 0.5) * cfg.SnowBox[k]
		}
		s.snow[i*3+1] += cfg.SnowLift
	}
	return s
}

// Update 推进漂移与下落
func (s *AmbientSystem) Update(dt float64) {
	s.elapsed += dt
	frames := dt * ReferenceFrameRate
	t := s.elapsed

	for i := 0; i < len(s.stars); i += 3 {
		s.stars[i+1] += math.Sin(t*0.5+s.stars[i]) * s.cfg.StarDrift * frames
	}

	for i := 0; i < len(s.snow); i += 3 {
		s.snow[i+1] -= s.cfg.SnowFall * frames
		if s.snow[i+1] < s.cfg.SnowFloor {
			s.snow[i+1] = s.cfg.SnowCeiling
		}
		s.snow[i] += math.Sin(t+float64(i/3)) * s.cfg.SnowSway * frames
	}
}

// Stars 返回星星坐标（只读）
func (s *AmbientSystem) Stars() []float64 {
	return s.stars
}

// StarIsGold 报告第 i 颗星星是否为金色
func (s *AmbientSystem) StarIsGold(i int) bool {
	return s.starGold[i]
}

// Snow 返回雪花坐标（只读）
func (s *AmbientSystem) Snow() []float64 {
	return s.snow
}
