package utils

import "math"

// Easing Functions (缓动函数)
//
// 缓动函数用于控制补间的速度曲线。
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值（弹性类会短暂超过 1）。
//
// 参考：https://easings.net/

// EasingFunc 缓动函数类型
type EasingFunc func(t float64) float64

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（照片飞向目标、组旋转归零）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseOutElastic 弹性缓出
// 特点：冲过目标后来回震荡并收敛（照片缩放的"弹一下"效果）
// 公式：f(t) = 2^(-10t) · sin((t - 0.1) · 5π) + 1
func EaseOutElastic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return math.Pow(2, -10*t)*math.Sin((t-0.1)*5*math.Pi) + 1
}

// Lerp 线性插值
// t=0 精确返回 a，t=1 精确返回 b
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Clamp01 将值限制在 [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
