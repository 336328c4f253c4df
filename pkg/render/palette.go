package render

import (
	"image/color"

	"github.com/gonewx/phototree/pkg/layout"
)

// 场景配色
var (
	ColorDeepGreen   = color.RGBA{0x00, 0x33, 0x11, 0xff}
	ColorBrightGreen = color.RGBA{0x20, 0xff, 0x55, 0xff}
	ColorGold        = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	ColorCream       = color.RGBA{0xff, 0xf7, 0xc6, 0xff}
	ColorStarYellow  = color.RGBA{0xff, 0xe0, 0x66, 0xff}
	ColorSnow        = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ColorPhotoTint   = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	ColorBackground  = color.RGBA{0x02, 0x04, 0x0a, 0xff}
)

// ribbonColors 丝带按索引循环使用的颜色
var ribbonColors = []color.RGBA{
	{0xff, 0x33, 0x33, 0xff},
	{0xff, 0xd7, 0x00, 0xff},
	{0x33, 0x88, 0xff, 0xff},
	{0x99, 0x33, 0xff, 0xff},
	{0x00, 0xff, 0xff, 0xff},
}

// RibbonColor 第 i 条丝带的颜色
func RibbonColor(i int) color.RGBA {
	return ribbonColors[i%len(ribbonColors)]
}

// SwarmColors 为粒子随机分配颜色
// 25% 金色系（金色与奶白各半），35% 亮绿，其余深绿
func SwarmColors(n int, rng layout.RandomSource) []color.RGBA {
	colors := make([]color.RGBA, n)
	for i := range colors {
		r := rng.Float64()
		switch {
		case r > 0.75:
			if rng.Float64() > 0.5 {
				colors[i] = ColorGold
			} else {
				colors[i] = ColorCream
			}
		case r > 0.4:
			colors[i] = ColorBrightGreen
		default:
			colors[i] = ColorDeepGreen
		}
	}
	return colors
}

// StarColor 背景星星颜色
func StarColor(gold bool) color.RGBA {
	if gold {
		return ColorGold
	}
	return ColorSnow
}
