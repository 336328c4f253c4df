package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	glowSize        = 64
	snowSize        = 32
	placeholderSize = 256
)

// glowAlpha 径向渐变：中心 1，0.4 处 0.3，边缘 0
func glowAlpha(d float64) float64 {
	switch {
	case d >= 1:
		return 0
	case d <= 0.4:
		return 1 - (1-0.3)*d/0.4
	default:
		return 0.3 * (1 - (d-0.4)/0.6)
	}
}

// newGlowImage 生成发光点贴图（预乘 alpha）
func newGlowImage() *ebiten.Image {
	img := image.NewRGBA(image.Rect(0, 0, glowSize, glowSize))
	c := float64(glowSize) / 2
	for y := 0; y < glowSize; y++ {
		for x := 0; x < glowSize; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c
			a := uint8(math.Round(glowAlpha(d) * 255))
			img.SetRGBA(x, y, color.RGBA{a, a, a, a})
		}
	}
	return ebiten.NewImageFromImage(img)
}

// newSnowImage 生成雪花贴图：米字线条叠加柔和光晕
func newSnowImage() *ebiten.Image {
	img := ebiten.NewImage(snowSize, snowSize)
	glow := image.NewRGBA(image.Rect(0, 0, snowSize, snowSize))
	c := float64(snowSize) / 2
	for y := 0; y < snowSize; y++ {
		for x := 0; x < snowSize; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c
			a := uint8(math.Round(math.Max(0, 0.8*(1-d)) * 255))
			glow.SetRGBA(x, y, color.RGBA{a, a, a, a})
		}
	}
	img.DrawImage(ebiten.NewImageFromImage(glow), nil)

	s := float32(snowSize)
	for _, l := range [][4]float32{{s / 2, 0, s / 2, s}, {0, s / 2, s, s / 2}, {4, 4, s - 4, s - 4}, {s - 4, 4, 4, s - 4}} {
		vector.StrokeLine(img, l[0], l[1], l[2], l[3], 2, color.White, true)
	}
	return img
}

// newWhiteImage 返回 1x1 的纯白子图，用于纯色三角形
func newWhiteImage() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// newFontSource 加载内置的 Go Regular 字体
func newFontSource() (*text.GoTextFaceSource, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return src, nil
}

// newPlaceholder 生成未上传图片时的 "Memories N" 占位贴图
func newPlaceholder(index int, face *text.GoTextFace) *ebiten.Image {
	img := ebiten.NewImage(placeholderSize, placeholderSize)
	img.Fill(color.RGBA{0x1a, 0x1a, 0x1a, 0xff})

	const border = 12
	vector.StrokeRect(img, border, border, placeholderSize-2*border, placeholderSize-2*border, 4, ColorGold, true)

	label := fmt.Sprintf("Memories %d", index+1)
	w, h := text.Measure(label, face, face.Size*1.2)
	op := &text.DrawOptions{}
	op.GeoM.Translate((placeholderSize-w)/2, (placeholderSize-h)/2)
	op.ColorScale.ScaleWithColor(ColorGold)
	text.Draw(img, label, face, op)
	return img
}
