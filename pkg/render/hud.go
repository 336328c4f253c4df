package render

import (
	"image/color"

	"github.com/gonewx/phototree/pkg/gesture"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// HUD 覆盖层内容
type HUD struct {
	Status string
	Hints  []string
	// Hand 最近一帧的手部关键点，HasHand() 为 false 时不绘制
	Hand gesture.HandFrame
}

// 手部骨架连线（21 点模型）
var handBones = [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4},
	{0, 5}, {5, 6}, {6, 7}, {7, 8},
	{5, 9}, {9, 10}, {10, 11}, {11, 12},
	{9, 13}, {13, 14}, {14, 15}, {15, 16},
	{13, 17}, {0, 17}, {17, 18}, {18, 19}, {19, 20},
}

var (
	hudTextColor = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	hudHintColor = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	hudPanel     = color.RGBA{0x00, 0x00, 0x00, 0x99}
)

// DrawHUD 绘制状态文字、按键提示和手部骨架
func (r *Renderer) DrawHUD(screen *ebiten.Image, hud HUD) {
	b := screen.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	if hud.Status != "" {
		sw, sh := text.Measure(hud.Status, r.face, r.face.Size*1.2)
		x, y := (w-sw)/2, h-sh-32
		vector.DrawFilledRect(screen, float32(x-16), float32(y-8), float32(sw+32), float32(sh+16), hudPanel, true)
		op := &text.DrawOptions{}
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleWithColor(hudTextColor)
		text.Draw(screen, hud.Status, r.face, op)
	}

	if len(hud.Hints) > 0 {
		small := &text.GoTextFace{Source: r.face.Source, Size: 14}
		for i, line := range hud.Hints {
			op := &text.DrawOptions{}
			op.GeoM.Translate(12, 12+float64(i)*18)
			op.ColorScale.ScaleWithColor(hudHintColor)
			text.Draw(screen, line, small, op)
		}
	}

	if hud.Hand.HasHand() {
		r.drawHand(screen, hud.Hand, w, h)
	}
}

// drawHand 在右下角的小窗口内绘制手部骨架（镜像，和摄像头预览一致）
func (r *Renderer) drawHand(screen *ebiten.Image, hand gesture.HandFrame, w, h float64) {
	const size = 160
	ox, oy := float32(w-size-16), float32(h-size-16)
	vector.DrawFilledRect(screen, ox, oy, size, size, hudPanel, true)
	vector.StrokeRect(screen, ox, oy, size, size, 1, hudTextColor, true)

	at := func(i int) (float32, float32) {
		lm := hand.Landmarks[i]
		return ox + float32(1-lm.X)*size, oy + float32(lm.Y)*size
	}
	for _, bone := range handBones {
		x0, y0 := at(bone[0])
		x1, y1 := at(bone[1])
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, ColorBrightGreen, true)
	}
	for i := range hand.Landmarks[:gesture.LandmarkCount] {
		x, y := at(i)
		vector.DrawFilledCircle(screen, x, y, 3, ColorGold, true)
	}
}
