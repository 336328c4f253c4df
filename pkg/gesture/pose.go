package gesture

// Pose 合成手势姿态，用于模拟检测器与测试
type Pose int

const (
	// PoseNeutral 拇指与食指伸开（两指），不触发任何切换
	PoseNeutral Pose = iota
	// PoseFist 握拳
	PoseFist
	// PoseOpenPalm 五指张开
	PoseOpenPalm
	// PoseVictory 剪刀手
	PoseVictory
	// PosePinch 拇指与食指尖相捏，中指无名指伸开
	PosePinch
)

// String 返回姿态名称
func (p Pose) String() string {
	switch p {
	case PoseNeutral:
		return "neutral"
	case PoseFist:
		return "fist"
	case PoseOpenPalm:
		return "palm"
	case PoseVictory:
		return "victory"
	case PosePinch:
		return "pinch"
	default:
		return "unknown"
	}
}

// 各手指相对手腕的横向偏移（食指、中指、无名指、小指）
var fingerOffsets = [4]float64{-0.04, -0.01, 0.02, 0.05}

// 手指关节相对手腕的纵向距离（图像坐标 y 向下，手指朝上）
const (
	mcpReach        = 0.06
	pipReach        = 0.10
	openTipReach    = 0.18
	closedTipReach  = 0.05
	thumbOpenX      = -0.25
	thumbOpenY      = -0.15
	thumbClosedX    = -0.05
	thumbClosedY    = -0.08
	pinchTipOffsetX = 0.01
	pinchTipOffsetY = 0.01
)

// SynthesizeHand 以 (wristX, wristY) 为手腕生成一只指定姿态的 21 点手
func SynthesizeHand(wristX, wristY float64, pose Pose) HandFrame {
	var open [4]bool
	thumbOpen := false
	switch pose {
	case PoseNeutral:
		thumbOpen = true
		open = [4]bool{true, false, false, false}
	case PoseOpenPalm:
		thumbOpen = true
		open = [4]bool{true, true, true, true}
	case PoseVictory:
		open = [4]bool{true, true, false, false}
	case PosePinch:
		open = [4]bool{true, true, true, false}
	}

	lm := make([]Landmark, LandmarkCount)
	lm[Wrist] = Landmark{X: wristX, Y: wristY}

	for f, ox := range fingerOffsets {
		base := 5 + f*4
		x := wristX + ox
		tipReach := closedTipReach
		if open[f] {
			tipReach = openTipReach
		}
		lm[base] = Landmark{X: x, Y: wristY - mcpReach}
		lm[base+1] = Landmark{X: x, Y: wristY - pipReach}
		lm[base+2] = Landmark{X: x, Y: wristY - (pipReach+tipReach)/2}
		lm[base+3] = Landmark{X: x, Y: wristY - tipReach}
	}

	thumbTip := Landmark{X: wristX + thumbClosedX, Y: wristY + thumbClosedY}
	if thumbOpen {
		thumbTip = Landmark{X: wristX + thumbOpenX, Y: wristY + thumbOpenY}
	}
	if pose == PosePinch {
		index := lm[IndexTip]
		thumbTip = Landmark{X: index.X + pinchTipOffsetX, Y: index.Y + pinchTipOffsetY}
	}
	for k := 1; k <= 3; k++ {
		t := float64(k) / 4
		lm[k] = Landmark{
			X: wristX + (thumbTip.X-wristX)*t,
			Y: wristY + (thumbTip.Y-wristY)*t,
		}
	}
	lm[ThumbTip] = thumbTip

	return HandFrame{Landmarks: lm}
}
