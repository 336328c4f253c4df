package gesture

import "github.com/gonewx/phototree/pkg/config"

// Signal 一帧的手势分类结果
type Signal struct {
	// Present 是否检测到手，为 false 时其余字段无意义
	Present bool

	// HandX, HandY 手腕的归一化坐标
	HandX, HandY float64

	ThumbOpen  bool
	IndexOpen  bool
	MiddleOpen bool
	RingOpen   bool
	PinkyOpen  bool

	// OpenCount 伸开的手指数（含拇指）
	OpenCount int

	// PinchDistance 拇指尖到食指尖的距离
	PinchDistance float64
	// Pinch 距离低于捏合阈值
	Pinch bool
}

// Victory 剪刀手：食指、中指伸开，无名指、小指收起
func (s Signal) Victory() bool {
	return s.IndexOpen && s.MiddleOpen && !s.RingOpen && !s.PinkyOpen
}

// Classifier 手势分类器
type Classifier struct {
	thumbOpenDistance float64
	pinchThreshold    float64
}

// NewClassifier 根据手势配置创建分类器
func NewClassifier(cfg config.GestureConfig) *Classifier {
	return &Classifier{
		thumbOpenDistance: cfg.ThumbOpenDistance,
		pinchThreshold:    cfg.PinchThreshold,
	}
}

// Classify 将一帧关键点分类为手势信号
//
// 手指伸开的判定：指尖到手腕的距离大于第二关节到手腕的距离。
// 拇指单独使用指尖到手腕的绝对距离阈值。
// 关键点不足 21 个时视为没有手。
func (c *Classifier) Classify(frame HandFrame) Signal {
	if !frame.HasHand() {
		return Signal{}
	}

	fingerOpen := func(tip, pip int) bool {
		return frame.dist(tip, Wrist) > frame.dist(pip, Wrist)
	}

	wrist := frame.Landmarks[Wrist]
	s := Signal{
		Present:    true,
		HandX:      wrist.X,
		HandY:      wrist.Y,
		ThumbOpen:  frame.dist(ThumbTip, Wrist) > c.thumbOpenDistance,
		IndexOpen:  fingerOpen(IndexTip, IndexPIP),
		MiddleOpen: fingerOpen(MiddleTip, MiddlePIP),
		RingOpen:   fingerOpen(RingTip, RingPIP),
		PinkyOpen:  fingerOpen(PinkyTip, PinkyPIP),
	}
	for _, open := range []bool{s.ThumbOpen, s.IndexOpen, s.MiddleOpen, s.RingOpen, s.PinkyOpen} {
		if open {
			s.OpenCount++
		}
	}
	s.PinchDistance = frame.dist(ThumbTip, IndexTip)
	s.Pinch = s.PinchDistance < c.pinchThreshold
	return s
}
