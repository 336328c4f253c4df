package gesture

import (
	"errors"
	"log"
	"time"
)

var (
	// ErrDetectorNotReady 检测器尚未就绪（模型加载中、摄像头未出帧）
	ErrDetectorNotReady = errors.New("hand detector not ready")
	// ErrDetectorStopped 检测器未运行（摄像头关闭），界面操作不受手势策略干扰
	ErrDetectorStopped = errors.New("hand detector stopped")
)

// Detector 手部关键点检测器
type Detector interface {
	// Detect 返回当前帧的检测结果，没有手时返回 NoHand()
	Detect(now time.Duration) (HandFrame, error)
}

// Tracker 按固定间隔轮询检测器，分类后交给策略
type Tracker struct {
	detector    Detector
	classifier  *Classifier
	interpreter *Interpreter
	interval    time.Duration

	lastPoll time.Duration
	polled   bool
	last     Signal
}

// NewTracker 创建节流轮询器
func NewTracker(detector Detector, classifier *Classifier, interpreter *Interpreter, interval time.Duration) *Tracker {
	return &Tracker{
		detector:    detector,
		classifier:  classifier,
		interpreter: interpreter,
		interval:    interval,
	}
}

// Poll 间隔到期时执行一次检测，返回是否真正处理了一帧
//
// 检测器未就绪或未运行时跳过且不占用本次间隔；其它错误按"没有手"处理。
func (t *Tracker) Poll(now time.Duration) bool {
	if t.polled && now-t.lastPoll < t.interval {
		return false
	}

	frame, err := t.detector.Detect(now)
	if err != nil {
		if errors.Is(err, ErrDetectorNotReady) || errors.Is(err, ErrDetectorStopped) {
			return false
		}
		log.Printf("[Tracker] 检测失败: %v", err)
		frame = NoHand()
	}

	t.lastPoll = now
	t.polled = true
	t.last = t.classifier.Classify(frame)
	t.interpreter.Handle(now, t.last)
	return true
}

// Tick 每帧调用：轮询检测器并推进策略计时
func (t *Tracker) Tick(now time.Duration) {
	t.Poll(now)
	t.interpreter.Tick(now)
}

// LastSignal 返回最近一次分类结果
func (t *Tracker) LastSignal() Signal {
	return t.last
}
