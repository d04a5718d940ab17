package input

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ebitenKeys 逻辑按键到 Ebitengine 按键的映射
var ebitenKeys = [keyCount]ebiten.Key{
	KeyArrowLeft:  ebiten.KeyArrowLeft,
	KeyArrowRight: ebiten.KeyArrowRight,
	KeyArrowUp:    ebiten.KeyArrowUp,
	KeyArrowDown:  ebiten.KeyArrowDown,
	KeyA:          ebiten.KeyA,
	KeyD:          ebiten.KeyD,
	KeyW:          ebiten.KeyW,
	KeyS:          ebiten.KeyS,
	KeySpace:      ebiten.KeySpace,
	KeyShiftLeft:  ebiten.KeyShiftLeft,
}

// EbitenSource 把 Ebitengine 的轮询式输入转换为事件
//
// Ebitengine 没有事件回调，需要在每个 tick 调用一次 Poll，
// 通过 inpututil 的边沿检测生成按下/抬起事件。
// 只跟踪第一个触点，多指触摸时其余手指被忽略。
type EbitenSource struct {
	sinks []*sinkEntry

	cursorX, cursorY int
	trackedTouch     ebiten.TouchID
	tracking         bool
	lastTouchX       int
	lastTouchY       int
}

type sinkEntry struct {
	sink EventSink
}

// NewEbitenSource 创建 Ebitengine 输入事件源
func NewEbitenSource() *EbitenSource {
	return &EbitenSource{cursorX: -1, cursorY: -1}
}

// Subscribe 实现 Source
func (s *EbitenSource) Subscribe(sink EventSink) func() {
	entry := &sinkEntry{sink: sink}
	s.sinks = append(s.sinks, entry)
	return func() {
		s.sinks = slices.DeleteFunc(s.sinks, func(e *sinkEntry) bool {
			return e == entry
		})
	}
}

// Subscribers 返回当前订阅数量
func (s *EbitenSource) Subscribers() int {
	return len(s.sinks)
}

// Poll 读取本 tick 的设备状态并分发事件
func (s *EbitenSource) Poll(now Timestamp) {
	if len(s.sinks) == 0 {
		return
	}

	for k, ek := range ebitenKeys {
		if inpututil.IsKeyJustPressed(ek) {
			s.each(func(sink EventSink) { sink.KeyDown(Key(k)) })
		}
		if inpututil.IsKeyJustReleased(ek) {
			s.each(func(sink EventSink) { sink.KeyUp(Key(k)) })
		}
	}

	s.pollMouse()
	s.pollTouch(now)
}

func (s *EbitenSource) pollMouse() {
	x, y := ebiten.CursorPosition()
	if x != s.cursorX || y != s.cursorY {
		s.cursorX, s.cursorY = x, y
		s.each(func(sink EventSink) { sink.PointerMove(float64(x), float64(y)) })
	}

	buttons := []struct {
		eb  ebiten.MouseButton
		btn MouseButton
	}{
		{ebiten.MouseButtonLeft, MouseButtonLeft},
		{ebiten.MouseButtonRight, MouseButtonRight},
	}
	for _, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			s.each(func(sink EventSink) { sink.PointerDown(b.btn) })
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			s.each(func(sink EventSink) { sink.PointerUp(b.btn) })
		}
	}
}

func (s *EbitenSource) pollTouch(now Timestamp) {
	if s.tracking {
		switch {
		case inpututil.IsTouchJustReleased(s.trackedTouch):
			s.tracking = false
			s.each(func(sink EventSink) { sink.TouchEnd(now) })
		case !slices.Contains(ebiten.AppendTouchIDs(nil), s.trackedTouch):
			// 触点消失但没有收到释放（系统打断）
			s.tracking = false
			s.each(func(sink EventSink) { sink.TouchCancel(now) })
		default:
			x, y := ebiten.TouchPosition(s.trackedTouch)
			if x != s.lastTouchX || y != s.lastTouchY {
				s.lastTouchX, s.lastTouchY = x, y
				s.each(func(sink EventSink) { sink.TouchMove(float64(x), float64(y), now) })
			}
		}
		return
	}

	pressed := inpututil.AppendJustPressedTouchIDs(nil)
	if len(pressed) == 0 {
		return
	}
	s.trackedTouch = pressed[0]
	s.tracking = true
	s.lastTouchX, s.lastTouchY = ebiten.TouchPosition(s.trackedTouch)
	x, y := s.lastTouchX, s.lastTouchY
	s.each(func(sink EventSink) { sink.TouchStart(float64(x), float64(y), now) })
}

func (s *EbitenSource) each(fn func(EventSink)) {
	// 回调中可能解除订阅，遍历副本
	for _, entry := range slices.Clone(s.sinks) {
		fn(entry.sink)
	}
}
