package input

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/decker502/shuttlerally/pkg/config"
)

// Normalizer 输入归一化器
//
// 设备回调可能来自任意 goroutine，所有写操作都持有 mu；
// 模拟循环每帧先 Advance(now) 触发到期的手势定时器，再 Sample() 取快照。
type Normalizer struct {
	mu  sync.Mutex
	cfg config.InputConfig

	keys       [keyCount]bool
	mouseLeft  bool
	mouseRight bool
	pointer    Point

	// 画布在宿主坐标系中的左上角，用于把 client 坐标转换为画布坐标
	surfaceLeft float64
	surfaceTop  float64

	// 触摸手势状态
	gesture        GestureState
	session        uint64
	touchActive    bool
	hasTouch       bool
	touchPos       Point
	touchStart     Point
	touchStartTime Timestamp
	swipeDetected  bool
	hasTapped      bool
	lastTapTime    Timestamp
	holdTask       TaskID
	synth          synthFlags

	timers        *TimerQueue
	unsubscribers []func()
	disposed      bool
}

// NewNormalizer 创建输入归一化器
func NewNormalizer(cfg config.InputConfig) *Normalizer {
	return &Normalizer{
		cfg:    cfg,
		timers: NewTimerQueue(),
	}
}

// Attach 订阅设备事件源，Dispose 时自动解除订阅
func (n *Normalizer) Attach(src Source) {
	unsubscribe := src.Subscribe(n)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed {
		unsubscribe()
		return
	}
	n.unsubscribers = append(n.unsubscribers, unsubscribe)
}

// SetSurfaceRect 设置画布左上角在宿主坐标系中的位置
func (n *Normalizer) SetSurfaceRect(left, top float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.surfaceLeft = left
	n.surfaceTop = top
}

// KeyDown 实现 EventSink
func (n *Normalizer) KeyDown(k Key) {
	n.setKey(k, true)
}

// KeyUp 实现 EventSink
func (n *Normalizer) KeyUp(k Key) {
	n.setKey(k, false)
}

func (n *Normalizer) setKey(k Key, down bool) {
	if k < 0 || k >= keyCount {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed {
		return
	}
	n.keys[k] = down
}

// PointerMove 实现 EventSink
func (n *Normalizer) PointerMove(clientX, clientY float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed {
		return
	}
	n.pointer = n.toSurface(clientX, clientY)
}

// PointerDown 实现 EventSink
func (n *Normalizer) PointerDown(b MouseButton) {
	n.setButton(b, true)
}

// PointerUp 实现 EventSink
func (n *Normalizer) PointerUp(b MouseButton) {
	n.setButton(b, false)
}

func (n *Normalizer) setButton(b MouseButton, down bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed {
		return
	}
	switch b {
	case MouseButtonLeft:
		n.mouseLeft = down
	case MouseButtonRight:
		n.mouseRight = down
	}
}

// TouchStart 实现 EventSink
// 记录起点并启动长按计时器，上一次触摸合成的按键在此清除
func (n *Normalizer) TouchStart(clientX, clientY float64, now Timestamp) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed {
		return
	}

	// 上一次触摸尚未到期的清理任务属于旧会话，不能作用于新的触摸
	n.timers.CancelSession(n.session)
	n.synth.reset()

	p := n.toSurface(clientX, clientY)
	n.session++
	n.touchPos = p
	n.touchStart = p
	n.hasTouch = true
	n.touchActive = true
	n.touchStartTime = now
	n.swipeDetected = false
	n.gesture = GestureDown

	n.timers.Cancel(n.holdTask)
	n.holdTask = n.timers.Schedule(n.session, now+n.cfg.Hold(), n.onHold)
}

// onHold 长按计时器回调（在 Advance 中、持有锁时执行）
func (n *Normalizer) onHold() {
	n.holdTask = 0
	n.synth.power = true
	n.synth.hit = true
	n.gesture = GestureHeld
}

// TouchMove 实现 EventSink
// 超过移动阈值后按主导轴设置唯一的方向键，快速滑动额外触发一次击球
func (n *Normalizer) TouchMove(clientX, clientY float64, now Timestamp) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed || !n.touchActive {
		return
	}

	n.touchPos = n.toSurface(clientX, clientY)
	dx := n.touchPos.X - n.touchStart.X
	dy := n.touchPos.Y - n.touchStart.Y
	distance := math.Hypot(dx, dy)
	if distance <= n.cfg.MoveThreshold {
		return
	}

	n.timers.Cancel(n.holdTask)
	n.holdTask = 0
	n.gesture = GestureMoving

	// 每次移动都重新计算，方向键互斥，不累积
	n.synth.clearDirections()
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			n.synth.right = true
		} else {
			n.synth.left = true
		}
	} else {
		if dy > 0 {
			n.synth.down = true
		} else {
			n.synth.up = true
		}
	}

	// 同一毫秒内的移动按 1ms 计算，避免除零
	elapsedMs := max(float64(now-n.touchStartTime)/float64(time.Millisecond), 1)
	if speed := distance / elapsedMs; speed > n.cfg.SwipeSpeed && !n.swipeDetected {
		n.synth.hit = true
		n.swipeDetected = true
	}
}

// TouchEnd 实现 EventSink
// 短促且几乎没有位移的触摸判定为单击（普通击球）或双击（重击）
func (n *Normalizer) TouchEnd(now Timestamp) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed {
		return
	}

	n.timers.Cancel(n.holdTask)
	n.holdTask = 0
	if !n.touchActive {
		// 重复抬起：状态已清理，忽略
		return
	}

	gesture := GestureIdle
	duration := now - n.touchStartTime
	distance := math.Hypot(n.touchPos.X-n.touchStart.X, n.touchPos.Y-n.touchStart.Y)
	if duration < n.cfg.TapMax() && distance < n.cfg.MoveThreshold {
		if n.hasTapped && now-n.lastTapTime < n.cfg.DoubleTap() {
			n.synth.power = true
			n.synth.hit = true
		} else {
			n.synth.hit = true
		}
		n.hasTapped = true
		n.lastTapTime = now
		gesture = GestureTap
	}

	n.touchActive = false
	n.gesture = gesture
	n.scheduleRelease(now)
}

// TouchCancel 实现 EventSink
// 系统取消触摸时只清理状态，不合成单击
func (n *Normalizer) TouchCancel(now Timestamp) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed {
		return
	}

	n.timers.Cancel(n.holdTask)
	n.holdTask = 0
	if !n.touchActive {
		return
	}
	n.touchActive = false
	n.gesture = GestureIdle
	n.scheduleRelease(now)
}

// scheduleRelease 抬起后延迟清理合成按键，使其表现为一次离散的按下
func (n *Normalizer) scheduleRelease(now Timestamp) {
	n.timers.Schedule(n.session, now+n.cfg.ReleaseClear(), n.synth.reset)
}

// Advance 触发所有到期的手势定时器
func (n *Normalizer) Advance(now Timestamp) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed {
		return
	}
	n.timers.Advance(now)
}

// Sample 返回当前帧的操作意图
// 键盘、鼠标、触摸手势中的等价输入做逻辑或
func (n *Normalizer) Sample() Intent {
	n.mu.Lock()
	defer n.mu.Unlock()

	space := n.keys[KeySpace] || n.synth.hit
	shift := n.keys[KeyShiftLeft] || n.synth.power

	return Intent{
		Left:        n.keys[KeyArrowLeft] || n.keys[KeyA] || n.synth.left,
		Right:       n.keys[KeyArrowRight] || n.keys[KeyD] || n.synth.right,
		Up:          n.keys[KeyArrowUp] || n.keys[KeyW] || n.synth.up,
		Down:        n.keys[KeyArrowDown] || n.keys[KeyS] || n.synth.down,
		Hit:         space || n.mouseLeft,
		PowerHit:    (space && shift) || n.mouseRight,
		Pointer:     n.pointer,
		Touch:       n.touchPos,
		HasTouch:    n.hasTouch,
		TouchActive: n.touchActive,
	}
}

// Gesture 返回当前（或最近一次）触摸的手势分类
func (n *Normalizer) Gesture() GestureState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gesture
}

// PendingTimers 返回尚未触发的手势定时器数量
func (n *Normalizer) PendingTimers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.timers.Pending()
}

// Dispose 取消全部定时任务并解除设备订阅
// 之后到达的事件和定时器都会被忽略；重复调用无副作用
func (n *Normalizer) Dispose() {
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		return
	}
	n.disposed = true
	cancelled := n.timers.CancelAll()
	n.holdTask = 0
	n.touchActive = false
	n.gesture = GestureIdle
	n.keys = [keyCount]bool{}
	n.mouseLeft, n.mouseRight = false, false
	n.synth.reset()
	unsubscribers := n.unsubscribers
	n.unsubscribers = nil
	n.mu.Unlock()

	// 解除订阅放在锁外，避免事件源回调时死锁
	for _, unsubscribe := range unsubscribers {
		unsubscribe()
	}
	log.Printf("[Input] Normalizer disposed (cancelled %d timers, %d subscriptions)", cancelled, len(unsubscribers))
}

// toSurface 把宿主 client 坐标转换为画布坐标
func (n *Normalizer) toSurface(clientX, clientY float64) Point {
	return Point{X: clientX - n.surfaceLeft, Y: clientY - n.surfaceTop}
}
