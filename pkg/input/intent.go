// Package input 把键盘、鼠标、触摸等设备事件归一化为每帧的操作意图（Intent）
//
// 设备事件只写入 Normalizer 的内部缓冲，模拟循环每帧调用一次 Sample() 取得一致的快照。
// 触摸手势（单击、双击、长按、滑动）通过 TimerQueue 中的可取消定时任务识别。
package input

// Key 逻辑按键
// 与具体设备库解耦，EbitenSource 负责把 ebiten.Key 映射到这里
type Key int

const (
	KeyArrowLeft Key = iota
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyA
	KeyD
	KeyW
	KeyS
	KeySpace
	KeyShiftLeft
	keyCount
)

// MouseButton 鼠标按键
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
)

// Point 画布坐标系中的点（像素）
type Point struct {
	X float64
	Y float64
}

// Intent 一帧的操作意图快照
type Intent struct {
	Left  bool
	Right bool
	Up    bool
	Down  bool

	Hit      bool // 普通击球
	PowerHit bool // 重击

	Pointer     Point // 鼠标位置（画布坐标）
	Touch       Point // 最近一次触摸位置（画布坐标），HasTouch 为 false 时无意义
	HasTouch    bool
	TouchActive bool // 当前是否有手指按在屏幕上
}

// EventSink 设备事件接收方
// 触摸事件携带单调时钟时间戳，用于手势时长判定
type EventSink interface {
	KeyDown(k Key)
	KeyUp(k Key)
	PointerMove(clientX, clientY float64)
	PointerDown(b MouseButton)
	PointerUp(b MouseButton)
	TouchStart(clientX, clientY float64, now Timestamp)
	TouchMove(clientX, clientY float64, now Timestamp)
	TouchEnd(now Timestamp)
	TouchCancel(now Timestamp)
}

// Source 设备事件源
// Subscribe 返回的函数用于解除订阅，Normalizer.Dispose 时调用
type Source interface {
	Subscribe(sink EventSink) (unsubscribe func())
}
