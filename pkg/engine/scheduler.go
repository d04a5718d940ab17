package engine

import (
	"slices"
	"time"
)

// FrameHandle 帧请求句柄，0 表示无效
type FrameHandle uint64

// FrameScheduler 帧调度器，对应浏览器的 requestAnimationFrame
//
// 每次 RequestFrame 只触发一次回调；回调参数是宿主提供的单调时间戳。
type FrameScheduler interface {
	RequestFrame(cb func(now time.Duration)) FrameHandle
	CancelFrame(h FrameHandle)
}

// ManualScheduler 手动驱动的帧调度器
//
// 用于无窗口运行（命令行验证工具）和测试：调用 Fire(now) 时执行所有已请求的回调。
// Ebitengine 的 Update 也通过它驱动模拟循环。
type ManualScheduler struct {
	next    FrameHandle
	pending []scheduledFrame

	requested int
	cancelled int
}

type scheduledFrame struct {
	handle FrameHandle
	cb     func(now time.Duration)
}

// NewManualScheduler 创建手动帧调度器
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{next: 1}
}

// RequestFrame 实现 FrameScheduler
func (s *ManualScheduler) RequestFrame(cb func(now time.Duration)) FrameHandle {
	h := s.next
	s.next++
	s.pending = append(s.pending, scheduledFrame{handle: h, cb: cb})
	s.requested++
	return h
}

// CancelFrame 实现 FrameScheduler
func (s *ManualScheduler) CancelFrame(h FrameHandle) {
	before := len(s.pending)
	s.pending = slices.DeleteFunc(s.pending, func(f scheduledFrame) bool {
		return f.handle == h
	})
	if len(s.pending) < before {
		s.cancelled++
	}
}

// Fire 执行当前所有待触发的回调，回调中新请求的帧留到下一次 Fire
func (s *ManualScheduler) Fire(now time.Duration) int {
	frames := s.pending
	s.pending = nil
	for _, f := range frames {
		f.cb(now)
	}
	return len(frames)
}

// Pending 待触发的帧数量
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// Requested 累计请求次数
func (s *ManualScheduler) Requested() int {
	return s.requested
}

// Cancelled 累计成功取消次数
func (s *ManualScheduler) Cancelled() int {
	return s.cancelled
}
