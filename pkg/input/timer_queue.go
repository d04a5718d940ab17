package input

import (
	"slices"
	"time"
)

// TaskID 定时任务句柄，0 表示无效任务
type TaskID uint64

// timerTask 单个定时任务
type timerTask struct {
	id      TaskID
	session uint64        // 所属触摸会话，用于整体取消
	due     time.Duration // 触发时间（单调时钟）
	fn      func()
}

// TimerQueue 手势识别使用的可取消定时任务队列
//
// 任务由宿主时钟驱动：调用 Advance(now) 时按触发时间顺序执行所有到期任务。
// 每个任务都挂在一个触摸会话ID下，Dispose 时可以一次性取消全部任务，
// 保证不会有遗留回调在循环停止后修改状态。
type TimerQueue struct {
	nextID TaskID
	tasks  []*timerTask // 按 due、id 升序
}

// NewTimerQueue 创建空的定时任务队列
func NewTimerQueue() *TimerQueue {
	return &TimerQueue{nextID: 1}
}

// Schedule 注册一个在 due 时刻触发的任务，返回任务句柄
func (q *TimerQueue) Schedule(session uint64, due time.Duration, fn func()) TaskID {
	task := &timerTask{
		id:      q.nextID,
		session: session,
		due:     due,
		fn:      fn,
	}
	q.nextID++

	idx, _ := slices.BinarySearchFunc(q.tasks, task, compareTasks)
	q.tasks = slices.Insert(q.tasks, idx, task)
	return task.id
}

// Cancel 取消指定任务，任务不存在（已触发或已取消）时返回 false
func (q *TimerQueue) Cancel(id TaskID) bool {
	if id == 0 {
		return false
	}
	for i, task := range q.tasks {
		if task.id == id {
			q.tasks = slices.Delete(q.tasks, i, i+1)
			return true
		}
	}
	return false
}

// CancelSession 取消某个会话下的全部任务，返回取消数量
func (q *TimerQueue) CancelSession(session uint64) int {
	before := len(q.tasks)
	q.tasks = slices.DeleteFunc(q.tasks, func(task *timerTask) bool {
		return task.session == session
	})
	return before - len(q.tasks)
}

// CancelAll 取消所有任务，返回取消数量
func (q *TimerQueue) CancelAll() int {
	n := len(q.tasks)
	clear(q.tasks)
	q.tasks = q.tasks[:0]
	return n
}

// Advance 执行所有 due <= now 的任务，返回执行数量
//
// 任务回调内可以再次 Schedule；新任务若同样到期，会在本次 Advance 中一并执行。
func (q *TimerQueue) Advance(now time.Duration) int {
	fired := 0
	for len(q.tasks) > 0 && q.tasks[0].due <= now {
		task := q.tasks[0]
		q.tasks = slices.Delete(q.tasks, 0, 1)
		task.fn()
		fired++
	}
	return fired
}

// Pending 返回尚未触发的任务数量
func (q *TimerQueue) Pending() int {
	return len(q.tasks)
}

func compareTasks(a, b *timerTask) int {
	if a.due != b.due {
		if a.due < b.due {
			return -1
		}
		return 1
	}
	if a.id < b.id {
		return -1
	}
	if a.id > b.id {
		return 1
	}
	return 0
}
