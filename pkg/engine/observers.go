package engine

import "slices"

// observers 观察者列表，每个订阅返回独立的取消函数
type observers[F any] struct {
	nextID  int
	entries []observerEntry[F]
}

type observerEntry[F any] struct {
	id int
	fn F
}

func (o *observers[F]) add(fn F) func() {
	o.nextID++
	id := o.nextID
	o.entries = append(o.entries, observerEntry[F]{id: id, fn: fn})
	return func() {
		o.entries = slices.DeleteFunc(o.entries, func(e observerEntry[F]) bool {
			return e.id == id
		})
	}
}

// each 依次通知；回调中取消订阅不影响本轮通知
func (o *observers[F]) each(call func(F)) {
	for _, e := range slices.Clone(o.entries) {
		call(e.fn)
	}
}

func (o *observers[F]) count() int {
	return len(o.entries)
}
