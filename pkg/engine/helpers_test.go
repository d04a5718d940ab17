package engine

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/decker502/shuttlerally/pkg/config"
	"github.com/decker502/shuttlerally/pkg/input"
	"github.com/stretchr/testify/require"
)

const frameStep = time.Second / 60

// recordingRenderer 记录每次渲染的快照
type recordingRenderer struct {
	frames []*Frame
}

func (r *recordingRenderer) Render(f *Frame) {
	r.frames = append(r.frames, f)
}

func (r *recordingRenderer) last() *Frame {
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// fakeSource 记录订阅状态的设备事件源
type fakeSource struct {
	sinks []input.EventSink
}

func (f *fakeSource) Subscribe(sink input.EventSink) func() {
	f.sinks = append(f.sinks, sink)
	return func() {
		for i, s := range f.sinks {
			if s == sink {
				f.sinks = append(f.sinks[:i], f.sinks[i+1:]...)
				return
			}
		}
	}
}

type testRig struct {
	loop      *Loop
	scheduler *ManualScheduler
	renderer  *recordingRenderer
	source    *fakeSource
	now       time.Duration
}

// newTestRig 创建 800x450 的模拟循环，电脑难度为 1，道具不会自动生成
func newTestRig(t *testing.T, mutate ...func(cfg *config.GameplayConfig)) *testRig {
	t.Helper()
	cfg := config.DefaultGameplayConfig()
	cfg.Powerups.SpawnChance = 0
	for _, fn := range mutate {
		fn(cfg)
	}

	rig := &testRig{
		scheduler: NewManualScheduler(),
		renderer:  &recordingRenderer{},
		source:    &fakeSource{},
	}
	loop, err := New(Options{
		Width:      800,
		Height:     450,
		Difficulty: 1,
		Config:     cfg,
		Renderer:   rig.renderer,
		Scheduler:  rig.scheduler,
		Input:      rig.source,
		Rand:       rand.New(rand.NewPCG(1, 2)),
	})
	require.NoError(t, err)
	rig.loop = loop
	return rig
}

// started 启动循环并跑完第一帧（dt 为 0）
func (r *testRig) started() *testRig {
	r.loop.Start()
	r.step()
	return r
}

// step 推进一帧（每帧 1/60 秒）
func (r *testRig) step() {
	r.now += frameStep
	r.scheduler.Fire(r.now)
}

func (r *testRig) steps(n int) {
	for range n {
		r.step()
	}
}

// sink 返回循环订阅在事件源上的接收者
func (r *testRig) sink(t *testing.T) input.EventSink {
	t.Helper()
	require.Len(t, r.source.sinks, 1)
	return r.source.sinks[0]
}
