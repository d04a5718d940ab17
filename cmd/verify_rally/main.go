// verify_rally 无窗口运行模拟循环，用脚本化输入打完一场比赛并检查实体边界
//
// 用法:
//
//	go run ./cmd/verify_rally -frames 36000 -difficulty 0.5
//	go run ./cmd/verify_rally -touch -verbose
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/decker502/shuttlerally/pkg/components"
	"github.com/decker502/shuttlerally/pkg/config"
	"github.com/decker502/shuttlerally/pkg/engine"
	"github.com/decker502/shuttlerally/pkg/types"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	frames     = flag.Int("frames", 60*60*10, "最多模拟的帧数（60 帧/秒）")
	seed       = flag.Uint64("seed", 1, "随机种子")
	difficulty = flag.Float64("difficulty", 0, "电脑难度 (0,1]，0 表示使用配置值")
	configPath = flag.String("config", "", "玩法配置文件，默认使用内置配置")
	touch      = flag.Bool("touch", false, "用触摸单击代替 Space 击球")
	width      = flag.Float64("width", config.GameWindowWidth, "画布宽度")
	height     = flag.Float64("height", config.GameWindowHeight, "画布高度")
)

// recorder 保存最近一帧快照
type recorder struct {
	last *engine.Frame
}

func (r *recorder) Render(f *engine.Frame) {
	r.last = f
}

// report 一次运行的统计结果
type report struct {
	frames     int
	rallies    int
	humanHits  int
	aiHits     int
	powerups   map[types.PowerupType]int
	violations []string
	human, ai  int
	winner     types.Hitter
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg := config.DefaultGameplayConfig()
	if *configPath != "" {
		loaded, err := config.LoadGameplayConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	r, err := run(cfg, *frames, *seed, *difficulty, *touch, *width, *height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify_rally: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("frames:    %d\n", r.frames)
	fmt.Printf("score:     you %d : %d cpu (%d rallies)\n", r.human, r.ai, r.rallies)
	fmt.Printf("hits:      you %d, cpu %d\n", r.humanHits, r.aiHits)
	for _, kind := range types.AllPowerupTypes {
		fmt.Printf("powerup:   %-13s collected %d\n", kind, r.powerups[kind])
	}
	if r.winner != types.HitterNone {
		fmt.Printf("winner:    %s\n", r.winner)
	}

	if len(r.violations) > 0 {
		for _, v := range r.violations {
			fmt.Println("VIOLATION:", v)
		}
		os.Exit(2)
	}
	fmt.Println("OK")
}

// run 用手动调度器驱动模拟循环，直到比赛结束或帧数用完
func run(cfg *config.GameplayConfig, maxFrames int, seed uint64, difficulty float64, touch bool, w, h float64) (*report, error) {
	rec := &recorder{}
	scheduler := engine.NewManualScheduler()
	loop, err := engine.New(engine.Options{
		Width:      w,
		Height:     h,
		Difficulty: difficulty,
		Config:     cfg,
		Renderer:   rec,
		Scheduler:  scheduler,
		Rand:       rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	})
	if err != nil {
		return nil, err
	}

	r := &report{powerups: make(map[types.PowerupType]int)}
	done := false
	loop.OnScoreUpdate(func(human, ai int) {
		if human+ai > 0 {
			r.rallies++
		}
		r.human, r.ai = human, ai
	})
	loop.OnPowerupChange(func(kind types.PowerupType) {
		if kind != types.PowerupNone {
			r.powerups[kind]++
		}
	})
	loop.OnMatchOver(func(winner types.Hitter) {
		r.winner = winner
		done = true
	})

	loop.Start()
	pilot := newAutopilot(loop.Input(), cfg.Shuttle.Drag, touch)
	step := time.Second / 60
	var now time.Duration
	lastHitter := types.HitterNone

	for r.frames < maxFrames && !done {
		pilot.drive(rec.last, now)
		now += step
		scheduler.Fire(now)
		r.frames++

		f := rec.last
		if f == nil {
			continue
		}
		if f.LastHitter != lastHitter {
			switch f.LastHitter {
			case types.HitterHuman:
				r.humanHits++
			case types.HitterAI:
				r.aiHits++
			}
			lastHitter = f.LastHitter
		}
		r.violations = append(r.violations, checkFrame(r.frames, f)...)
	}

	pilot.release(now)
	loop.Stop()
	return r, nil
}

// checkFrame 检查每帧的实体边界
func checkFrame(n int, f *engine.Frame) []string {
	var out []string
	const eps = 1e-6

	p := f.Player.Bounds
	if p.X < -eps || p.X+p.Width/2 > f.MidX+eps {
		out = append(out, fmt.Sprintf("frame %d: player x=%.2f outside [0, %.2f]", n, p.X, f.MidX-p.Width/2))
	}
	if p.Bottom() > f.FloorY+eps {
		out = append(out, fmt.Sprintf("frame %d: player below floor (bottom=%.2f)", n, p.Bottom()))
	}

	o := f.Opponent.Bounds
	if o.X+o.Width < f.MidX+o.Width/2-eps || o.Right() > f.Width+eps {
		out = append(out, fmt.Sprintf("frame %d: opponent x=%.2f outside its half", n, o.X))
	}

	if f.Shuttle.X < -eps || f.Shuttle.X > f.Width+eps || f.Shuttle.Y < -eps {
		out = append(out, fmt.Sprintf("frame %d: shuttle (%.2f, %.2f) outside court", n, f.Shuttle.X, f.Shuttle.Y))
	}

	active := 0
	for _, pu := range f.Powerups {
		if pu.State == components.PowerupActive {
			active++
		}
	}
	if active > 1 {
		out = append(out, fmt.Sprintf("frame %d: %d active powerups", n, active))
	}
	return out
}
