package entities

import (
	"math/rand/v2"

	"github.com/decker502/shuttlerally/pkg/config"
)

// 测试统一使用 800x450 画布：
// floor=382.5, mid=400, 角色 40x45, 玩家速度 400, 重力 180
const (
	testWidth  = 800.0
	testHeight = 450.0
)

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*7+1))
}

func newTestWorld(seed uint64) (*config.GameplayConfig, *Court, *rand.Rand) {
	cfg := config.DefaultGameplayConfig()
	return cfg, NewCourt(cfg.Court, testWidth, testHeight), newTestRand(seed)
}
