package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/decker502/shuttlerally/pkg/types"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 配置校验失败时返回（通过 errors.Is 判断）
var ErrInvalidConfig = errors.New("invalid gameplay config")

// GameplayConfig 玩法调参配置
//
// 所有长度类参数都以"画布尺寸的比例"表示，实际像素值在实体创建或 Resize 时计算，
// 这样同一份配置可以适配任意分辨率。
//
// 配置文件位置: data/gameplay.yaml
type GameplayConfig struct {
	Court    CourtConfig    `yaml:"court"`
	Shuttle  ShuttleConfig  `yaml:"shuttle"`
	Player   PlayerConfig   `yaml:"player"`
	Opponent OpponentConfig `yaml:"opponent"`
	Powerups PowerupConfig  `yaml:"powerups"`
	Input    InputConfig    `yaml:"input"`
	Match    MatchConfig    `yaml:"match"`
}

// CourtConfig 球场几何参数
type CourtConfig struct {
	// FloorRatio 地面线高度（相对画布高度），必须在 (0,1) 之间
	FloorRatio float64 `yaml:"floorRatio"`
	// NetHeightRatio 球网高度（相对画布高度），仅用于绘制
	NetHeightRatio float64 `yaml:"netHeightRatio"`
	// WallDamping 撞墙/撞顶反弹的速度保留比例
	WallDamping float64 `yaml:"wallDamping"`
}

// ShuttleConfig 羽毛球飞行与击球参数
type ShuttleConfig struct {
	ServeHeightRatio    float64 `yaml:"serveHeightRatio"`    // 发球点高度（相对画布高度）
	GravityRatio        float64 `yaml:"gravityRatio"`        // 重力（相对画布高度，像素/秒²）
	SizeRatio           float64 `yaml:"sizeRatio"`           // 球半径（相对画布宽度）
	Drag                float64 `yaml:"drag"`                // 每帧速度衰减系数
	ServeJitterRatio    float64 `yaml:"serveJitterRatio"`    // 发球水平随机速度（相对画布宽度）
	ServeLiftRatio      float64 `yaml:"serveLiftRatio"`      // 发球向上初速度（相对画布高度）
	ErraticChance       float64 `yaml:"erraticChance"`       // 迷踪生效时每帧扰动概率
	ErraticImpulseRatio float64 `yaml:"erraticImpulseRatio"` // 迷踪扰动强度
	HitSpeedRatio       float64 `yaml:"hitSpeedRatio"`       // 击球基础速度（相对画布宽度）
	SweetSpotRatio      float64 `yaml:"sweetSpotRatio"`      // 力度随距离衰减的参考距离（相对画布宽度）
	MinForce            float64 `yaml:"minForce"`            // 力度下限
	PowerMultiplier     float64 `yaml:"powerMultiplier"`     // 重击倍率
	HumanLift           float64 `yaml:"humanLift"`           // 玩家击球额外上挑（相对画布高度）
	AILift              float64 `yaml:"aiLift"`              // 电脑击球额外上挑（相对画布高度）
	HumanJitter         float64 `yaml:"humanJitter"`         // 玩家击球随机扰动
	AIJitter            float64 `yaml:"aiJitter"`            // 电脑击球随机扰动（更小，保证回球稳定）
}

// PlayerConfig 玩家角色参数
type PlayerConfig struct {
	WidthRatio      float64 `yaml:"widthRatio"`
	HeightRatio     float64 `yaml:"heightRatio"`
	SpeedRatio      float64 `yaml:"speedRatio"`      // 基础速度（相对画布宽度/秒）
	BoostMultiplier float64 `yaml:"boostMultiplier"` // 加速道具倍率
	ServeXRatio     float64 `yaml:"serveXRatio"`     // 发球站位
}

// OpponentConfig 电脑对手参数
type OpponentConfig struct {
	Difficulty         float64 `yaml:"difficulty"`         // 难度 (0,1]
	SpeedRatio         float64 `yaml:"speedRatio"`         // 满难度速度（相对画布宽度/秒）
	MaxReactionDelay   float64 `yaml:"maxReactionDelay"`   // 难度为0时的反应延迟（秒）
	StopDistance       float64 `yaml:"stopDistance"`       // 到达目标的判定距离（像素）
	ReadyXRatio        float64 `yaml:"readyXRatio"`        // 网前准备位置
	NeutralXRatio      float64 `yaml:"neutralXRatio"`      // 回中位置
	NeutralSpreadRatio float64 `yaml:"neutralSpreadRatio"` // 回中随机偏移范围
	ServeXRatio        float64 `yaml:"serveXRatio"`        // 发球站位
}

// PowerupConfig 道具参数
type PowerupConfig struct {
	SpawnChance  float64             `yaml:"spawnChance"`  // 每帧生成概率
	PickupRadius float64             `yaml:"pickupRadius"` // 拾取半径（像素）
	EdgeMargin   float64             `yaml:"edgeMargin"`   // 生成区域边缘留白比例
	Types        []PowerupTypeConfig `yaml:"types"`
}

// PowerupTypeConfig 单个道具类型配置
type PowerupTypeConfig struct {
	Name     string  `yaml:"name"`
	Duration float64 `yaml:"duration"` // 生效时长（秒）
	Color    string  `yaml:"color"`    // 绘制颜色（#RRGGBB）
}

// InputConfig 触摸手势识别阈值
type InputConfig struct {
	HoldMs         float64 `yaml:"holdMs"`         // 长按触发重击
	MoveThreshold  float64 `yaml:"moveThreshold"`  // 移动判定距离（像素）
	TapMaxMs       float64 `yaml:"tapMaxMs"`       // 单击最长持续时间
	DoubleTapMs    float64 `yaml:"doubleTapMs"`    // 双击间隔
	SwipeSpeed     float64 `yaml:"swipeSpeed"`     // 滑动击球速度阈值（像素/毫秒）
	ReleaseClearMs float64 `yaml:"releaseClearMs"` // 抬起后合成按键的自动释放延迟
}

// MatchConfig 比赛规则参数
type MatchConfig struct {
	WinningScore int     `yaml:"winningScore"`
	MaxDeltaTime float64 `yaml:"maxDeltaTime"` // 单帧最大时间步长（秒），吸收切后台造成的大跳帧
}

// DefaultGameplayConfig 返回内置默认配置（与 data/gameplay.yaml 一致）
func DefaultGameplayConfig() *GameplayConfig {
	return &GameplayConfig{
		Court: CourtConfig{
			FloorRatio:     0.85,
			NetHeightRatio: 0.15,
			WallDamping:    0.8,
		},
		Shuttle: ShuttleConfig{
			ServeHeightRatio:    0.5,
			GravityRatio:        0.4,
			SizeRatio:           0.007,
			Drag:                0.995,
			ServeJitterRatio:    0.1,
			ServeLiftRatio:      0.1,
			ErraticChance:       0.1,
			ErraticImpulseRatio: 0.1,
			HitSpeedRatio:       1.0,
			SweetSpotRatio:      0.4,
			MinForce:            0.5,
			PowerMultiplier:     1.8,
			HumanLift:           0.8,
			AILift:              0.5,
			HumanJitter:         0.03,
			AIJitter:            0.02,
		},
		Player: PlayerConfig{
			WidthRatio:      0.05,
			HeightRatio:     0.1,
			SpeedRatio:      0.5,
			BoostMultiplier: 1.5,
			ServeXRatio:     0.25,
		},
		Opponent: OpponentConfig{
			Difficulty:         0.75,
			SpeedRatio:         0.4,
			MaxReactionDelay:   0.3,
			StopDistance:       5,
			ReadyXRatio:        0.65,
			NeutralXRatio:      0.7,
			NeutralSpreadRatio: 0.1,
			ServeXRatio:        0.75,
		},
		Powerups: PowerupConfig{
			SpawnChance:  0.005,
			PickupRadius: 20,
			EdgeMargin:   0.1,
			Types: []PowerupTypeConfig{
				{Name: "speedBoost", Duration: 10, Color: "#87CEEB"},
				{Name: "powerHit", Duration: 5, Color: "#FFB7C5"},
				{Name: "misdirection", Duration: 8, Color: "#98FB98"},
			},
		},
		Input: InputConfig{
			HoldMs:         500,
			MoveThreshold:  10,
			TapMaxMs:       200,
			DoubleTapMs:    300,
			SwipeSpeed:     0.5,
			ReleaseClearMs: 100,
		},
		Match: MatchConfig{
			WinningScore: 21,
			MaxDeltaTime: 0.1,
		},
	}
}

// LoadGameplayConfig 从文件加载玩法配置
//
// 参数:
//   - path: 配置文件路径（如 "data/gameplay.yaml"）
//
// 返回:
//   - *GameplayConfig: 加载并校验后的配置
//   - error: 读取、解析或校验失败时返回错误
func LoadGameplayConfig(path string) (*GameplayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gameplay config: %w", err)
	}
	return ParseGameplayConfig(data)
}

// ParseGameplayConfig 解析 YAML 格式的玩法配置
//
// 未出现在 YAML 中的字段保留默认值，因此配置文件只需要写需要调整的参数。
func ParseGameplayConfig(data []byte) (*GameplayConfig, error) {
	cfg := DefaultGameplayConfig()
	// 道具表整体替换而不是逐项合并
	cfg.Powerups.Types = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse gameplay config: %w", err)
	}
	if len(cfg.Powerups.Types) == 0 {
		cfg.Powerups.Types = DefaultGameplayConfig().Powerups.Types
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 验证配置有效性
func (c *GameplayConfig) Validate() error {
	if c.Court.FloorRatio <= 0 || c.Court.FloorRatio >= 1 {
		return fmt.Errorf("%w: court.floorRatio must be in (0,1), got %.3f", ErrInvalidConfig, c.Court.FloorRatio)
	}
	if c.Court.WallDamping < 0 || c.Court.WallDamping > 1 {
		return fmt.Errorf("%w: court.wallDamping must be in [0,1], got %.3f", ErrInvalidConfig, c.Court.WallDamping)
	}
	if c.Shuttle.Drag <= 0 || c.Shuttle.Drag > 1 {
		return fmt.Errorf("%w: shuttle.drag must be in (0,1], got %.3f", ErrInvalidConfig, c.Shuttle.Drag)
	}
	if c.Shuttle.GravityRatio <= 0 {
		return fmt.Errorf("%w: shuttle.gravityRatio must be positive, got %.3f", ErrInvalidConfig, c.Shuttle.GravityRatio)
	}
	if c.Player.WidthRatio <= 0 || c.Player.HeightRatio <= 0 {
		return fmt.Errorf("%w: player size ratios must be positive", ErrInvalidConfig)
	}
	// 纵向活动带 [floor-2h, floor-h] 必须落在画布内
	if 2*c.Player.HeightRatio >= c.Court.FloorRatio {
		return fmt.Errorf("%w: player.heightRatio %.3f too large for floor %.3f", ErrInvalidConfig, c.Player.HeightRatio, c.Court.FloorRatio)
	}
	if c.Opponent.Difficulty <= 0 || c.Opponent.Difficulty > 1 {
		return fmt.Errorf("%w: opponent.difficulty must be in (0,1], got %.3f", ErrInvalidConfig, c.Opponent.Difficulty)
	}
	if c.Powerups.SpawnChance < 0 || c.Powerups.SpawnChance > 1 {
		return fmt.Errorf("%w: powerups.spawnChance must be in [0,1], got %.4f", ErrInvalidConfig, c.Powerups.SpawnChance)
	}
	if c.Powerups.EdgeMargin < 0 || c.Powerups.EdgeMargin >= 0.5 {
		return fmt.Errorf("%w: powerups.edgeMargin must be in [0,0.5), got %.3f", ErrInvalidConfig, c.Powerups.EdgeMargin)
	}
	seen := make(map[types.PowerupType]bool)
	for _, pt := range c.Powerups.Types {
		kind, ok := types.ParsePowerupType(pt.Name)
		if !ok {
			return fmt.Errorf("%w: unknown powerup type '%s'", ErrInvalidConfig, pt.Name)
		}
		if seen[kind] {
			return fmt.Errorf("%w: duplicate powerup type '%s'", ErrInvalidConfig, pt.Name)
		}
		seen[kind] = true
		if pt.Duration <= 0 {
			return fmt.Errorf("%w: powerup '%s' duration must be positive, got %.2f", ErrInvalidConfig, pt.Name, pt.Duration)
		}
	}
	if c.Input.MoveThreshold <= 0 || c.Input.HoldMs <= 0 || c.Input.TapMaxMs <= 0 {
		return fmt.Errorf("%w: input thresholds must be positive", ErrInvalidConfig)
	}
	if c.Match.WinningScore <= 0 {
		return fmt.Errorf("%w: match.winningScore must be positive, got %d", ErrInvalidConfig, c.Match.WinningScore)
	}
	if c.Match.MaxDeltaTime <= 0 {
		return fmt.Errorf("%w: match.maxDeltaTime must be positive, got %.3f", ErrInvalidConfig, c.Match.MaxDeltaTime)
	}
	return nil
}

// PowerupDuration 返回指定道具类型的生效时长，未配置时返回 0
func (c *PowerupConfig) PowerupDuration(kind types.PowerupType) float64 {
	for _, pt := range c.Types {
		if parsed, ok := types.ParsePowerupType(pt.Name); ok && parsed == kind {
			return pt.Duration
		}
	}
	return 0
}

// EnabledTypes 返回配置中启用的道具类型（保持配置顺序）
func (c *PowerupConfig) EnabledTypes() []types.PowerupType {
	result := make([]types.PowerupType, 0, len(c.Types))
	for _, pt := range c.Types {
		if kind, ok := types.ParsePowerupType(pt.Name); ok {
			result = append(result, kind)
		}
	}
	return result
}

// ColorOf 返回道具类型的绘制颜色，未配置时返回白色
func (c *PowerupConfig) ColorOf(kind types.PowerupType) string {
	for _, pt := range c.Types {
		if parsed, ok := types.ParsePowerupType(pt.Name); ok && parsed == kind && pt.Color != "" {
			return pt.Color
		}
	}
	return "#FFFFFF"
}

// Hold 长按阈值
func (c InputConfig) Hold() time.Duration { return msToDuration(c.HoldMs) }

// TapMax 单击最长持续时间
func (c InputConfig) TapMax() time.Duration { return msToDuration(c.TapMaxMs) }

// DoubleTap 双击间隔
func (c InputConfig) DoubleTap() time.Duration { return msToDuration(c.DoubleTapMs) }

// ReleaseClear 合成按键自动释放延迟
func (c InputConfig) ReleaseClear() time.Duration { return msToDuration(c.ReleaseClearMs) }

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
