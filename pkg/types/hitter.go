package types

// Hitter 记录最后一次击球的一方（lastHitter）
type Hitter int

const (
	// HitterNone 发球后尚无人击球
	HitterNone Hitter = iota
	// HitterHuman 玩家
	HitterHuman
	// HitterAI 电脑对手
	HitterAI
)

// String 返回击球方的字符串表示
func (h Hitter) String() string {
	switch h {
	case HitterHuman:
		return "human"
	case HitterAI:
		return "ai"
	default:
		return "none"
	}
}
