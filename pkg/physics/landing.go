package physics

import "math"

const (
	// linearFallbackHorizon 线性估算时附加的重力时间项（秒）
	linearFallbackHorizon = 5
	// dragFramesPerSecond 落点修正时按 60 帧/秒折算每帧阻力
	dragFramesPerSecond = 60
)

// LandingTime 计算球从 y0 落到 floorY 所需的时间（秒）
//
// 求解 floorY = y0 + vy*t + g*t²/2：
//   - 两个正根时取较大者（球正在上升，会先越过再落回）
//   - 否则取非负的那个根
//   - 判别式为负或重力为零时，退化为线性估算 (floorY-y0)/(vy+g*5)
//
// 结果总是有限的非负数，不会返回 NaN 或 Inf。
func LandingTime(y0, vy, gravity, floorY float64) float64 {
	a := gravity / 2
	b := vy
	c := y0 - floorY

	discriminant := b*b - 4*a*c
	if a == 0 || discriminant < 0 {
		return linearLandingTime(y0, vy, gravity, floorY)
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b + sqrtD) / (2 * a)
	t2 := (-b - sqrtD) / (2 * a)

	var t float64
	if t1 > 0 && t2 > 0 {
		t = math.Max(t1, t2)
	} else {
		t = math.Max(0, math.Max(t1, t2))
	}
	return finiteOrZero(t)
}

// linearLandingTime 二次方程无解时的线性估算
func linearLandingTime(y0, vy, gravity, floorY float64) float64 {
	denominator := vy + gravity*linearFallbackHorizon
	if denominator == 0 {
		return 0
	}
	return math.Max(0, finiteOrZero((floorY-y0)/denominator))
}

// PredictLandingX 预测球落到 floorY 时的水平位置
//
// 参数:
//   - body: 球当前的位置和速度
//   - gravity: 重力加速度（像素/秒²）
//   - floorY: 地面线Y坐标
//   - drag: 每帧速度衰减系数，按 60 帧/秒折算为经验修正 drag^(t*60)
func PredictLandingX(body Body, gravity, floorY, drag float64) float64 {
	t := LandingTime(body.Y, body.VY, gravity, floorY)
	correction := math.Pow(drag, t*dragFramesPerSecond)
	return finiteOr(body.X+body.VX*t*correction, body.X)
}

func finiteOrZero(v float64) float64 {
	return finiteOr(v, 0)
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
