package physics

import "iter"

const (
	// TrajectoryStep 轨迹预测的积分步长（秒）
	TrajectoryStep = 0.1
	// TrajectoryMaxPoints 轨迹预测最多输出的点数
	TrajectoryMaxPoints = 20
	// TrajectoryDrag 轨迹预测每步的速度衰减
	TrajectoryDrag = 0.99
)

// Point 平面坐标点
type Point struct {
	X, Y float64
}

// PredictTrajectory 预测球的飞行轨迹，仅用于绘制辅助线
//
// 使用与球本身相同的积分规则，但步长更粗（0.1 秒），最多 20 个点，
// 第一个低于地面线的点输出后结束。
// 返回的序列是惰性的：每次 range 都会从初始状态重新模拟。
func PredictTrajectory(x, y, vx, vy, gravity, floorY float64) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		px, py := x, y
		pvx, pvy := vx, vy
		for range TrajectoryMaxPoints {
			pvy += gravity * TrajectoryStep
			pvx *= TrajectoryDrag
			pvy *= TrajectoryDrag
			px += pvx * TrajectoryStep
			py += pvy * TrajectoryStep

			if !yield(Point{X: px, Y: py}) {
				return
			}
			if py > floorY {
				return
			}
		}
	}
}
