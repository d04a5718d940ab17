package components

// CollisionComponent 定义道具的拾取判定范围
// 道具按圆形处理，与玩家碰撞盒中心做距离判定
type CollisionComponent struct {
	Radius float64 // 拾取半径（像素）
}
