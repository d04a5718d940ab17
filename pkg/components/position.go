package components

// PositionComponent 存储实体在球场中的位置（像素）
type PositionComponent struct {
	X float64
	Y float64
}
