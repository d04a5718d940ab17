package components

// Rect 轴对齐矩形（左上角 + 宽高），用于实体碰撞盒和球场边界
type Rect struct {
	X      float64 // 左上角X坐标（像素）
	Y      float64 // 左上角Y坐标（像素）
	Width  float64 // 宽度（像素）
	Height float64 // 高度（像素）
}

// Center 返回矩形中心点
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Right 返回矩形右边界X坐标
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom 返回矩形下边界Y坐标
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}
