package config

// 布局配置常量
// 逻辑画布固定为 16:9，Ebitengine 负责把逻辑画布缩放到实际窗口

const (
	// GameWindowWidth 逻辑画布宽度（像素）
	GameWindowWidth = 1280

	// GameWindowHeight 逻辑画布高度（像素）
	GameWindowHeight = 720

	// AspectRatio 画布宽高比
	AspectRatio = 16.0 / 9.0
)

// FitAspect 在给定容器尺寸内计算保持 16:9 的最大画布尺寸
// 先按宽度计算，高度超出时改按高度计算
func FitAspect(containerWidth, containerHeight float64) (float64, float64) {
	width := containerWidth
	height := containerWidth / AspectRatio
	if height > containerHeight {
		height = containerHeight
		width = containerHeight * AspectRatio
	}
	return width, height
}
