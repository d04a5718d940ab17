package render

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Character 可选角色的外观，只影响绘制
type Character struct {
	Name string
	Body color.RGBA
	Hair color.RGBA
}

var characters = []Character{
	{Name: "Sakura", Body: mustHex("#FFB7C5"), Hair: mustHex("#FF69B4")},
	{Name: "Takeshi", Body: mustHex("#87CEEB"), Hair: mustHex("#4169E1")},
	{Name: "Yumi", Body: mustHex("#98FB98"), Hair: mustHex("#98FB98")},
}

// 固定配色
var (
	skyTop       = colorful.Color{R: 0x87 / 255.0, G: 0xCE / 255.0, B: 0xEB / 255.0}
	skyBottom    = colorful.Color{R: 0x6A / 255.0, G: 0x92 / 255.0, B: 0xF0 / 255.0}
	floorTop     = colorful.Color{R: 0x98 / 255.0, G: 0xFB / 255.0, B: 0x98 / 255.0}
	floorBottom  = colorful.Color{R: 0x78 / 255.0, G: 0xCD / 255.0, B: 0x78 / 255.0}
	skinColor    = mustHex("#FFE0BD")
	opponentBody = mustHex("#87CEEB")
	opponentHair = mustHex("#4A4A4A")
	netPostColor = mustHex("#8B4513")
	shuttleColor = mustHex("#F5DEB3")
)

// CharacterCount 可选角色数量
func CharacterCount() int {
	return len(characters)
}

// CharacterPalette 按序号取角色外观
// 序号按角色数取模，越界或负数也会落到有效角色上
func CharacterPalette(index int) Character {
	n := len(characters)
	return characters[((index%n)+n)%n]
}

// ParseHexColor 解析 "#RRGGBB" 或 "#RGB" 格式的颜色
func ParseHexColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return toRGBA(c, 255), nil
}

func mustHex(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// gradient 在两个颜色之间按 t ∈ [0,1] 插值
func gradient(from, to colorful.Color, t float64) color.RGBA {
	return toRGBA(from.BlendRgb(to, t).Clamped(), 255)
}

func toRGBA(c colorful.Color, alpha uint8) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}
}

// withAlpha 返回非预乘的半透明颜色
func withAlpha(c color.RGBA, alpha uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}
