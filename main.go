package main

import (
	"flag"
	"log"

	"github.com/decker502/shuttlerally/pkg/app"
	"github.com/decker502/shuttlerally/pkg/config"
	"github.com/decker502/shuttlerally/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细日志")
	character  = flag.Int("character", -1, "角色序号（0 Sakura, 1 Takeshi, 2 Yumi），默认使用保存的偏好")
	difficulty = flag.Float64("difficulty", 0, "电脑难度 (0,1]，默认使用保存的偏好")
)

func main() {
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:        *verbose,
		CharacterIndex: *character,
		Difficulty:     *difficulty,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Shuttle Rally")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(gameApp)
	gameApp.Close()
	if err != nil {
		log.Fatal(err)
	}
}
