package main

import (
	"embed"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	execute()
}

// runGUI opens the desktop window and blocks until it is closed.
func runGUI(app *App) error {
	return wails.Run(&options.App{
		Title:            app.tr.T("Power Plan Manager"),
		Width:            850,
		Height:           650,
		MinWidth:         640,
		MinHeight:        480,
		BackgroundColour: &options.RGBA{R: 53, G: 53, B: 53, A: 255},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			Theme:                windows.Dark,
		},
	})
}
