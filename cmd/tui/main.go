package main

import (
	"fmt"
	"os"

	"codeberg.org/pixelmind/server/internal/config"
	"codeberg.org/pixelmind/server/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	flags := config.ParseViewerFlags(os.Args[1:])

	if flags.Token == "" {
		fmt.Println("a bearer token is required: pass -token or set PIXELMIND_TOKEN")
		os.Exit(1)
	}

	app := tui.NewApp(flags)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running pixelmind viewer: %v\n", err)
		os.Exit(1)
	}
}
