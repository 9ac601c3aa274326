package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/boighor/bookshop/internal/catalog"
	"github.com/boighor/bookshop/internal/config"
	"github.com/boighor/bookshop/internal/gateway"
	"github.com/boighor/bookshop/internal/logger"
	"github.com/boighor/bookshop/internal/tui"
)

func main() {
	cfg, err := config.ReadConfig()
	if err != nil {
		log.Fatal(err)
	}
	zlog := logger.Get(cfg.Debug)
	if cfg.Debug {
		// keep debug output away from the alternate screen
		if f, err := tea.LogToFile("bookshop-debug.log", "debug"); err == nil {
			defer f.Close()
		}
	}
	zlog.Debug().Str("api", cfg.APIBaseURL).Msg("starting bookshop client")

	app := tui.NewApp(cfg, catalog.NewClient(cfg.APIBaseURL), gateway.NewHTTP(cfg.APIBaseURL))
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running bookshop: %v\n", err)
		os.Exit(1)
	}
}
