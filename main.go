package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/studytracker/internal/alerts"
	"github.com/sadopc/studytracker/internal/store"
	"github.com/sadopc/studytracker/internal/timer"
	"github.com/sadopc/studytracker/internal/tui"
)

func main() {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	app := tui.NewApp(s, timer.New(s))
	p := tea.NewProgram(app, tea.WithAltScreen())

	scheduler := alerts.New(s, tui.NewProgramNotifier(p))
	scheduler.Start()
	defer scheduler.Stop()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
