package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/averma/studymate/internal/backend"
	"github.com/averma/studymate/internal/config"
	"github.com/averma/studymate/internal/speech"
	"github.com/averma/studymate/internal/tui"
)

func main() {
	configPath := flag.String("config", "studymate.yaml", "path to the YAML config file")
	backendURL := flag.String("backend", "", "override the backend base URL")
	timeout := flag.Duration("timeout", 0, "override the backend request timeout")
	speechCmd := flag.String("speech-command", "", "override the TTS command line (eg. \"espeak -s 150\")")
	noSpeech := flag.Bool("no-speech", false, "disable spoken dialogue playback")
	exportDir := flag.String("export-dir", "", "override the export directory")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}
	if *backendURL != "" {
		cfg.BackendURL = *backendURL
	}
	if *timeout > 0 {
		cfg.RequestTimeout = *timeout
	}
	if *speechCmd != "" {
		cfg.SpeechCommand = *speechCmd
	}
	if *exportDir != "" {
		cfg.ExportDir = *exportDir
	}

	gateway := backend.New(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.RequestTimeout,
	})

	engine := speech.NewExecEngine(cfg.SpeechCommand)
	if *noSpeech {
		engine = speech.NullEngine{}
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Gateway:        gateway,
			Speech:         speech.NewController(engine),
			RequestTimeout: cfg.RequestTimeout,
			ExportDir:      cfg.ExportDir,
			ExportFormat:   cfg.ExportFormat,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
