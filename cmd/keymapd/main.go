// Command keymapd grabs a physical keyboard, rewrites its event stream
// against a mapping table built from config and an embedded script,
// and re-emits the result through a synthetic uinput keyboard.
// Grounded on cmd/palaver/main.go's run(): flag parsing, config load,
// device/engine wiring, a goroutine running the long-lived loop, and a
// Bubble Tea program blocking until the user quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/keymapd/keymapd/internal/config"
	"github.com/keymapd/keymapd/internal/device"
	"github.com/keymapd/keymapd/internal/engine"
	"github.com/keymapd/keymapd/internal/hostapi"
	"github.com/keymapd/keymapd/internal/tui"
	"github.com/keymapd/keymapd/internal/winfocus"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging to stderr and the status panel")
	cfgPath := flag.String("config", config.DefaultPath(), "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// -debug and the config's verbose flag both turn on the same
	// debug logger; either one is enough.
	debugOn := *debug || cfg.Verbose
	var dbg *log.Logger
	if debugOn {
		dbg = log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lmicroseconds)
	} else {
		dbg = log.New(io.Discard, "", 0)
	}

	input, err := device.OpenKeyboard(cfg.Device.Path)
	if err != nil {
		log.Fatalf("open input device: %v", err)
	}
	defer input.Close()
	dbg.Printf("input device grabbed")

	output, err := device.CreateVirtualKeyboard(cfg.Output.Name)
	if err != nil {
		log.Fatalf("create virtual keyboard %q: %v", cfg.Output.Name, err)
	}
	defer output.Close()
	dbg.Printf("virtual keyboard %q created", cfg.Output.Name)

	oracle := winfocus.Default()
	pollInterval := time.Duration(cfg.Window.PollIntervalMs) * time.Millisecond
	eng := engine.New(input, output, oracle, dbg, pollInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.NewModel(eng)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if debugOn {
		dbg.SetOutput(tui.NewLogWriter(p))
	}

	engineErrCh := make(chan error, 1)
	go func() {
		engineErrCh <- eng.Run(ctx)
	}()

	// Startup mappings are posted through the Control Plane
	// (hostapi.Map -> Engine.Map -> PostMapping), which blocks on a
	// reply only the engine goroutine's own loop sends. They must
	// therefore be applied after eng.Run is already draining that
	// channel, never before.
	api := hostapi.New(eng)
	for _, m := range cfg.Mappings {
		if err := api.Map(ctx, m.From, m.To); err != nil {
			log.Fatalf("startup mapping %q -> %q: %v", m.From, m.To, err)
		}
	}
	if cfg.Script != "" {
		dbg.Printf("config names script %q, but parsing script source is outside this program's scope; only config-level [[mapping]] entries are loaded", cfg.Script)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			p.Quit()
		case <-ctx.Done():
		}
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		log.Fatalf("TUI error: %v", err)
	}

	cancel()
	if err := <-engineErrCh; err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "engine stopped: %v\n", err)
	}
}
