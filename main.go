// TaskPilot TUI - a terminal chat client for the TaskPilot task assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/taskpilot-tui/internal/auth"
	"github.com/jeranaias/taskpilot-tui/internal/config"
	"github.com/jeranaias/taskpilot-tui/internal/events"
	"github.com/jeranaias/taskpilot-tui/internal/gateway"
	"github.com/jeranaias/taskpilot-tui/internal/health"
	"github.com/jeranaias/taskpilot-tui/internal/session"
	"github.com/jeranaias/taskpilot-tui/internal/sessionstore"
	"github.com/jeranaias/taskpilot-tui/internal/ui/chat"
	"github.com/jeranaias/taskpilot-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cmd := ""
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "", "tui":
		runTUI()
	case "login":
		if err := handleLogin(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "logout":
		if err := handleLogout(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "status":
		if err := handleStatus(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("taskpilot %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`taskpilot - chat with the TaskPilot task assistant

Usage:
  taskpilot            Start the interactive chat
  taskpilot login      Store an auth token (prompts, or pass as argument)
  taskpilot logout     Remove the stored auth token
  taskpilot status     Check backend connectivity
  taskpilot version    Print version information

Environment:
  TASKPILOT_BACKEND_URL   Backend base URL (default http://localhost:8000)
  TASKPILOT_AUTH_TOKEN    Auth token (overrides the stored token)
  TASKPILOT_USER_ID       User id for session persistence
  TASKPILOT_STATE_DIR     State directory (default ~/.taskpilot)`)
}

// =============================================================================
// TUI
// =============================================================================

func runTUI() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	closeLog := setupLogging(cfg.StateDir)
	defer closeLog()

	tokens := auth.NewTokenStore(cfg.StateDir)
	bus := events.NewBus()

	gw := gateway.NewClient(cfg.Backend.BaseURL, tokens).
		WithTimeout(cfg.RequestTimeout()).
		WithUnauthorizedHook(func() {
			// The backend rejected our token; drop it so the next start
			// prompts for a fresh login.
			_ = tokens.Clear()
			bus.Publish(events.UserLoggedOut)
		})

	store := sessionstore.Open(cfg.StateDir)
	defer store.Close()

	ctl := session.NewController(gw, store, bus, cfg.User.ID)
	defer ctl.Close()

	// Pick up where the user left off, but never block startup on it.
	resumeCtx, cancelResume := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	ctl.ResumeSession(resumeCtx)
	cancelResume()

	monitor := health.NewMonitor(gw, cfg.HealthInterval(), ctl.SetOnline)
	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	monitor.Start(monitorCtx)
	defer func() {
		cancelMonitor()
		monitor.Stop()
	}()

	theme := styles.NewTheme()
	m := chat.New(ctl, theme)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running taskpilot: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends the standard logger to a file in the state dir.
// Writing to stderr would tear the alternate screen, so while the TUI
// runs everything goes to taskpilot.log.
func setupLogging(stateDir string) func() {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(stateDir, "taskpilot.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	return func() { _ = f.Close() }
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

func handleLogin(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	token := ""
	if len(args) > 0 {
		token = strings.TrimSpace(args[0])
	} else {
		fmt.Print("Paste your TaskPilot auth token: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return fmt.Errorf("no token provided")
	}

	tokens := auth.NewTokenStore(cfg.StateDir)
	if err := tokens.Set(token); err != nil {
		return err
	}
	fmt.Println("Token saved.")
	return nil
}

func handleLogout() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tokens := auth.NewTokenStore(cfg.StateDir)
	if err := tokens.Clear(); err != nil {
		return err
	}

	// Forget the active conversation too; a new login starts clean.
	store := sessionstore.Open(cfg.StateDir)
	defer store.Close()
	store.Clear(cfg.User.ID)

	fmt.Println("Logged out.")
	return nil
}

func handleStatus() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tokens := auth.NewTokenStore(cfg.StateDir)
	gw := gateway.NewClient(cfg.Backend.BaseURL, tokens)

	fmt.Printf("Backend:  %s\n", cfg.Backend.BaseURL)
	if tokens.HasToken() {
		fmt.Println("Token:    present")
	} else {
		fmt.Println("Token:    not set (run 'taskpilot login')")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if gw.CheckHealth(ctx) {
		fmt.Println(styles.RenderSuccess("Backend is reachable"))
	} else {
		fmt.Println(styles.RenderError("Backend is unreachable"))
	}

	store := sessionstore.Open(cfg.StateDir)
	defer store.Close()
	if id := store.Get(cfg.User.ID); id != "" {
		fmt.Printf("Session:  resuming conversation %s\n", id)
	} else {
		fmt.Println("Session:  none saved")
	}
	return nil
}
