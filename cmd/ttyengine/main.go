// Command ttyengine is a minimal interactive front end for the TTY
// Engine: it spawns one session connected to the calling terminal's own
// stdin/stdout and prints aggregated stats on exit. Window-resize events
// of the calling terminal are not relayed to the session.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/mattn/go-isatty"

	"github.com/user/ttyengine/internal/config"
	"github.com/user/ttyengine/internal/tty"
)

var version = "0.1.0"

func main() {
	setupLogging()

	configPath := flag.String("config", "", "path to a ttyengine.toml config file (optional)")
	execFlag := flag.String("exec", "", "command to run instead of the default shell (shell-quoted)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ttyengine v%s\n", version)
		return
	}

	cfg := tty.DefaultPtyConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded.PtyDefaults()
	}

	if *execFlag != "" {
		argv, err := shellquote.Split(*execFlag)
		if err != nil {
			slog.Error("failed to parse -exec command", "command", *execFlag, "error", err)
			os.Exit(1)
		}
		if len(argv) > 0 {
			cfg.Shell = argv[0]
			cfg.Args = argv[1:]
		}
	}

	engine := tty.New()
	defer engine.Close()

	id, err := engine.CreatePty(cfg)
	if err != nil {
		slog.Error("failed to create pty", "error", err)
		os.Exit(1)
	}
	slog.Info("pty session created", "session_id", id, "shell", cfg.Shell)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go relayStdin(engine, id)
	go printUntilDead(engine, id)

	<-ctx.Done()
	gracefulShutdown(engine, id)
}

// setupLogging picks a JSON handler when stdout is not a terminal
// (pipes, log aggregation) and a human-oriented text one otherwise, mirroring
// how terminal tools in the retrieval pack gate output formatting on
// isatty.
func setupLogging() {
	level := slog.LevelInfo
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	} else {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}
}

func relayStdin(engine *tty.Engine, id tty.SessionID) {
	reader := bufio.NewReader(os.Stdin)
	buf := make([]byte, 4096)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if _, werr := engine.WriteToPty(id, buf[:n]); werr != nil && !tty.IsTimeoutError(werr) {
				slog.Error("failed to write to pty", "session_id", id, "error", werr)
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func printUntilDead(engine *tty.Engine, id tty.SessionID) {
	buf := make([]byte, 4096)
	for {
		n, err := engine.ReadFromPty(id, buf)
		if n > 0 {
			os.Stdout.Write(buf[:n])
		}
		if err != nil {
			if tty.IsTimeoutError(err) {
				continue
			}
			if tty.IsProcessDiedError(err) || tty.IsPtyNotFoundError(err) {
				return
			}
			slog.Warn("read from pty failed", "session_id", id, "error", err)
		}
	}
}

func gracefulShutdown(engine *tty.Engine, id tty.SessionID) {
	slog.Info("shutting down ttyengine")

	if err := engine.DestroyPty(id); err != nil && !tty.IsPtyNotFoundError(err) {
		slog.Error("failed to destroy pty", "session_id", id, "error", err)
	}

	stats := engine.GetStats()
	fmt.Printf("\nsessions created:   %d\n", stats.SessionsCreated)
	fmt.Printf("sessions destroyed: %d\n", stats.SessionsDestroyed)
	fmt.Printf("bytes read:         %s\n", humanize.Bytes(stats.TotalBytesRead))
	fmt.Printf("bytes written:      %s\n", humanize.Bytes(stats.TotalBytesWritten))
	fmt.Printf("signals sent:       %d\n", stats.SignalCount)
	fmt.Printf("errors:             %d\n", stats.Errors)
}
