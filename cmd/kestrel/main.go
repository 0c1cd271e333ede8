package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kestrelhq/kestrel/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	link := flag.String("link", "", "share link to restore on startup (optional)")
	pollSeconds := flag.Int("poll", 0, "UI refresh interval in seconds (optional)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// A bare positional argument is also accepted as the share link.
	restoreLink := *link
	if restoreLink == "" && flag.NArg() > 0 {
		restoreLink = flag.Arg(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Link:       restoreLink,
		Debug:      *debug,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "kestrel: %v\n", err)
		return 1
	}
	return 0
}
