package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kestrelhq/kestrel/internal/applog"
	"github.com/kestrelhq/kestrel/internal/bus"
	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/config"
	"github.com/kestrelhq/kestrel/internal/deeplink"
	"github.com/kestrelhq/kestrel/internal/prefs"
	"github.com/kestrelhq/kestrel/internal/restore"
	"github.com/kestrelhq/kestrel/internal/state"
	"github.com/kestrelhq/kestrel/internal/ui"
)

// Options configure the kestrel application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/kestrel/prefs.toml
	Link       string // share link to restore; empty falls back to the link file
	PollEvery  int    // UI tick in seconds; zero uses default
	Debug      bool
}

// Run boots the kestrel TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := applog.New(cfg.LogFile, opts.Debug)
	defer logger.Sync()

	userPrefs := prefs.Load(opts.PrefsPath)

	linkFile := NewLinkFile(cfg.LinkFile)
	link := opts.Link
	if link == "" {
		link = linkFile.Load()
	}

	defaults := state.Defaults(cfg.DefaultSource)
	store := state.NewStore(defaults)
	codec := deeplink.New(defaults)
	b := bus.New()
	defer b.Close()

	connector := catalog.NewConnector(catalog.ConnectorOptions{
		Sources:       cfg.Sources,
		DefaultSource: cfg.DefaultSource,
		Bus:           b,
		Logger:        logger,
		Retries:       cfg.Restore.SwitchRetries,
		RetryDelay:    cfg.Restore.SwitchRetryDelay(),
	})
	executor := catalog.NewExecutor(connector, b, logger, cfg.Restore.SearchTimeout())

	observer := restore.NewObserver(codec, store, linkFile, b, logger, link)
	if err := observer.Start(ctx); err != nil {
		return fmt.Errorf("start link observer: %w", err)
	}

	mapPane := ui.NewMapPane()
	sink := &ui.ProgramSink{}
	orch := restore.New(restore.Options{
		Link: link,
		Timing: restore.Timing{
			PollInterval:     cfg.Restore.PollInterval(),
			ViewportDeadline: cfg.Restore.ViewportDeadline(),
			CatalogDeadline:  cfg.Restore.CatalogDeadline(),
			ResultsDeadline:  cfg.Restore.ResultsDeadline(),
		},
		Codec:    codec,
		Store:    store,
		Observer: observer,
		Viewport: mapPane,
		Catalog:  connector,
		Searcher: executor,
		Display:  &ui.SelectionAdapter{Sink: sink},
		Notifier: &ui.NotifierAdapter{Sink: sink},
		Bus:      b,
		Logger:   logger,
	})

	// Populate the default source's collections in the background so a
	// plain start is usable without a restore pass.
	go func() {
		if err := connector.RefreshCollections(ctx); err != nil {
			logger.Warn("initial collection refresh", zap.Error(err))
		}
	}()

	uiOpts := ui.Options{
		Context:   ctx,
		Store:     store,
		Connector: connector,
		Executor:  executor,
		Bus:       b,
		Config:    &cfg,
		MapPane:   mapPane,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		LogPath:   applog.Resolve(cfg.LogFile),
		ShowLink:  userPrefs.ShowLink,
	}
	if opts.PollEvery > 0 {
		uiOpts.PollTick = time.Duration(opts.PollEvery) * time.Second
	}
	return ui.Run(uiOpts, func(p *tea.Program) {
		sink.Attach(p)
		go orch.Run(ctx)
	})
}
