package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/hearthd/hearth/internal/botapi"
	"github.com/hearthd/hearth/internal/config"
	"github.com/hearthd/hearth/internal/events"
	"github.com/hearthd/hearth/internal/prefs"
	"github.com/hearthd/hearth/internal/proxy"
	"github.com/hearthd/hearth/internal/session"
	"github.com/hearthd/hearth/internal/store"
	"github.com/hearthd/hearth/internal/ui"
)

// ClientVersion is reported to the status bar and the proxy's
// /api/client-version endpoint consumers.
const ClientVersion = "0.1.0"

const shutdownTimeout = 3 * time.Second

// Options configure the Hearth application.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/hearth/prefs.toml
	Backend     string // overrides the configured backend address
	ProxyListen string // overrides the configured proxy listen address
}

// Run boots the Hearth TUI and the embedded REST proxy until the context
// is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.ProxyListen != "" {
		cfg.ProxyListen = opts.ProxyListen
	}

	client, err := botapi.NewClient(cfg.Backend)
	if err != nil {
		return fmt.Errorf("init backend client: %w", err)
	}

	srv := proxy.NewServer(cfg.ProxyListen, client.BaseURL(), cfg.ChangelogPath)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("proxy: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	// Close chat sessions left behind by a previous run that died before
	// it could clean up.
	if len(userPrefs.OpenChatSessions) > 0 {
		for _, id := range userPrefs.OpenChatSessions {
			_ = client.CloseChatSession(ctx, id)
		}
		userPrefs.OpenChatSessions = nil
		_ = prefs.Save(prefsPath, userPrefs)
	}

	sub := events.NewSubscriber(client.EventsURL())

	deps := ui.Deps{
		Client:        client,
		Memories:      store.Memories(client),
		Stock:         store.Stock(client),
		Freezer:       store.Freezer(client),
		Todos:         store.Todos(client),
		Session:       &session.Store{},
		Subscriber:    sub,
		Prefs:         userPrefs,
		PrefsPath:     prefsPath,
		ClientVersion: ClientVersion,
	}

	openSession, uiErr := ui.Run(ctx, deps)
	if openSession != "" {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := client.CloseChatSession(closeCtx, openSession); err != nil {
			// Remember it so the next run can retry the cleanup.
			leftover := prefs.Load(prefsPath)
			leftover.OpenChatSessions = append(leftover.OpenChatSessions, openSession)
			_ = prefs.Save(prefsPath, leftover)
		}
		cancel()
	}
	return uiErr
}
