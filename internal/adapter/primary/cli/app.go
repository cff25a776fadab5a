package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"volumelockr/internal/adapter/primary/web"
	"volumelockr/internal/adapter/secondary/notify"
	"volumelockr/internal/adapter/secondary/preferences"
	"volumelockr/internal/adapter/secondary/volume"
	"volumelockr/internal/config"
	"volumelockr/internal/domain"
	"volumelockr/internal/logging"
	"volumelockr/internal/usecase"
)

// app is the in-process object graph: registry, enforcer, controller, panel
// and the adapters they drive.
type app struct {
	cfg      config.Config
	registry *domain.LockRegistry
	audio    domain.AudioManager
	prefs    *preferences.FileStore
	enforcer *usecase.Enforcer
	panel    *usecase.VolumePanel
}

func newAudio(backend string) (domain.AudioManager, error) {
	switch backend {
	case config.BackendMemory:
		return volume.NewMemoryMixer(nil), nil
	case config.BackendAppleScript:
		return volume.NewAppleScriptMixer(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func newNotifier(backend string) domain.NotificationHost {
	if backend == config.BackendAppleScript {
		return notify.NewAppleScriptNotifier()
	}
	return notify.NewLogNotifier()
}

func newApp(cfg config.Config) (*app, error) {
	audio, err := newAudio(cfg.Backend)
	if err != nil {
		return nil, err
	}
	prefs, err := preferences.NewFileStore(cfg.Preferences)
	if err != nil {
		return nil, err
	}

	// One policy gates both the panel's writes and the enforcer's corrections.
	policy := domain.WritePolicy(domain.IsWriteAllowed)
	registry := domain.NewLockRegistry()
	enforcer := usecase.NewEnforcer(registry, audio, prefs, policy, cfg.Interval)
	gate := usecase.NewNotificationGate(newNotifier(cfg.Backend), cfg.Notifications)
	controller := usecase.NewLockController(registry, enforcer, gate)

	return &app{
		cfg:      cfg,
		registry: registry,
		audio:    audio,
		prefs:    prefs,
		enforcer: enforcer,
		panel:    usecase.NewVolumePanel(audio, controller, prefs, prefs, policy, enforcer),
	}, nil
}

// run drives the enforcer and the preference watcher, plus the HTTP server
// when serveHTTP is set, until ctx is cancelled or one of them fails.
func (a *app) run(ctx context.Context, serveHTTP bool) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.enforcer.Run(ctx)
	})
	g.Go(func() error {
		return a.prefs.Watch(ctx)
	})

	if serveHTTP {
		srv := web.NewServer(a.panel, a.cfg.Addr)
		g.Go(func() error {
			if err := srv.Start(); err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				logging.Warnf("http shutdown: %v", err)
			}
			return nil
		})
	}

	return g.Wait()
}
