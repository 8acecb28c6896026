package updater

import (
	"time"

	"go.uber.org/zap"

	"publicsuffix/config"
	"publicsuffix/engine"
	"publicsuffix/parser"
)

// Updater manages periodic refreshes of remote rule sources.
type Updater struct {
	cfg    *config.Config
	engine *engine.Engine
	loader *parser.Loader
	log    *zap.SugaredLogger
	stop   chan struct{}
}

// NewUpdater creates a new Updater.
func NewUpdater(cfg *config.Config, eng *engine.Engine, loader *parser.Loader, log *zap.SugaredLogger) *Updater {
	return &Updater{
		cfg:    cfg,
		engine: eng,
		loader: loader,
		log:    log,
		stop:   make(chan struct{}),
	}
}

func (u *Updater) Stop() {
	close(u.stop)
}

// Run starts the refresh loop in the background. The published list asks
// consumers not to fetch more than once a day, so the interval is clamped
// to a 24 hour minimum. Sources without a URL never need refreshing.
func (u *Updater) Run() {
	hasRemote := false
	for _, src := range u.cfg.Sources {
		if src.URL != "" {
			hasRemote = true
			break
		}
	}
	if !hasRemote {
		u.log.Info("no remote sources to refresh")
		return
	}

	interval := 24 * time.Hour
	if u.cfg.RefreshInterval > interval {
		interval = u.cfg.RefreshInterval
	}

	u.log.Infow("updater started", "interval", interval)

	go func() {
		for {
			select {
			case <-time.After(interval):
				if err := u.engine.ReloadRules(u.loader); err != nil {
					u.log.Warnw("refresh failed, keeping current index", "error", err)
					continue
				}
				u.log.Infow("refresh complete", "next", interval)
			case <-u.stop:
				return
			}
		}
	}()
}
