package updater

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"publicsuffix/config"
	"publicsuffix/engine"
	"publicsuffix/parser"
)

func TestRunWithoutRemoteSources(t *testing.T) {
	log := zap.NewNop().Sugar()
	cfg := &config.Config{
		Sources: []config.Source{{Name: "local", Path: "/tmp/list.dat"}},
	}
	eng := engine.NewEngine(cfg, log)
	u := NewUpdater(cfg, eng, parser.NewLoader(t.TempDir(), log), log)

	// Nothing to refresh: Run returns without starting the loop and Stop
	// is still safe to call.
	u.Run()
	u.Stop()
}

func TestStopTerminatesLoop(t *testing.T) {
	log := zap.NewNop().Sugar()
	cfg := &config.Config{
		Sources: []config.Source{{Name: "remote", URL: "https://example.com/list.dat"}},
	}
	eng := engine.NewEngine(cfg, log)
	u := NewUpdater(cfg, eng, parser.NewLoader(t.TempDir(), log), log)

	u.Run()
	require.NotPanics(t, u.Stop)
}
