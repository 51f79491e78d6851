package logger

import (
	"kpi_tracker_backend/internal/config"
	"testing"

	"github.com/matryer/is"
	"go.uber.org/zap"
)

func TestApplyConfigSwitchesLevel(t *testing.T) {
	is := is.New(t)
	cfg := &config.Config{}

	cfg.Server.Mode = "debug"
	ApplyConfig(cfg)
	is.Equal(Level(), zap.DebugLevel)

	cfg.Server.Mode = "release"
	ApplyConfig(cfg)
	is.Equal(Level(), zap.InfoLevel)
}
