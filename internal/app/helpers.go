package app

import (
	"fmt"
	"os"
	"time"

	"github.com/vidsum/core/internal/config"
	"github.com/vidsum/core/internal/pkg/nativelog"
)

func applyRuntimeSettings(cfg *config.AppConfig) {
	_ = os.Setenv(nativelog.EnvLogDir, cfg.LogDir())
}

func humanizeDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Truncate(time.Second).String()
	}
	if d < time.Hour {
		return d.Truncate(time.Minute).String()
	}
	if d < 24*time.Hour {
		return d.Truncate(time.Hour).String()
	}
	days := int(d.Hours()) / 24
	rest := d - time.Duration(days)*24*time.Hour
	return fmt.Sprintf("%dd%s", days, rest.Truncate(time.Hour))
}
