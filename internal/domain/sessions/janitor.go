package sessions

import (
	"context"
	"os"
	"strings"
	"time"

	"reptile-husbandry/internal/platform/logger"
)

const defaultPurgeInterval = time.Hour

// Janitor borra sesiones vencidas en background con un ticker.
type Janitor struct {
	svc      *Service
	interval time.Duration
	log      logger.Logger
}

func NewJanitor(svc *Service, interval time.Duration, log logger.Logger) *Janitor {
	if interval <= 0 {
		interval = defaultPurgeInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Janitor{svc: svc, interval: interval, log: log}
}

// PurgeIntervalFromEnv lee SESSION_PURGE_INTERVAL (ej "1h").
func PurgeIntervalFromEnv() time.Duration {
	v := strings.TrimSpace(os.Getenv("SESSION_PURGE_INTERVAL"))
	if v == "" {
		return defaultPurgeInterval
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultPurgeInterval
	}
	return d
}

// Run bloquea hasta que ctx se cancele. Corre un tick inmediato al arrancar.
func (j *Janitor) Run(ctx context.Context) {
	j.tick(ctx)

	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			j.tick(ctx)
		}
	}
}

func (j *Janitor) tick(ctx context.Context) {
	n, err := j.svc.PurgeExpired(ctx)
	if err != nil {
		j.log.Error("session purge failed", map[string]any{"err": err.Error()})
		return
	}
	if n > 0 {
		j.log.Info("purged expired sessions", map[string]any{"count": n})
	}
}
