package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/JaimeStill/mcp-endpoints/pkg/lifecycle"
)

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

// Start registers the tick runner with the coordinator. A disabled scheduler
// registers nothing.
func (s *Scheduler) Start(lc *lifecycle.Coordinator) error {
	if s.cfg.Disabled {
		s.logger.Info("scheduled event runner disabled")
		return nil
	}

	log := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)
	c.Schedule(cron.Every(s.cfg.Tick), cron.FuncJob(func() {
		if err := s.EnsureKept(lc.Context()); err != nil {
			s.logger.Warn("ensure recurring events failed", "error", err)
		}
		n, err := s.RunDue(lc.Context())
		if err != nil {
			s.logger.Error("scheduled event tick failed", "error", err)
			return
		}
		if n > 0 {
			s.logger.Info("scheduled events processed", "count", n)
		}
	}))

	s.logger.Info("starting scheduled event runner", "tick", s.cfg.Tick)

	lc.OnStartup(func() {
		c.Start()
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-c.Stop().Done()
		s.logger.Info("scheduled event runner stopped")
	})

	return nil
}
