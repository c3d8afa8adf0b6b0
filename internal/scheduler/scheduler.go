package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"

	"github.com/omarshaarawi/sleeperstats/internal/config"
)

const jobTimeout = 5 * time.Minute

// Reports is what the scheduled jobs post or run.
type Reports interface {
	WeekRecap(ctx context.Context, week int) (string, error)
	PowerRankingsReport(ctx context.Context) (string, error)
	AwardsReport(ctx context.Context, season string) (string, error)
	Standings(ctx context.Context) (string, error)
	CloseGames(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
}

type Scheduler struct {
	s           gocron.Scheduler
	reports     Reports
	sendMessage func(string) error
	location    *time.Location
	refresh     cron.Schedule
	refreshSpec string
}

// ParseRefreshCron validates a five-field cron expression.
func ParseRefreshCron(spec string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_CRON %q: %w", spec, err)
	}
	return sched, nil
}

func NewScheduler(cfg config.Scheduler, reports Reports, sendMessage func(string) error) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Error("Failed to load location, using UTC", "timezone", cfg.Timezone, "error", err)
		location = time.UTC
	}

	refresh, err := ParseRefreshCron(cfg.RefreshCron)
	if err != nil {
		return nil, err
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		reports:     reports,
		sendMessage: sendMessage,
		location:    location,
		refresh:     refresh,
		refreshSpec: cfg.RefreshCron,
	}, nil
}

func (s *Scheduler) Start() error {
	var err error

	// Close games - Monday 17:30
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Monday), gocron.NewAtTimes(gocron.NewAtTime(17, 30, 0))),
		gocron.NewTask(s.sendCloseGames),
	)
	if err != nil {
		return fmt.Errorf("failed to create close games job: %w", err)
	}

	// Weekly recap - Tuesday 7:25
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(7, 25, 0))),
		gocron.NewTask(s.sendRecap),
	)
	if err != nil {
		return fmt.Errorf("failed to create recap job: %w", err)
	}

	// Power rankings - Tuesday 7:30
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
		gocron.NewTask(s.sendPowerRankings),
	)
	if err != nil {
		return fmt.Errorf("failed to create power rankings job: %w", err)
	}

	// Season awards - Tuesday 7:35
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(7, 35, 0))),
		gocron.NewTask(s.sendAwards),
	)
	if err != nil {
		return fmt.Errorf("failed to create awards job: %w", err)
	}

	// Current standings - Wednesday 7:30
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Wednesday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
		gocron.NewTask(s.sendStandings),
	)
	if err != nil {
		return fmt.Errorf("failed to create standings job: %w", err)
	}

	_, err = s.s.NewJob(
		gocron.CronJob(s.refreshSpec, false),
		gocron.NewTask(s.refreshHistory),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh job: %w", err)
	}

	s.s.Start()
	slog.Info("Scheduler started", "timezone", s.location.String(), "next_refresh", s.NextRefresh(time.Now()))
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// NextRefresh is the first refresh after from, in the scheduler's zone.
func (s *Scheduler) NextRefresh(from time.Time) time.Time {
	return s.refresh.Next(from.In(s.location))
}

func (s *Scheduler) post(name string, report func(ctx context.Context) (string, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	text, err := report(ctx)
	if err != nil {
		slog.Error("Failed to build scheduled report", "report", name, "error", err)
		return
	}
	if err := s.sendMessage(text); err != nil {
		slog.Error("Failed to send scheduled report", "report", name, "error", err)
	}
}

func (s *Scheduler) sendCloseGames() {
	s.post("close_games", s.reports.CloseGames)
}

func (s *Scheduler) sendRecap() {
	s.post("recap", func(ctx context.Context) (string, error) { return s.reports.WeekRecap(ctx, 0) })
}

func (s *Scheduler) sendPowerRankings() {
	s.post("power_rankings", s.reports.PowerRankingsReport)
}

func (s *Scheduler) sendAwards() {
	s.post("awards", func(ctx context.Context) (string, error) { return s.reports.AwardsReport(ctx, "") })
}

func (s *Scheduler) sendStandings() {
	s.post("standings", s.reports.Standings)
}

func (s *Scheduler) refreshHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.reports.Refresh(ctx); err != nil {
		slog.Error("Scheduled refresh failed", "error", err)
	}
}
