package service

import (
	"context"
	"fmt"
	"time"

	"tiny-wins-bot/internal/analytics"
	"tiny-wins-bot/internal/repository"
)

// Summary is the account overview shown by /me.
type Summary struct {
	Count         int
	Streak        int
	NextMilestone *analytics.Milestone
}

// BadgeReport pairs the earned badges with a preview of what's next.
type BadgeReport struct {
	Earned []analytics.Badge
	Next   []analytics.Badge
}

// StatsService snapshots a user's win collection and runs the analytics
// engine over it. The engine itself holds no state: every call fetches the
// collection fresh and recomputes, so results always reflect the latest
// insert or delete.
type StatsService struct {
	winRepo    *repository.WinRepository
	moodWindow int
	loc        *time.Location
}

// NewStatsService creates a new StatsService instance. moodWindow caps how
// many recent wins feed the mood distribution.
func NewStatsService(winRepo *repository.WinRepository, moodWindow int, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{
		winRepo:    winRepo,
		moodWindow: moodWindow,
		loc:        loc,
	}
}

// now returns the current time in the configured location; streak and weekly
// day boundaries follow this location.
func (s *StatsService) now() time.Time {
	return time.Now().In(s.loc)
}

// Streak returns the user's current streak in days.
func (s *StatsService) Streak(ctx context.Context, userID int64) (int, error) {
	wins, err := s.winRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load wins: %w", err)
	}
	return analytics.CalculateStreakAt(wins, s.now()), nil
}

// Weekly returns the trailing seven-day summary.
func (s *StatsService) Weekly(ctx context.Context, userID int64) (analytics.WeeklyStats, time.Time, error) {
	wins, err := s.winRepo.ListByUser(ctx, userID)
	if err != nil {
		return analytics.WeeklyStats{}, time.Time{}, fmt.Errorf("failed to load wins: %w", err)
	}
	now := s.now()
	return analytics.GetWeeklyStatsAt(wins, now), now, nil
}

// MoodDistribution tallies moods over the user's most recent wins, capped to
// the configured window.
func (s *StatsService) MoodDistribution(ctx context.Context, userID int64) ([]analytics.MoodCount, error) {
	wins, err := s.winRepo.ListRecent(ctx, userID, s.moodWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load wins: %w", err)
	}
	return analytics.GetMoodDistribution(wins), nil
}

// Badges reports which badges the user holds and the next few to chase.
func (s *StatsService) Badges(ctx context.Context, userID int64) (*BadgeReport, error) {
	wins, err := s.winRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wins: %w", err)
	}
	now := s.now()
	return &BadgeReport{
		Earned: analytics.EarnedBadgesAt(wins, now),
		Next:   analytics.NextBadgesAt(wins, now),
	}, nil
}

// Summarize builds the account overview.
func (s *StatsService) Summarize(ctx context.Context, userID int64) (*Summary, error) {
	wins, err := s.winRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wins: %w", err)
	}
	return &Summary{
		Count:         len(wins),
		Streak:        analytics.CalculateStreakAt(wins, s.now()),
		NextMilestone: analytics.GetNextMilestone(len(wins)),
	}, nil
}

// Now exposes the service clock so handlers can label days consistently.
func (s *StatsService) Now() time.Time {
	return s.now()
}
