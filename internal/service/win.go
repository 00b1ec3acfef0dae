package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"tiny-wins-bot/internal/analytics"
	"tiny-wins-bot/internal/model"
	"tiny-wins-bot/internal/repository"
)

// Common errors for win operations.
var (
	ErrEmptyText    = errors.New("win text is empty")
	ErrTextTooLong  = errors.New("win text exceeds maximum length")
	ErrInvalidMood  = errors.New("mood is not part of the palette")
	ErrFreeWinLimit = errors.New("free win limit reached")
)

// AddWinResult bundles the stored win with everything the celebration reply
// needs: the fresh count, an affirmation, and any badge or milestone the win
// just unlocked.
type AddWinResult struct {
	Win           *model.Win
	Count         int
	Affirmation   string
	NewBadge      *analytics.Badge
	Milestone     *analytics.Milestone
	NextMilestone *analytics.Milestone
}

// WinService handles logging, listing and deleting wins, and enforces the
// free-tier cap. Callers must hold the user's lock around AddWin so the
// count check and the insert stay atomic per user.
type WinService struct {
	userRepo *repository.UserRepository
	winRepo  *repository.WinRepository
	freeWins int
	loc      *time.Location
}

// NewWinService creates a new WinService instance.
func NewWinService(
	userRepo *repository.UserRepository,
	winRepo *repository.WinRepository,
	freeWins int,
	loc *time.Location,
) *WinService {
	if loc == nil {
		loc = time.Local
	}
	return &WinService{
		userRepo: userRepo,
		winRepo:  winRepo,
		freeWins: freeWins,
		loc:      loc,
	}
}

// ValidateWinInput checks the text and mood of a win before it is stored.
// Text must be non-empty after trimming and at most model.MaxWinTextLen
// runes; the mood must come from the palette.
func ValidateWinInput(text, mood string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(text) > model.MaxWinTextLen {
		return fmt.Errorf("%w: max %d characters", ErrTextTooLong, model.MaxWinTextLen)
	}
	if !model.IsValidMood(mood) {
		return ErrInvalidMood
	}
	return nil
}

// AddWin validates and stores a new win, then derives the celebration
// payload: free accounts are capped at the configured win count, and the
// badge delta compares the earned set before and after this one insertion.
func (s *WinService) AddWin(ctx context.Context, userID int64, text, mood string, jarID *string) (*AddWinResult, error) {
	text = strings.TrimSpace(text)
	if err := ValidateWinInput(text, mood); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	previous, err := s.winRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wins: %w", err)
	}

	if !user.IsPro && len(previous) >= s.freeWins {
		return nil, ErrFreeWinLimit
	}

	win, err := s.winRepo.Create(ctx, userID, jarID, text, mood)
	if err != nil {
		return nil, fmt.Errorf("failed to save win: %w", err)
	}

	now := time.Now().In(s.loc)
	count := len(previous) + 1

	return &AddWinResult{
		Win:           win,
		Count:         count,
		Affirmation:   analytics.RandomAffirmation(),
		NewBadge:      analytics.NewlyEarnedBadge(previous, *win, now),
		Milestone:     analytics.GetMilestoneMessage(count),
		NextMilestone: analytics.GetNextMilestone(count),
	}, nil
}

// ListRecent returns up to limit most recent wins, newest first.
func (s *WinService) ListRecent(ctx context.Context, userID int64, limit int) ([]model.Win, error) {
	return s.winRepo.ListRecent(ctx, userID, limit)
}

// ListByJar returns the user's wins inside one jar, newest first.
func (s *WinService) ListByJar(ctx context.Context, userID int64, jarID string) ([]model.Win, error) {
	return s.winRepo.ListByJar(ctx, userID, jarID)
}

// Count returns how many wins the user has logged.
func (s *WinService) Count(ctx context.Context, userID int64) (int, error) {
	return s.winRepo.CountByUser(ctx, userID)
}

// UndoLatest permanently removes the user's most recent win and returns it.
// Returns repository.ErrWinNotFound when there is nothing to undo.
func (s *WinService) UndoLatest(ctx context.Context, userID int64) (*model.Win, error) {
	latest, err := s.winRepo.GetLatest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.winRepo.Delete(ctx, latest.ID, userID); err != nil {
		return nil, err
	}
	return latest, nil
}

// ClearAll empties the user's entire collection and returns how many wins
// were removed.
func (s *WinService) ClearAll(ctx context.Context, userID int64) (int64, error) {
	return s.winRepo.DeleteAllByUser(ctx, userID)
}

// FreeWinLimit returns the configured free-tier cap.
func (s *WinService) FreeWinLimit() int {
	return s.freeWins
}
