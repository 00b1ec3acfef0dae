// Package service provides business logic implementations.
package service

import (
	"context"
	"fmt"

	"tiny-wins-bot/internal/model"
	"tiny-wins-bot/internal/repository"
)

// AccountService handles user account operations.
type AccountService struct {
	userRepo *repository.UserRepository
	winRepo  *repository.WinRepository
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(userRepo *repository.UserRepository, winRepo *repository.WinRepository) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		winRepo:  winRepo,
	}
}

// EnsureUser ensures a user exists, creating a free-tier account if necessary.
// Returns the user and whether it was newly created.
func (s *AccountService) EnsureUser(ctx context.Context, telegramID int64, username string) (*model.User, bool, error) {
	user, created, err := s.userRepo.GetOrCreate(ctx, telegramID, username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure user: %w", err)
	}

	// Refresh the stored username if it changed on Telegram's side.
	if !created && user.Username != username && username != "" {
		if err := s.userRepo.UpdateUsername(ctx, telegramID, username); err == nil {
			user.Username = username
		}
	}

	return user, created, nil
}

// GetUser retrieves a user by their Telegram ID.
func (s *AccountService) GetUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, telegramID)
}

// SetPro upgrades or downgrades an account's tier.
func (s *AccountService) SetPro(ctx context.Context, telegramID int64, isPro bool) (*model.User, error) {
	user, err := s.userRepo.SetPro(ctx, telegramID, isPro)
	if err != nil {
		return nil, fmt.Errorf("failed to change tier: %w", err)
	}
	return user, nil
}

// Totals reports global user and win counts, for the admin overview.
func (s *AccountService) Totals(ctx context.Context) (users, wins int, err error) {
	users, err = s.userRepo.CountUsers(ctx)
	if err != nil {
		return 0, 0, err
	}
	wins, err = s.winRepo.CountAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	return users, wins, nil
}
