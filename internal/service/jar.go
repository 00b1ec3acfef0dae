package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tiny-wins-bot/internal/model"
	"tiny-wins-bot/internal/repository"
)

// Common errors for jar operations.
var (
	ErrFreeJarLimit   = errors.New("free jar limit reached")
	ErrEmptyJarName   = errors.New("jar name is empty")
	ErrJarNameTooLong = errors.New("jar name exceeds maximum length")
)

// maxJarNameLen bounds jar names, matching the jars.name column.
const maxJarNameLen = 100

// JarService handles jar management and enforces the free-tier jar cap.
// Callers must hold the user's lock around CreateJar.
type JarService struct {
	userRepo *repository.UserRepository
	jarRepo  *repository.JarRepository
	freeJars int
}

// NewJarService creates a new JarService instance.
func NewJarService(
	userRepo *repository.UserRepository,
	jarRepo *repository.JarRepository,
	freeJars int,
) *JarService {
	return &JarService{
		userRepo: userRepo,
		jarRepo:  jarRepo,
		freeJars: freeJars,
	}
}

func validateJarName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyJarName
	}
	if len(name) > maxJarNameLen {
		return "", fmt.Errorf("%w: max %d bytes", ErrJarNameTooLong, maxJarNameLen)
	}
	return name, nil
}

// CreateJar creates a jar for the user, applying the free-tier cap. An empty
// name falls back to the default jar name.
func (s *JarService) CreateJar(ctx context.Context, userID int64, name string) (*model.Jar, error) {
	if strings.TrimSpace(name) == "" {
		name = model.DefaultJarName
	}
	name, err := validateJarName(name)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	count, err := s.jarRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count jars: %w", err)
	}
	if !user.IsPro && count >= s.freeJars {
		return nil, ErrFreeJarLimit
	}

	jar, err := s.jarRepo.Create(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create jar: %w", err)
	}

	return jar, nil
}

// ListJars returns the user's jars, newest first.
func (s *JarService) ListJars(ctx context.Context, userID int64) ([]*model.Jar, error) {
	return s.jarRepo.ListByUser(ctx, userID)
}

// GetJar returns one of the user's jars.
func (s *JarService) GetJar(ctx context.Context, jarID string, userID int64) (*model.Jar, error) {
	return s.jarRepo.GetByID(ctx, jarID, userID)
}

// RenameJar changes a jar's name.
func (s *JarService) RenameJar(ctx context.Context, jarID string, userID int64, name string) error {
	name, err := validateJarName(name)
	if err != nil {
		return err
	}
	return s.jarRepo.Rename(ctx, jarID, userID, name)
}

// DeleteJar removes a jar and, via the schema cascade, every win inside it.
// If the jar was the user's active jar the selection is cleared.
func (s *JarService) DeleteJar(ctx context.Context, jarID string, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.jarRepo.Delete(ctx, jarID, userID); err != nil {
		return err
	}

	if user.ActiveJarID != nil && *user.ActiveJarID == jarID {
		if err := s.userRepo.SetActiveJar(ctx, userID, nil); err != nil {
			return fmt.Errorf("failed to clear active jar: %w", err)
		}
	}

	return nil
}

// SetActiveJar selects which jar new wins default into. Ownership is
// verified before the selection is stored.
func (s *JarService) SetActiveJar(ctx context.Context, jarID string, userID int64) (*model.Jar, error) {
	jar, err := s.jarRepo.GetByID(ctx, jarID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetActiveJar(ctx, userID, &jar.ID); err != nil {
		return nil, err
	}
	return jar, nil
}

// FreeJarLimit returns the configured free-tier cap.
func (s *JarService) FreeJarLimit() int {
	return s.freeJars
}
