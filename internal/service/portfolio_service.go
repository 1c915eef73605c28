package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"miniportfolio/api/internal/apperr"
	"miniportfolio/api/internal/models"
	"miniportfolio/api/internal/repository"
)

type PortfolioService struct {
	store repository.UserStore
	log   zerolog.Logger
}

func NewPortfolioService(store repository.UserStore, log zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		store: store,
		log:   log,
	}
}

// Get returns the owner's timeline entries. A user without entries (or one
// whose record vanished after token issuance) gets an empty list.
func (s *PortfolioService) Get(ctx context.Context, userID string) ([]models.PortfolioItem, error) {
	items, err := s.store.GetPortfolio(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return []models.PortfolioItem{}, nil
		}
		return nil, fmt.Errorf("get portfolio: %w", err)
	}
	return items, nil
}

// Replace overwrites the owner's entire item list atomically. There is no
// item-level update: the client always sends the complete sequence.
func (s *PortfolioService) Replace(ctx context.Context, userID string, items []models.PortfolioItem) error {
	for i := range items {
		items[i].Normalize()
		if err := items[i].Validate(); err != nil {
			return apperr.Wrap(err, apperr.KindValidation, "Failed to update portfolio")
		}
	}

	if err := s.store.ReplacePortfolio(ctx, userID, items); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("replace portfolio: %w", err)
	}

	s.log.Debug().Str("user_id", userID).Int("items", len(items)).Msg("portfolio replaced")
	return nil
}
