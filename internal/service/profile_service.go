package service

import (
	"context"
	"errors"

	"pmhscreen/internal/model"
	"pmhscreen/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// ProfileService assembles a user's account view
type ProfileService struct {
	users      repository.UserRepo
	screenings repository.ScreeningRepo
}

func NewProfileService(users repository.UserRepo, screenings repository.ScreeningRepo) *ProfileService {
	return &ProfileService{
		users:      users,
		screenings: screenings,
	}
}

// Profile returns the user, their screening stats and their history
func (s *ProfileService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	stats, err := s.screenings.OwnerStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.screenings.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []*model.StoredScreening{}
	}

	return &model.Profile{
		User:    user,
		Stats:   *stats,
		History: history,
	}, nil
}
