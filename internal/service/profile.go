package service

import (
	"context"
	"log/slog"

	"conduit/internal/domain"
)

type ProfileService struct {
	users   UserStore
	follows FollowStore
	logger  *slog.Logger
}

func NewProfileService(users UserStore, follows FollowStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		users:   users,
		follows: follows,
		logger:  logger,
	}
}

// Get resolves a profile as seen by the viewer. Anonymous viewers see
// following=false.
func (s *ProfileService) Get(ctx context.Context, viewerID *int64, username string) (*domain.Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != nil {
		following, err = s.follows.Exists(ctx, *viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	profile := user.Profile(following)
	return &profile, nil
}

// Follow creates the follow relation. Following an already-followed
// user is a no-op returning success; following yourself is a validation
// error, not a not-found.
func (s *ProfileService) Follow(ctx context.Context, viewerID int64, username string) (*domain.Profile, error) {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == viewerID {
		return nil, domain.Invalid("username", "you cannot follow yourself")
	}

	if err := s.follows.Add(ctx, viewerID, target.ID); err != nil {
		return nil, err
	}

	profile := target.Profile(true)
	return &profile, nil
}

// Unfollow removes the relation; removing an absent relation reports
// not found.
func (s *ProfileService) Unfollow(ctx context.Context, viewerID int64, username string) (*domain.Profile, error) {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	removed, err := s.follows.Remove(ctx, viewerID, target.ID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, domain.ErrNotFound
	}

	profile := target.Profile(false)
	return &profile, nil
}
