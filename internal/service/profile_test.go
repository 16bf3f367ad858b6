package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"conduit/internal/domain"
	"conduit/internal/service/mocks"
)

type ProfileServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	users   *mocks.MockUserStore
	follows *mocks.MockFollowStore

	service *ProfileService
}

func (s *ProfileServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.users = mocks.NewMockUserStore(s.ctrl)
	s.follows = mocks.NewMockFollowStore(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.service = NewProfileService(s.users, s.follows, logger)
}

func (s *ProfileServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestProfileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}

func (s *ProfileServiceTestSuite) TestGet_Anonymous() {
	ctx := context.Background()

	bio := "I work at statefarm"
	s.users.EXPECT().GetByUsername(ctx, "jake").Return(
		&domain.User{ID: 7, Username: "jake", Bio: &bio}, nil,
	)

	profile, err := s.service.Get(ctx, nil, "jake")

	s.NoError(err)
	s.Equal("jake", profile.Username)
	s.False(profile.Following)
}

func (s *ProfileServiceTestSuite) TestGet_FollowedByViewer() {
	ctx := context.Background()
	viewerID := int64(9)

	s.users.EXPECT().GetByUsername(ctx, "jake").Return(
		&domain.User{ID: 7, Username: "jake"}, nil,
	)
	s.follows.EXPECT().Exists(ctx, viewerID, int64(7)).Return(true, nil)

	profile, err := s.service.Get(ctx, &viewerID, "jake")

	s.NoError(err)
	s.True(profile.Following)
}

func (s *ProfileServiceTestSuite) TestGet_Unknown() {
	ctx := context.Background()

	s.users.EXPECT().GetByUsername(ctx, "nobody").Return(nil, domain.ErrNotFound)

	_, err := s.service.Get(ctx, nil, "nobody")

	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ProfileServiceTestSuite) TestFollow() {
	ctx := context.Background()

	s.users.EXPECT().GetByUsername(ctx, "jake").Return(
		&domain.User{ID: 7, Username: "jake"}, nil,
	)
	s.follows.EXPECT().Add(ctx, int64(9), int64(7)).Return(nil)

	profile, err := s.service.Follow(ctx, 9, "jake")

	s.NoError(err)
	s.True(profile.Following)
}

func (s *ProfileServiceTestSuite) TestFollow_Self() {
	ctx := context.Background()

	s.users.EXPECT().GetByUsername(ctx, "jake").Return(
		&domain.User{ID: 9, Username: "jake"}, nil,
	)

	_, err := s.service.Follow(ctx, 9, "jake")

	ve, ok := domain.AsValidation(err)
	s.True(ok)
	s.Contains(ve.Fields, "username")
}

func (s *ProfileServiceTestSuite) TestFollow_AlreadyFollowing() {
	ctx := context.Background()

	s.users.EXPECT().GetByUsername(ctx, "jake").Return(
		&domain.User{ID: 7, Username: "jake"}, nil,
	)
	// The insert is idempotent at the store level; a repeat follow
	// still reports following=true.
	s.follows.EXPECT().Add(ctx, int64(9), int64(7)).Return(nil)

	profile, err := s.service.Follow(ctx, 9, "jake")

	s.NoError(err)
	s.True(profile.Following)
}

func (s *ProfileServiceTestSuite) TestUnfollow() {
	ctx := context.Background()

	s.users.EXPECT().GetByUsername(ctx, "jake").Return(
		&domain.User{ID: 7, Username: "jake"}, nil,
	)
	s.follows.EXPECT().Remove(ctx, int64(9), int64(7)).Return(true, nil)

	profile, err := s.service.Unfollow(ctx, 9, "jake")

	s.NoError(err)
	s.False(profile.Following)
}

func (s *ProfileServiceTestSuite) TestUnfollow_NotFollowing() {
	ctx := context.Background()

	s.users.EXPECT().GetByUsername(ctx, "jake").Return(
		&domain.User{ID: 7, Username: "jake"}, nil,
	)
	s.follows.EXPECT().Remove(ctx, int64(9), int64(7)).Return(false, nil)

	_, err := s.service.Unfollow(ctx, 9, "jake")

	s.ErrorIs(err, domain.ErrNotFound)
}
