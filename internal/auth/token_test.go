package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"conduit/internal/config"
	"conduit/internal/domain"
)

type TokensTestSuite struct {
	suite.Suite
	tokens *Tokens
	user   *domain.User
}

func (s *TokensTestSuite) SetupTest() {
	s.tokens = NewTokens(config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "conduit-test",
		Expiration: time.Hour,
	})
	s.user = &domain.User{ID: 42, Username: "johndoe", Email: "john@example.com"}
}

func TestTokensTestSuite(t *testing.T) {
	suite.Run(t, new(TokensTestSuite))
}

func (s *TokensTestSuite) TestIssueAndResolve() {
	token, err := s.tokens.Issue(s.user)
	s.NoError(err)
	s.NotEmpty(token)

	userID, err := s.tokens.Resolve(token)
	s.NoError(err)
	s.Equal(int64(42), userID)
}

func (s *TokensTestSuite) TestResolve_Garbage() {
	_, err := s.tokens.Resolve("not-a-token")
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *TokensTestSuite) TestResolve_WrongSecret() {
	other := NewTokens(config.JWTConfig{
		Secret:     "other-secret",
		Issuer:     "conduit-test",
		Expiration: time.Hour,
	})

	token, err := other.Issue(s.user)
	s.Require().NoError(err)

	_, err = s.tokens.Resolve(token)
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *TokensTestSuite) TestResolve_Expired() {
	expired := NewTokens(config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "conduit-test",
		Expiration: -time.Minute,
	})

	token, err := expired.Issue(s.user)
	s.Require().NoError(err)

	_, err = s.tokens.Resolve(token)
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
}
