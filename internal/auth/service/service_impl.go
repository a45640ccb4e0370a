package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/auth/domain"
	"github.com/smallbooks/smallbooks/internal/auth/password"
	"github.com/smallbooks/smallbooks/internal/clock"
	userdomain "github.com/smallbooks/smallbooks/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 7 * 24 * time.Hour
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Sessions domain.SessionRepository
	Users    userdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	sessions domain.SessionRepository
	users    userdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		sessions: p.Sessions,
		users:    p.Users,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.LoginResult{}, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return domain.LoginResult{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.LoginResult{}, err
	}
	if user == nil || !user.IsActive {
		return domain.LoginResult{}, domain.ErrInvalidCredentials
	}
	if user.PasswordHash == nil || !password.Verify(req.Password, *user.PasswordHash) {
		return domain.LoginResult{}, domain.ErrInvalidCredentials
	}

	rawToken, err := newSessionToken()
	if err != nil {
		return domain.LoginResult{}, err
	}

	now := s.clock.Now()
	session := domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		ExpiresAt:        now.Add(sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessions.CreateSession(ctx, &session); err != nil {
		return domain.LoginResult{}, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()))
	return domain.LoginResult{
		Session: session,
		Token:   rawToken,
		User:    *user,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessions.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		return err
	}

	return s.sessions.RevokeSession(ctx, session.ID, s.clock.Now())
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (domain.Session, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.Session{}, domain.ErrInvalidSession
	}

	session, err := s.sessions.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		return domain.Session{}, err
	}

	now := s.clock.Now()
	if session.RevokedAt != nil {
		return domain.Session{}, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return domain.Session{}, domain.ErrSessionExpired
	}

	if err := s.sessions.UpdateLastSeen(ctx, session.ID, now); err != nil {
		return domain.Session{}, err
	}

	return *session, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", err
	}
	return email, nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
