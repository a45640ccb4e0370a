package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/auth/domain"
	"github.com/smallbooks/smallbooks/internal/auth/password"
	"github.com/smallbooks/smallbooks/internal/auth/repository"
	"github.com/smallbooks/smallbooks/internal/clock"
	userdomain "github.com/smallbooks/smallbooks/internal/user/domain"
	userrepository "github.com/smallbooks/smallbooks/internal/user/repository"
	"github.com/smallbooks/smallbooks/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	svc   domain.Service
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
}

func newTestService(t *testing.T) testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&userdomain.User{}, &domain.Session{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fakeClock,
		Sessions: repository.New(dbConn),
		Users:    userrepository.Provide(),
	})
	return testEnv{svc: svc, db: dbConn, node: node, clock: fakeClock}
}

func (e testEnv) createUser(t *testing.T, email, plain string, active bool) snowflake.ID {
	t.Helper()

	hashed, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := userdomain.User{
		ID:           e.node.Generate(),
		Email:        email,
		FullName:     "Test User",
		PasswordHash: &hashed,
		IsActive:     active,
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.ID
}

func TestLoginAndAuthenticate(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	userID := env.createUser(t, "alice@example.com", "correct-password", true)

	result, err := env.svc.Login(ctx, domain.LoginRequest{
		Email:    "Alice@Example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected opaque token")
	}
	if result.Session.UserID != userID {
		t.Fatalf("session user = %v", result.Session.UserID)
	}

	session, err := env.svc.Authenticate(ctx, result.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if session.UserID != userID {
		t.Fatalf("authenticated user = %v", session.UserID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestService(t)
	env.createUser(t, "alice@example.com", "correct-password", true)

	_, err := env.svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	env := newTestService(t)
	env.createUser(t, "bob@example.com", "password", false)

	_, err := env.svc.Login(context.Background(), domain.LoginRequest{
		Email:    "bob@example.com",
		Password: "password",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateExpiredSession(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.createUser(t, "alice@example.com", "password", true)

	result, err := env.svc.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	env.clock.Advance(8 * 24 * time.Hour)
	if _, err := env.svc.Authenticate(ctx, result.Token); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.createUser(t, "alice@example.com", "password", true)

	result, err := env.svc.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := env.svc.Logout(ctx, result.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := env.svc.Authenticate(ctx, result.Token); !errors.Is(err, domain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestAuthenticateUnknownToken(t *testing.T) {
	env := newTestService(t)

	if _, err := env.svc.Authenticate(context.Background(), "no-such-token"); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if _, err := env.svc.Authenticate(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
