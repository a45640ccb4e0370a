// Package seed bootstraps the first login for fresh installations.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/auth/password"
	userdomain "github.com/smallbooks/smallbooks/internal/user/domain"
	"gorm.io/gorm"
)

const defaultAdminName = "Administrator"

// EnsureAdmin creates the configured admin user if no user with that
// email exists yet. Existing users are left untouched so a changed
// SEED_ADMIN_PASSWORD never silently rotates credentials.
func EnsureAdmin(db *gorm.DB, email, plainPassword string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("seed admin email is required")
	}
	if plainPassword == "" {
		return errors.New("seed admin password is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing userdomain.User
		err := tx.Where("email = ?", email).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(plainPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user := userdomain.User{
			ID:           node.Generate(),
			Email:        email,
			FullName:     defaultAdminName,
			PasswordHash: &hashed,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(&user).Error
	})
}
