package migration

import (
	authdomain "github.com/smallbooks/smallbooks/internal/auth/domain"
	bankaccountdomain "github.com/smallbooks/smallbooks/internal/bankaccount/domain"
	clientdomain "github.com/smallbooks/smallbooks/internal/client/domain"
	"github.com/smallbooks/smallbooks/internal/config"
	invoicedomain "github.com/smallbooks/smallbooks/internal/invoice/domain"
	journaldomain "github.com/smallbooks/smallbooks/internal/journal/domain"
	"github.com/smallbooks/smallbooks/internal/seed"
	"github.com/smallbooks/smallbooks/internal/sequence"
	signaturedomain "github.com/smallbooks/smallbooks/internal/signature/domain"
	userdomain "github.com/smallbooks/smallbooks/internal/user/domain"
	voucherdomain "github.com/smallbooks/smallbooks/internal/voucher/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql run in local mode without versioned
			// migrations; the model definitions are the schema.
			if err := conn.AutoMigrate(allModels()...); err != nil {
				return err
			}
		}

		if cfg.SeedAdminEmail != "" {
			return seed.EnsureAdmin(conn, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
		}
		return nil
	}),
)

func allModels() []any {
	return []any{
		&userdomain.User{},
		&authdomain.Session{},
		&clientdomain.Client{},
		&clientdomain.IncomeCategory{},
		&bankaccountdomain.BankAccount{},
		&invoicedomain.Invoice{},
		&invoicedomain.LineItem{},
		&journaldomain.JournalEntry{},
		&journaldomain.EntryCategory{},
		&journaldomain.InvoiceLink{},
		&voucherdomain.GeneralVoucher{},
		&signaturedomain.Signature{},
		&sequence.DocumentSequence{},
	}
}
