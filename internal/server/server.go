package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbooks/smallbooks/internal/auth"
	authdomain "github.com/smallbooks/smallbooks/internal/auth/domain"
	"github.com/smallbooks/smallbooks/internal/auth/session"
	"github.com/smallbooks/smallbooks/internal/bankaccount"
	bankaccountdomain "github.com/smallbooks/smallbooks/internal/bankaccount/domain"
	"github.com/smallbooks/smallbooks/internal/client"
	clientdomain "github.com/smallbooks/smallbooks/internal/client/domain"
	"github.com/smallbooks/smallbooks/internal/config"
	"github.com/smallbooks/smallbooks/internal/invoice"
	invoicedomain "github.com/smallbooks/smallbooks/internal/invoice/domain"
	"github.com/smallbooks/smallbooks/internal/journal"
	journaldomain "github.com/smallbooks/smallbooks/internal/journal/domain"
	obslogger "github.com/smallbooks/smallbooks/internal/observability/logger"
	obsmetrics "github.com/smallbooks/smallbooks/internal/observability/metrics"
	"github.com/smallbooks/smallbooks/internal/sequence"
	"github.com/smallbooks/smallbooks/internal/signature"
	"github.com/smallbooks/smallbooks/internal/user"
	userdomain "github.com/smallbooks/smallbooks/internal/user/domain"
	"github.com/smallbooks/smallbooks/internal/voucher"
	voucherdomain "github.com/smallbooks/smallbooks/internal/voucher/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	session.Module,
	sequence.Module,
	user.Module,
	client.Module,
	bankaccount.Module,
	signature.Module,
	invoice.Module,
	journal.Module,
	voucher.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           cfg.Environment != "production",
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	sessions       *session.Manager
	authSvc        authdomain.Service
	userSvc        userdomain.Service
	clientSvc      clientdomain.Service
	bankAccountSvc bankaccountdomain.Service
	invoiceSvc     invoicedomain.Service
	journalSvc     journaldomain.Service
	voucherSvc     voucherdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	Sessions       *session.Manager
	AuthSvc        authdomain.Service
	UserSvc        userdomain.Service
	ClientSvc      clientdomain.Service
	BankAccountSvc bankaccountdomain.Service
	InvoiceSvc     invoicedomain.Service
	JournalSvc     journaldomain.Service
	VoucherSvc     voucherdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		sessions:       p.Sessions,
		authSvc:        p.AuthSvc,
		userSvc:        p.UserSvc,
		clientSvc:      p.ClientSvc,
		bankAccountSvc: p.BankAccountSvc,
		invoiceSvc:     p.InvoiceSvc,
		journalSvc:     p.JournalSvc,
		voucherSvc:     p.VoucherSvc,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Clients --------
	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClientByID)
	api.PUT("/clients/:id", s.UpdateClient)
	api.DELETE("/clients/:id", s.DeleteClient)

	// -------- Income categories --------
	api.GET("/income-categories", s.ListIncomeCategories)
	api.POST("/income-categories", s.CreateIncomeCategory)
	api.PUT("/income-categories/:id", s.UpdateIncomeCategory)
	api.DELETE("/income-categories/:id", s.DeleteIncomeCategory)

	// -------- Bank accounts --------
	api.GET("/bank-accounts", s.ListBankAccounts)
	api.POST("/bank-accounts", s.CreateBankAccount)
	api.GET("/bank-accounts/:id", s.GetBankAccountByID)
	api.PUT("/bank-accounts/:id", s.UpdateBankAccount)
	api.DELETE("/bank-accounts/:id", s.DeleteBankAccount)

	// -------- Users --------
	api.GET("/users", s.ListUsers)
	api.POST("/users", s.CreateUser)
	api.GET("/users/:id", s.GetUserByID)
	api.PATCH("/users/:id", s.UpdateUser)
	api.DELETE("/users/:id", s.DeleteUser)

	// -------- Billing invoices --------
	api.GET("/billing-invoices", s.ListInvoices)
	api.POST("/billing-invoices", s.CreateInvoice)
	api.GET("/billing-invoices/:id", s.GetInvoiceByID)
	api.PUT("/billing-invoices/:id", s.UpdateInvoice)
	api.DELETE("/billing-invoices/:id", s.DeleteInvoice)
	api.POST("/billing-invoices/:id/submit", s.SubmitInvoice)
	api.POST("/billing-invoices/:id/approve", s.ApproveInvoice)
	api.POST("/billing-invoices/:id/send", s.SendInvoice)
	api.POST("/billing-invoices/:id/signature", s.AttachInvoiceSignature)
	api.DELETE("/billing-invoices/:id/signature", s.DetachInvoiceSignature)

	// -------- Journal entries --------
	api.GET("/journal-entries", s.ListJournalEntries)
	api.GET("/journal-entries/postable-invoices", s.ListPostableInvoices)
	api.POST("/journal-entries/preview", s.PreviewJournalEntry)
	api.POST("/journal-entries/generate", s.GenerateJournalEntry)
	api.GET("/journal-entries/:id", s.GetJournalEntryByID)
	api.POST("/journal-entries/:id/approve", s.ApproveJournalEntry)
	api.POST("/journal-entries/:id/signature", s.AttachJournalSignature)
	api.DELETE("/journal-entries/:id/signature", s.DetachJournalSignature)

	// -------- General vouchers --------
	api.GET("/general-vouchers", s.ListVouchers)
	api.POST("/general-vouchers", s.CreateVoucher)
	api.GET("/general-vouchers/:id", s.GetVoucherByID)
	api.PUT("/general-vouchers/:id", s.UpdateVoucher)
	api.DELETE("/general-vouchers/:id", s.DeleteVoucher)
	api.POST("/general-vouchers/:id/signature", s.AttachVoucherSignature)
	api.DELETE("/general-vouchers/:id/signature", s.DetachVoucherSignature)
}
