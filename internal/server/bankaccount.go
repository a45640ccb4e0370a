package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	bankaccountdomain "github.com/smallbooks/smallbooks/internal/bankaccount/domain"
)

func (s *Server) ListBankAccounts(c *gin.Context) {
	accounts, err := s.bankAccountSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bank_accounts": accounts})
}

func (s *Server) GetBankAccountByID(c *gin.Context) {
	account, err := s.bankAccountSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) CreateBankAccount(c *gin.Context) {
	var req bankaccountdomain.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	account, err := s.bankAccountSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (s *Server) UpdateBankAccount(c *gin.Context) {
	var req bankaccountdomain.UpdateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	account, err := s.bankAccountSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) DeleteBankAccount(c *gin.Context) {
	if err := s.bankAccountSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
