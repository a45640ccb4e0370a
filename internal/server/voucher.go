package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	voucherdomain "github.com/smallbooks/smallbooks/internal/voucher/domain"
)

func (s *Server) ListVouchers(c *gin.Context) {
	vouchers, err := s.voucherSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"general_vouchers": vouchers})
}

func (s *Server) GetVoucherByID(c *gin.Context) {
	voucher, err := s.voucherSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, voucher)
}

func (s *Server) CreateVoucher(c *gin.Context) {
	var req voucherdomain.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	voucher, err := s.voucherSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, voucher)
}

func (s *Server) UpdateVoucher(c *gin.Context) {
	var req voucherdomain.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	voucher, err := s.voucherSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, voucher)
}

func (s *Server) DeleteVoucher(c *gin.Context) {
	if err := s.voucherSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) AttachVoucherSignature(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req signatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	signature, err := s.voucherSvc.AttachSignature(c.Request.Context(), c.Param("id"), req.Role, actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, signature)
}

func (s *Server) DetachVoucherSignature(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req signatureRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.voucherSvc.DetachSignature(c.Request.Context(), c.Param("id"), req.Role, actor); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
