package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	journaldomain "github.com/smallbooks/smallbooks/internal/journal/domain"
)

func (s *Server) ListJournalEntries(c *gin.Context) {
	entries, err := s.journalSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"journal_entries": entries})
}

func (s *Server) GetJournalEntryByID(c *gin.Context) {
	detail, err := s.journalSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListPostableInvoices returns the invoices still eligible for a new
// posting batch.
func (s *Server) ListPostableInvoices(c *gin.Context) {
	invoices, err := s.journalSvc.ListPostable(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (s *Server) PreviewJournalEntry(c *gin.Context) {
	var req journaldomain.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	preview, err := s.journalSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (s *Server) GenerateJournalEntry(c *gin.Context) {
	var req journaldomain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	detail, err := s.journalSvc.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (s *Server) ApproveJournalEntry(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	entry, err := s.journalSvc.Approve(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) AttachJournalSignature(c *gin.Context) {
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

	signature, err := s.journalSvc.AttachSignature(c.Request.Context(), c.Param("id"), req.Role, actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, signature)
}

func (s *Server) DetachJournalSignature(c *gin.Context) {
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

	if err := s.journalSvc.DetachSignature(c.Request.Context(), c.Param("id"), req.Role, actor); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
