package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbooks/smallbooks/internal/auth/domain"
	"github.com/smallbooks/smallbooks/internal/document"
	invoicedomain "github.com/smallbooks/smallbooks/internal/invoice/domain"
	journaldomain "github.com/smallbooks/smallbooks/internal/journal/domain"
	signaturedomain "github.com/smallbooks/smallbooks/internal/signature/domain"
	userdomain "github.com/smallbooks/smallbooks/internal/user/domain"
)

func performWithError(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	r.GET("/fail", func(c *gin.Context) {
		AbortWithError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	r.ServeHTTP(w, req)

	var body errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return w, body
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		wantType string
	}{
		{"not found", invoicedomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"validation", invoicedomain.ErrInvalidLineItem, http.StatusBadRequest, "validation_error"},
		{"nothing to post", journaldomain.ErrNothingToPost, http.StatusBadRequest, "validation_error"},
		{"unauthorized", authdomain.ErrSessionExpired, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", document.ErrNotApprover, http.StatusForbidden, "forbidden"},
		{"not role owner", signaturedomain.ErrNotRoleOwner, http.StatusForbidden, "forbidden"},
		{"conflict linked", journaldomain.ErrAlreadyLinked, http.StatusConflict, "conflict"},
		{"conflict posted", document.ErrDocumentPosted, http.StatusConflict, "conflict"},
		{"conflict email", userdomain.ErrEmailExists, http.StatusConflict, "conflict"},
		{"conflict references", journaldomain.ErrReferenceConflict, http.StatusConflict, "conflict"},
		{"conflict exhausted", journaldomain.ErrSequenceExhausted, http.StatusConflict, "conflict"},
		{"internal", errors.New("disk full"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := performWithError(t, tc.err)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
			if body.Error.Type != tc.wantType {
				t.Fatalf("type = %q, want %q", body.Error.Type, tc.wantType)
			}
		})
	}
}

func TestSubmitValidationErrorListsFields(t *testing.T) {
	w, body := performWithError(t, &invoicedomain.ValidationError{
		Fields: []string{"invoice_date", "client_id"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if len(body.Error.Errors) != 2 {
		t.Fatalf("errors = %+v", body.Error.Errors)
	}
	if body.Error.Errors[0].Field != "invoice_date" || body.Error.Errors[0].Code != "required" {
		t.Fatalf("first error = %+v", body.Error.Errors[0])
	}
}

func TestClassifyErrorForLog(t *testing.T) {
	kind, code := classifyErrorForLog(invoicedomain.ErrNotFound)
	if kind != "client" || code != "not_found" {
		t.Fatalf("classify = %q, %q", kind, code)
	}
	kind, code = classifyErrorForLog(errors.New("disk full"))
	if kind != "internal" || code != "internal_error" {
		t.Fatalf("classify = %q, %q", kind, code)
	}
}
