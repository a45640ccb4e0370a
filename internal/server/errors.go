package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbooks/smallbooks/internal/auth/domain"
	bankaccountdomain "github.com/smallbooks/smallbooks/internal/bankaccount/domain"
	clientdomain "github.com/smallbooks/smallbooks/internal/client/domain"
	"github.com/smallbooks/smallbooks/internal/document"
	invoicedomain "github.com/smallbooks/smallbooks/internal/invoice/domain"
	journaldomain "github.com/smallbooks/smallbooks/internal/journal/domain"
	signaturedomain "github.com/smallbooks/smallbooks/internal/signature/domain"
	userdomain "github.com/smallbooks/smallbooks/internal/user/domain"
	voucherdomain "github.com/smallbooks/smallbooks/internal/voucher/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var invErr *invoicedomain.ValidationError
	if errors.As(err, &invErr) {
		fields := make([]ValidationError, 0, len(invErr.Fields))
		for _, field := range invErr.Fields {
			fields = append(fields, ValidationError{
				Field:   field,
				Code:    "required",
				Message: "missing required field",
			})
		}
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  fields,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, document.ErrNotApprover),
		errors.Is(err, signaturedomain.ErrNotRoleOwner):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, userdomain.ErrInvalidID),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrInvalidFullName),
		errors.Is(err, clientdomain.ErrInvalidID),
		errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, bankaccountdomain.ErrInvalidID),
		errors.Is(err, bankaccountdomain.ErrInvalidBankName),
		errors.Is(err, bankaccountdomain.ErrInvalidAccountName),
		errors.Is(err, bankaccountdomain.ErrInvalidAccountNumber),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidLineItem),
		errors.Is(err, invoicedomain.ErrNegativeAmountDue),
		errors.Is(err, journaldomain.ErrInvalidID),
		errors.Is(err, journaldomain.ErrNothingToPost),
		errors.Is(err, voucherdomain.ErrInvalidID),
		errors.Is(err, voucherdomain.ErrInvalidCategory),
		errors.Is(err, signaturedomain.ErrInvalidKind),
		errors.Is(err, signaturedomain.ErrInvalidRole),
		errors.Is(err, signaturedomain.ErrNoSignatureImage):
		return true
	default:
		return false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, userdomain.ErrEmailExists),
		errors.Is(err, userdomain.ErrUserReferenced),
		errors.Is(err, clientdomain.ErrCategoryExists),
		errors.Is(err, clientdomain.ErrClientReferenced),
		errors.Is(err, clientdomain.ErrCategoryReferenced),
		errors.Is(err, signaturedomain.ErrSignatureExists),
		errors.Is(err, document.ErrInvalidTransition),
		errors.Is(err, document.ErrDocumentPosted),
		errors.Is(err, document.ErrSignatureMissing),
		errors.Is(err, journaldomain.ErrAlreadyLinked),
		errors.Is(err, journaldomain.ErrNotApprovedYet),
		errors.Is(err, journaldomain.ErrReferenceConflict),
		errors.Is(err, journaldomain.ErrSequenceExhausted):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, journaldomain.ErrAlreadyLinked):
		return "invoice already linked to a journal entry"
	case errors.Is(err, document.ErrDocumentPosted):
		return "document is posted and can no longer change"
	case errors.Is(err, document.ErrSignatureMissing):
		return "required signatures are not attached"
	default:
		return "conflict"
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, clientdomain.ErrNotFound),
		errors.Is(err, clientdomain.ErrCategoryNotFound),
		errors.Is(err, bankaccountdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, journaldomain.ErrNotFound),
		errors.Is(err, voucherdomain.ErrNotFound),
		errors.Is(err, signaturedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

// classifyErrorForLog feeds the request logger's error_type/error_code
// fields without leaking raw error strings into access logs.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal", payload.Type
	case status >= http.StatusBadRequest:
		return "client", payload.Type
	default:
		return "", ""
	}
}
