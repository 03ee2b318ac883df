package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	followupdomain "github.com/smallbiznis/quotely/internal/followup/domain"
	leaddomain "github.com/smallbiznis/quotely/internal/lead/domain"
	"github.com/smallbiznis/quotely/internal/observability/logger"
	organizationdomain "github.com/smallbiznis/quotely/internal/organization/domain"
	productdomain "github.com/smallbiznis/quotely/internal/product/domain"
	quotationdomain "github.com/smallbiznis/quotely/internal/quotation/domain"
	tpldomain "github.com/smallbiznis/quotely/internal/quotetemplate/domain"
	"github.com/smallbiznis/quotely/internal/render"
	"go.uber.org/zap"
)

const (
	errorTypeInvalidRequest = "invalid_request_error"
	errorTypeNotFound       = "not_found_error"
	errorTypeConflict       = "conflict_error"
	errorTypeRateLimit      = "rate_limit_error"
	errorTypeAPI            = "api_error"
)

// APIError is the body of every error response, nested under "error".
type APIError struct {
	Status  int    `json:"-"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

var (
	ErrNotFound = &APIError{
		Status:  http.StatusNotFound,
		Type:    errorTypeNotFound,
		Code:    "not_found",
		Message: "resource not found",
	}
	ErrOrganizationRequired = &APIError{
		Status:  http.StatusBadRequest,
		Type:    errorTypeInvalidRequest,
		Code:    "organization_required",
		Field:   HeaderOrg,
		Message: "organization header is required",
	}
	ErrRateLimited = &APIError{
		Status:  http.StatusTooManyRequests,
		Type:    errorTypeRateLimit,
		Code:    "rate_limited",
		Message: "too many requests",
	}
)

func invalidRequestError() *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Type:    errorTypeInvalidRequest,
		Code:    "invalid_request",
		Message: "invalid request body",
	}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Type:    errorTypeInvalidRequest,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

// AbortWithError writes err as a JSON error response and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	_ = c.Error(err)
	if apiErr.Status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
}

func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case isNotFoundError(err):
		return &APIError{
			Status:  http.StatusNotFound,
			Type:    errorTypeNotFound,
			Code:    err.Error(),
			Message: "resource not found",
		}
	case errors.Is(err, productdomain.ErrCodeExists):
		return &APIError{
			Status:  http.StatusConflict,
			Type:    errorTypeConflict,
			Code:    err.Error(),
			Field:   "code",
			Message: "product code already exists",
		}
	case errors.Is(err, followupdomain.ErrAlreadyClosed):
		return &APIError{
			Status:  http.StatusConflict,
			Type:    errorTypeConflict,
			Code:    err.Error(),
			Message: "follow-up is already closed",
		}
	case isOrganizationValidationError(err),
		isProductValidationError(err),
		isLeadValidationError(err),
		isFollowupValidationError(err),
		isTemplateValidationError(err),
		isQuotationValidationError(err),
		isRenderValidationError(err):
		return &APIError{
			Status:  http.StatusBadRequest,
			Type:    errorTypeInvalidRequest,
			Code:    err.Error(),
			Message: err.Error(),
		}
	default:
		return &APIError{
			Status:  http.StatusInternalServerError,
			Type:    errorTypeAPI,
			Code:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, organizationdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, leaddomain.ErrNotFound),
		errors.Is(err, followupdomain.ErrNotFound),
		errors.Is(err, tpldomain.ErrNotFound),
		errors.Is(err, quotationdomain.ErrNotFound),
		errors.Is(err, quotationdomain.ErrItemNotFound),
		errors.Is(err, render.ErrTemplateNotFound):
		return true
	default:
		return false
	}
}
