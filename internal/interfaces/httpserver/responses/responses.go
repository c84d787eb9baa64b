package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code          string `json:"code"` // UUID from PlatformError
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// ListResponse is a paginated collection.
type ListResponse[T any] struct {
	Data   []T   `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// DataResponse wraps a single object.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// StatusResponse is returned by endpoints with nothing else to say.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses
func HandleError(reqCtx *gin.Context, err error, message string) {
	requestID := platformerrors.RequestIDFromContext(reqCtx.Request.Context())

	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.Type)

		errorMessage := domainErr.Message
		if errorMessage == "" || statusCode >= http.StatusInternalServerError {
			errorMessage = message
		}
		if domainErr.RequestID != "" {
			requestID = domainErr.RequestID
		}

		_ = reqCtx.Error(err)
		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Code:          domainErr.UUID,
			Error:         errorMessage,
			Message:       errorMessage,
			ErrorInstance: domainErr,
			RequestID:     requestID,
		})
		return
	}

	_ = reqCtx.Error(err)
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:         message,
		Message:       message,
		ErrorInstance: err,
		RequestID:     requestID,
	})
}

// HandleNewError creates a new typed error at the handler layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, errorType, message, nil, uuid)
	HandleError(reqCtx, err, message)
}
