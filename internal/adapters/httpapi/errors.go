package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.trai.ch/stackhub/internal/core/domain"
)

var errMissingField = errors.New("missing form field")

// statusFor maps a registry error to an HTTP status and a client-facing detail message.
func statusFor(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrModuleAlreadyExists):
		return http.StatusBadRequest, "Module already exists"
	case errors.Is(err, domain.ErrVersionAlreadyExists):
		return http.StatusBadRequest, "Version already exists"
	case errors.Is(err, domain.ErrInvalidVersion):
		return http.StatusBadRequest, "Invalid version"
	case errors.Is(err, domain.ErrInvalidModuleName):
		return http.StatusBadRequest, "Invalid module name"
	case errors.Is(err, errMissingField):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		return http.StatusBadRequest, "Expected a multipart form"
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "Upload too large"
	case errors.Is(err, domain.ErrModuleNotFound):
		return http.StatusNotFound, "Module not found"
	case errors.Is(err, domain.ErrVersionNotFound):
		return http.StatusNotFound, "Version not found"
	case errors.Is(err, domain.ErrNoVersionsAvailable):
		return http.StatusNotFound, "No versions available"
	case errors.Is(err, domain.ErrPersistenceFailed):
		return http.StatusInternalServerError, "Failed to persist module"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status, detail := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
