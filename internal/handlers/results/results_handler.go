// internal/handlers/results/results_handler.go
package results

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "labportal-service/internal/domain/results"
	"labportal-service/internal/middleware"
	xerrors "labportal-service/internal/pkg/errors"
	"labportal-service/internal/pkg/response"
	resultsUsecase "labportal-service/internal/service/results"
)

type ResultHandler struct {
	resultService *resultsUsecase.ResultService
	logger        *zap.Logger
}

func NewResultHandler(resultService *resultsUsecase.ResultService, logger *zap.Logger) *ResultHandler {
	return &ResultHandler{
		resultService: resultService,
		logger:        logger,
	}
}

// ========== Portal ==========

// List returns the signed-in client's released results.
func (h *ResultHandler) List(c *gin.Context) {
	subject := middleware.MustGetSubject(c)

	views, err := h.resultService.List(c.Request.Context(), subject)
	if err != nil {
		h.logger.Error("result listing failed",
			zap.String("subject", subject),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "internal_error", "could not load results")
		return
	}

	response.Success(c, http.StatusOK, "results loaded", views)
}

// Download redirects to a short-lived signed URL for one of the client's
// own documents. Other clients' result ids look like missing ids.
func (h *ResultHandler) Download(c *gin.Context) {
	subject := middleware.MustGetSubject(c)
	resultID := c.Param("id")

	signed, err := h.resultService.DownloadURL(c.Request.Context(), subject, resultID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "result not found")
			return
		}
		h.logger.Error("download url failed",
			zap.String("subject", subject),
			zap.String("result_id", resultID),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "internal_error", "could not prepare download")
		return
	}

	c.Redirect(http.StatusFound, signed)
}

// ========== Admin ==========

// Publish releases a result document to a client (admin only).
func (h *ResultHandler) Publish(c *gin.Context) {
	var req domain.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid_body", "subject, title and object_key are required")
		return
	}

	view, err := h.resultService.Publish(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("result publish failed",
			zap.String("subject", req.Subject),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "internal_error", "could not publish result")
		return
	}

	response.Success(c, http.StatusCreated, "result published", view)
}
