package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/http/response"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
	"github.com/yungbote/gazelab-backend/internal/services"
)

// 25 MiB, matches the Document AI sync-process request ceiling.
const maxManualSize = 25 << 20

type ManualHandler struct {
	log    *logger.Logger
	ingest services.IngestService
}

func NewManualHandler(log *logger.Logger, ingest services.IngestService) *ManualHandler {
	return &ManualHandler{
		log:    log.With("handler", "ManualHandler"),
		ingest: ingest,
	}
}

// Upload ingests a lab-manual PDF and returns the gaze-adapted experiment.
func (h *ManualHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondDomainError(c, domain.NewValidationError("missing file field in multipart form"))
		return
	}
	if fileHeader.Size > maxManualSize {
		response.RespondDomainError(c, domain.NewValidationError("manual exceeds the %d byte upload limit", maxManualSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	manual, err := h.ingest.IngestManual(c.Request.Context(), contents, mimeType)
	if err != nil {
		h.log.Error("Manual ingestion failed", "filename", fileHeader.Filename, "error", err)
		response.RespondDomainError(c, err)
		return
	}

	h.log.Info("Manual ingested",
		"filename", fileHeader.Filename,
		"experiment_id", manual.ExperimentMetadata.ExperimentID,
		"steps", len(manual.Procedure))
	response.RespondOK(c, manual)
}
