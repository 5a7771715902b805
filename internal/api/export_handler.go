package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/notumhq/notum/internal/api/shared"
	"github.com/notumhq/notum/internal/platform/logger"
	"github.com/notumhq/notum/internal/service/export"
)

// ExportHandler handles export and import HTTP requests.
type ExportHandler struct {
	exporter *export.Service
	logger   *slog.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exporter *export.Service, log *slog.Logger) *ExportHandler {
	if exporter == nil {
		panic("exporter cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ExportHandler{
		exporter: exporter,
		logger:   log.With(slog.String("component", "export_handler")),
	}
}

// Export handles GET /export. ?format=zip returns the markdown archive,
// anything else the JSON bundle. ?tracks= takes a comma-separated list of
// track ids to restrict the export.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var trackIDs []uuid.UUID
	if raw := r.URL.Query().Get("tracks"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid track id in tracks filter")
				return
			}
			trackIDs = append(trackIDs, id)
		}
	}

	if r.URL.Query().Get("format") == "zip" {
		var buf bytes.Buffer
		if err := h.exporter.ExportArchive(r.Context(), &buf, trackIDs...); err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}

		log.Debug("archive export served", slog.Int("bytes", buf.Len()))
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="notum-export.zip"`)
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
		return
	}

	doc, err := h.exporter.ExportJSON(r.Context(), trackIDs...)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// Import handles POST /import: the request body is a JSON bundle document.
func (h *ExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Failed to read request body")
		return
	}

	report, err := h.exporter.ImportJSON(r.Context(), data)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}
