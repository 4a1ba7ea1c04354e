package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/LeadImport/internal/logging"
)

// handleImport imports an uploaded CSV or XLSX file into a search.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	searchID, err := strconv.ParseInt(chi.URLParam(r, "searchID"), 10, 64)
	if err != nil || searchID <= 0 {
		respondError(w, r, errInvalidSearch, http.StatusBadRequest)
		return
	}

	u, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logger := logging.WithFields(r.Context(), "search_id", searchID)
	logger.Info("import requested", "file", u.FileName, "bytes", len(u.Data))

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.Import(ctx, searchID, u)
	if err != nil {
		respondImportError(w, r, result, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handlePreview reports what an import of the uploaded file would do
// without storing anything.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	preview, err := s.service.Preview(WithRequestMetadata(r.Context(), r), u)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// handleGetImport returns the cached result of a finished import.
func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.GetImport(r.Context(), chi.URLParam(r, "importID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleImportHistory lists the most recent imports of a search.
func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	searchID, err := strconv.ParseInt(chi.URLParam(r, "searchID"), 10, 64)
	if err != nil || searchID <= 0 {
		respondError(w, r, errInvalidSearch, http.StatusBadRequest)
		return
	}

	entries, err := s.service.ImportHistory(r.Context(), searchID)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"searchId": searchID,
		"imports":  entries,
	})
}

// handleImportStatus returns the current state of the import limiter.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.LimiterStatus())
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleHealth probes every registered dependency.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s.healthMu.RLock()
	defer s.healthMu.RUnlock()

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(s.health))}
	status := http.StatusOK
	for name, check := range s.health {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, status, resp)
}
