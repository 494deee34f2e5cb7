package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"squeeze-scanner/internal/domain"
	"squeeze-scanner/internal/repository"
)

// Handler serves the latest scan result over plain HTTP.
type Handler struct {
	repo domain.ScanRepository
	log  zerolog.Logger
}

func NewHandler(repo domain.ScanRepository, log zerolog.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// Register mounts the API routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.health)
	mux.HandleFunc("/api/scan", h.latestScan)
	mux.HandleFunc("/api/scan/fired.csv", h.firedCSV)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) latestScan(w http.ResponseWriter, r *http.Request) {
	result := h.repo.GetResult()
	if result == nil {
		http.Error(w, "no scan completed yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.log.Warn().Err(err).Msg("scan result encode failed")
	}
}

func (h *Handler) firedCSV(w http.ResponseWriter, r *http.Request) {
	result := h.repo.GetResult()
	if result == nil {
		http.Error(w, "no scan completed yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="squeeze_fires.csv"`)
	if err := repository.WriteFiredCSV(w, result); err != nil {
		h.log.Warn().Err(err).Msg("csv export failed")
	}
}
