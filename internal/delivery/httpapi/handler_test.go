package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squeeze-scanner/internal/domain"
	"squeeze-scanner/internal/repository"
)

func newTestMux(result *domain.ScanResult) *http.ServeMux {
	repo := repository.NewScanResultRepository()
	if result != nil {
		repo.SaveResult(result)
	}
	mux := http.NewServeMux()
	NewHandler(repo, zerolog.Nop()).Register(mux)
	return mux
}

func TestLatestScanBeforeFirstScan(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scan", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLatestScanReturnsResult(t *testing.T) {
	result := &domain.ScanResult{
		ScannedAt: time.Now().UTC(),
		Timeframe: "weekly",
		FiredBullish: []domain.RankedSignal{
			{Verdict: domain.Verdict{Symbol: "NVDA"}, Score: 90},
		},
	}

	rec := httptest.NewRecorder()
	newTestMux(result).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scan", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var decoded domain.ScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded.FiredBullish, 1)
	assert.Equal(t, "NVDA", decoded.FiredBullish[0].Symbol)
}

func TestFiredCSVEndpoint(t *testing.T) {
	result := &domain.ScanResult{
		FiredBullish: []domain.RankedSignal{
			{Verdict: domain.Verdict{Symbol: "AMD", Sector: "Technology"}, Score: 75},
		},
	}

	rec := httptest.NewRecorder()
	newTestMux(result).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scan/fired.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "AMD,Technology")
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
