package repository

import (
	"sync"

	"squeeze-scanner/internal/domain"
)

// ScanResultRepository keeps the latest scan result in memory for the HTTP
// and websocket delivery layers.
type ScanResultRepository struct {
	mu     sync.RWMutex
	latest *domain.ScanResult
}

func NewScanResultRepository() *ScanResultRepository {
	return &ScanResultRepository{}
}

func (r *ScanResultRepository) SaveResult(result *domain.ScanResult) {
	r.mu.Lock()
	r.latest = result
	r.mu.Unlock()
}

// GetResult returns the latest result, or nil when no scan has completed yet.
func (r *ScanResultRepository) GetResult() *domain.ScanResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

var _ domain.ScanRepository = (*ScanResultRepository)(nil)
