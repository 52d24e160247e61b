// Package server exposes the match pruning engine over HTTP.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/gridmatch/internal/common"
	"github.com/MeKo-Tech/gridmatch/internal/match"
	"github.com/MeKo-Tech/gridmatch/internal/pruner"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	pruneCfg   pruner.Config
	corsOrigin string
	maxBodyMB  int64
	timeoutSec int
}

// Config holds server configuration.
type Config struct {
	Host       string
	Port       int
	CORSOrigin string
	MaxBodyMB  int64
	TimeoutSec int
	Pruner     pruner.Config
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string             `json:"status"`
	Version string             `json:"version,omitempty"`
	Time    string             `json:"time"`
	Memory  common.MemoryStats `json:"memory"`
}

// FilterRequest is the POST /filter request body. The match set is embedded
// at the top level; method and engine settings default to the server
// configuration when omitted.
type FilterRequest struct {
	match.MatchSet
	Method       string   `json:"method,omitempty"`
	Ratio        *float64 `json:"ratio,omitempty"`
	GridWidth    *int     `json:"grid_width,omitempty"`
	GridHeight   *int     `json:"grid_height,omitempty"`
	Alpha        *float64 `json:"alpha,omitempty"`
	WithScale    *bool    `json:"with_scale,omitempty"`
	WithRotation *bool    `json:"with_rotation,omitempty"`
}

// FilterResponse is the POST /filter response body.
type FilterResponse struct {
	Success    bool           `json:"success"`
	Method     string         `json:"method,omitempty"`
	Total      int            `json:"total"`
	Kept       int            `json:"kept"`
	Mask       []bool         `json:"mask,omitempty"`
	Matches    []match.Match  `json:"matches,omitempty"`
	Processing ProcessingInfo `json:"processing"`
	Error      string         `json:"error,omitempty"`
}

// ProcessingInfo reports server-side timing.
type ProcessingInfo struct {
	TotalMs int64 `json:"total_ms"`
}

// NewServer creates a new filter server instance.
func NewServer(config Config) (*Server, error) {
	if err := config.Pruner.GMS.Validate(); err != nil {
		return nil, err
	}
	return &Server{
		pruneCfg:   config.Pruner,
		corsOrigin: config.CORSOrigin,
		maxBodyMB:  config.MaxBodyMB,
		timeoutSec: config.TimeoutSec,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/filter", s.corsMiddleware(s.filterHandler))
	mux.Handle("/metrics", promhttp.Handler())
}
