package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/MeKo-Tech/gridmatch/internal/common"
	"github.com/MeKo-Tech/gridmatch/internal/pruner"
	"github.com/MeKo-Tech/gridmatch/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Memory:  common.GetMemoryStats(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// filterHandler processes match filtering requests.
func (s *Server) filterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyMB*1024*1024)

	var req FilterRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeErrorResponse(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.writeErrorResponse(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	cfg, err := s.requestConfig(&req)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := req.MatchSet.Validate(); err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid match set: %v", err), http.StatusBadRequest)
		return
	}

	timer := common.NewNamedTimer("filter")
	result, err := pruner.Prune(&req.MatchSet, cfg)
	elapsed := timer.Stop()

	method := string(cfg.Method)
	if err != nil {
		filterRequestsTotal.WithLabelValues(method, "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Filtering failed: %v", err), http.StatusUnprocessableEntity)
		return
	}

	total := len(result.Mask)
	filterRequestsTotal.WithLabelValues(method, "ok").Inc()
	filterDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	filterMatchesTotal.WithLabelValues(method).Observe(float64(total))
	filterInliersTotal.WithLabelValues(method).Observe(float64(result.Inliers))

	slog.Debug("filter request complete",
		"method", method, "total", total, "kept", result.Inliers, "duration", elapsed)

	response := FilterResponse{
		Success: true,
		Method:  method,
		Total:   total,
		Kept:    result.Inliers,
		Mask:    result.Mask,
		Matches: result.Matches,
		Processing: ProcessingInfo{
			TotalMs: elapsed.Milliseconds(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding filter response: %v\n", err)
	}
}

// requestConfig merges per-request overrides onto the server defaults.
func (s *Server) requestConfig(req *FilterRequest) (pruner.Config, error) {
	cfg := s.pruneCfg
	if req.Method != "" {
		method, err := pruner.ParseMethod(req.Method)
		if err != nil {
			return pruner.Config{}, err
		}
		cfg.Method = method
	}
	if req.Ratio != nil {
		cfg.Ratio = *req.Ratio
	}
	if req.GridWidth != nil {
		cfg.GMS.GridWidth = *req.GridWidth
	}
	if req.GridHeight != nil {
		cfg.GMS.GridHeight = *req.GridHeight
	}
	if req.Alpha != nil {
		cfg.GMS.Alpha = *req.Alpha
	}
	if req.WithScale != nil {
		cfg.GMS.WithScale = *req.WithScale
	}
	if req.WithRotation != nil {
		cfg.GMS.WithRotation = *req.WithRotation
	}
	if err := cfg.GMS.Validate(); err != nil {
		return pruner.Config{}, err
	}
	return cfg, nil
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := FilterResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error, but can't send another response
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
