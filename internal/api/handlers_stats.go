package api

import (
	"encoding/json"
	"net/http"
)

// handleExtractStats reports per-format extraction latency aggregates
// and the current queue depth.
func (s *Server) handleExtractStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"formats":     s.orchestrator.Timings().Snapshot(),
	})
}
