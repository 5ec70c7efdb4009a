package web

import (
	"net/http"

	"github.com/JonMunkholm/tcgstock/internal/core"
)

// handleCatalogSync pulls the reference catalog and stores new cards.
func (s *Server) handleCatalogSync(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.SyncCatalog(withClient(r))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string             `json:"status"`
	Imports core.LimiterStatus `json:"imports"`
}

// handleHealth reports liveness and import slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "ok",
		Imports: s.service.LimiterStatus(),
	})
}
