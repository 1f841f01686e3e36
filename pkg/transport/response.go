package transport

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/service"
)

// apiResponse is the single envelope every endpoint answers with.
type apiResponse struct {
	Success    bool                `json:"success"`
	Data       interface{}         `json:"data,omitempty"`
	Error      string              `json:"error,omitempty"`
	Message    string              `json:"message,omitempty"`
	Count      *int                `json:"count,omitempty"`
	Token      string              `json:"token,omitempty"`
	User       interface{}         `json:"user,omitempty"`
	URL        string              `json:"url,omitempty"`
	Pagination *service.Pagination `json:"pagination,omitempty"`
	Stats      interface{}         `json:"stats,omitempty"`
}

func writeSuccess(w http.ResponseWriter, status int, resp apiResponse) {
	resp.Success = true
	writeJSON(w, status, resp)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Error("write response")
	}
}

func countOf(n int) *int {
	return &n
}
