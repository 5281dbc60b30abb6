package handlers

import (
	"net/http"

	"github.com/longregen/roomgate/internal/config"
)

type ConfigHandler struct {
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// PublicConfigResponse contains only the configuration safe to expose to clients
type PublicConfigResponse struct {
	LiveKitURL               string `json:"livekitUrl" msgpack:"livekitUrl"`
	AgentName                string `json:"agentName,omitempty" msgpack:"agentName,omitempty"`
	CredentialTTLSeconds     int64  `json:"credentialTtlSeconds" msgpack:"credentialTtlSeconds"`
	DispatchRetentionSeconds int64  `json:"dispatchRetentionSeconds" msgpack:"dispatchRetentionSeconds"`
}

// GetPublicConfig handles GET /api/v1/config.
// The join page reads the LiveKit URL from here before connecting.
func (h *ConfigHandler) GetPublicConfig(w http.ResponseWriter, r *http.Request) {
	response := &PublicConfigResponse{
		LiveKitURL:               h.cfg.LiveKit.URL,
		AgentName:                h.cfg.LiveKit.AgentName,
		CredentialTTLSeconds:     int64(h.cfg.Credential.TTL.Std().Seconds()),
		DispatchRetentionSeconds: int64(h.cfg.Dispatch.Retention.Std().Seconds()),
	}

	respond(w, r, response, http.StatusOK)
}
