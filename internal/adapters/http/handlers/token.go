package handlers

import (
	"net/http"

	"github.com/longregen/roomgate/internal/adapters/http/dto"
	"github.com/longregen/roomgate/internal/ports"
)

type TokenHandler struct {
	joins ports.JoinService
}

func NewTokenHandler(joins ports.JoinService) *TokenHandler {
	return &TokenHandler{joins: joins}
}

// Create handles POST /token: issue a credential, make sure the room exists
// and bring an agent into it.
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	req, ok := decodeBody[dto.TokenRequest](r, w)
	if !ok {
		return
	}

	cred, err := h.joins.Join(r.Context(), req.RoomName, req.ParticipantName)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, dto.NewTokenResponse(cred), http.StatusOK)
}

// Get handles GET /token?room=&identity=, which only mints a credential.
func (h *TokenHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	cred, err := h.joins.Issue(query.Get("room"), query.Get("identity"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, dto.NewTokenResponse(cred), http.StatusOK)
}
