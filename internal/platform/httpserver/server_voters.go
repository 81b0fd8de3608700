package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	directoryerrors "quorum/contexts/identity-access/voter-directory/domain/errors"
	directoryhttp "quorum/contexts/identity-access/voter-directory/transport/http"
)

func writeDirectoryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, directoryhttp.ErrorResponse{Code: code, Message: message})
}

func writeDirectoryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directoryerrors.ErrInvalidCredentials):
		writeDirectoryError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, directoryerrors.ErrVoterNotFound):
		writeDirectoryError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, directoryerrors.ErrInvalidRequest):
		writeDirectoryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeDirectoryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleVerifyCredentials(w http.ResponseWriter, r *http.Request) {
	var req directoryhttp.VerifyCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDirectoryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voters.Handler.VerifyCredentialsHandler(r.Context(), req)
	if err != nil {
		writeDirectoryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetVoter(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voters.Handler.GetVoterHandler(r.Context(), r.PathValue("voter_id"))
	if err != nil {
		writeDirectoryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
