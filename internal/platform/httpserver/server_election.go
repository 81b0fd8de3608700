package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	electionerrors "quorum/contexts/election-administration/election-service/domain/errors"
	electionhttp "quorum/contexts/election-administration/election-service/transport/http"
)

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{Code: code, Message: message})
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrElectionNotFound),
		errors.Is(err, electionerrors.ErrPositionNotFound),
		errors.Is(err, electionerrors.ErrCandidateNotFound),
		errors.Is(err, electionerrors.ErrVoterNotFound):
		writeElectionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidElectionInput),
		errors.Is(err, electionerrors.ErrInvalidPositionInput),
		errors.Is(err, electionerrors.ErrInvalidCandidateInput),
		errors.Is(err, electionerrors.ErrEmptyBallot),
		errors.Is(err, electionerrors.ErrIdempotencyKeyRequired):
		writeElectionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidStatus),
		errors.Is(err, electionerrors.ErrStartDateInPast),
		errors.Is(err, electionerrors.ErrEndDateInPast),
		errors.Is(err, electionerrors.ErrEndDateBeforeStart),
		errors.Is(err, electionerrors.ErrActivateOutsideDates),
		errors.Is(err, electionerrors.ErrFinalizeBeforeEnd),
		errors.Is(err, electionerrors.ErrRevertToUpcoming):
		writeElectionError(w, http.StatusUnprocessableEntity, "unprocessable_entity", err.Error())
	case errors.Is(err, electionerrors.ErrAlreadyVotedPosition),
		errors.Is(err, electionerrors.ErrAlreadyVotedElection),
		errors.Is(err, electionerrors.ErrBallotAlreadyVoted),
		errors.Is(err, electionerrors.ErrDuplicateVote),
		errors.Is(err, electionerrors.ErrIdempotencyKeyConflict),
		errors.Is(err, electionerrors.ErrElectionDeletionDisabled):
		writeElectionError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, electionerrors.ErrVoterNotEligible):
		writeElectionError(w, http.StatusForbidden, "not_eligible", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CreateElectionHandler(
		r.Context(),
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.GetElectionHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateElection(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.UpdateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.UpdateElectionHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteElection(w http.ResponseWriter, r *http.Request) {
	if err := s.elections.Handler.DeleteElectionHandler(r.Context(), r.PathValue("election_id")); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetElectionStatus(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.SetStatusHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleElectionResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ResultsHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CastBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CastBallotHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CastVoteHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListPositionsHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CreatePositionHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListCandidatesHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CreateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CreateCandidateHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.UpdatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.UpdatePositionHandler(r.Context(), r.PathValue("position_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.UpdateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.UpdateCandidateHandler(r.Context(), r.PathValue("candidate_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBallotStatus(w http.ResponseWriter, r *http.Request) {
	voterID := strings.TrimSpace(r.URL.Query().Get("voter_id"))
	if voterID == "" {
		writeElectionError(w, http.StatusBadRequest, "invalid_request", "voter_id query parameter is required")
		return
	}
	resp, err := s.elections.Handler.BallotStatusHandler(r.Context(), voterID, r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteStatus(w http.ResponseWriter, r *http.Request) {
	voterID := strings.TrimSpace(r.URL.Query().Get("voter_id"))
	if voterID == "" {
		writeElectionError(w, http.StatusBadRequest, "invalid_request", "voter_id query parameter is required")
		return
	}
	resp, err := s.elections.Handler.VoteStatusHandler(
		r.Context(),
		voterID,
		r.PathValue("election_id"),
		r.PathValue("position_id"),
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListVoterElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListForVoterHandler(r.Context(), r.PathValue("voter_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParticipationStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ParticipationHandler(r.Context(), r.URL.Query().Get("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitRaw := r.URL.Query().Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeElectionError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.elections.Handler.AuditLogHandler(r.Context(), limit)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
