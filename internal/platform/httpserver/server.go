package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	electionservice "quorum/contexts/election-administration/election-service"
	voterdirectory "quorum/contexts/identity-access/voter-directory"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "quorum/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	elections electionservice.Module
	voters    voterdirectory.Module
}

func New(
	elections electionservice.Module,
	voters voterdirectory.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		elections: elections,
		voters:    voters,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/v1/elections", s.handleListElections)
	s.mux.HandleFunc("POST /api/v1/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("PUT /api/v1/elections/{election_id}", s.handleUpdateElection)
	s.mux.HandleFunc("DELETE /api/v1/elections/{election_id}", s.handleDeleteElection)
	s.mux.HandleFunc("PUT /api/v1/elections/{election_id}/status", s.handleSetElectionStatus)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/results", s.handleElectionResults)
	s.mux.HandleFunc("POST /api/v1/elections/{election_id}/ballots", s.handleCastBallot)
	s.mux.HandleFunc("POST /api/v1/elections/{election_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/positions", s.handleListPositions)
	s.mux.HandleFunc("POST /api/v1/elections/{election_id}/positions", s.handleCreatePosition)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/candidates", s.handleListCandidates)
	s.mux.HandleFunc("POST /api/v1/elections/{election_id}/candidates", s.handleCreateCandidate)
	s.mux.HandleFunc("PUT /api/v1/positions/{position_id}", s.handleUpdatePosition)
	s.mux.HandleFunc("PUT /api/v1/candidates/{candidate_id}", s.handleUpdateCandidate)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/ballot-status", s.handleBallotStatus)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/positions/{position_id}/voted", s.handleVoteStatus)
	s.mux.HandleFunc("GET /api/v1/voters/{voter_id}/elections", s.handleListVoterElections)
	s.mux.HandleFunc("GET /api/v1/voters/{voter_id}", s.handleGetVoter)
	s.mux.HandleFunc("POST /api/v1/auth/verify", s.handleVerifyCredentials)
	s.mux.HandleFunc("GET /api/v1/stats", s.handleParticipationStats)
	s.mux.HandleFunc("GET /api/v1/audit-log", s.handleAuditLog)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
