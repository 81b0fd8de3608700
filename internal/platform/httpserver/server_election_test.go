package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	electionservice "quorum/contexts/election-administration/election-service"
	electionentities "quorum/contexts/election-administration/election-service/domain/entities"
	electionhttp "quorum/contexts/election-administration/election-service/transport/http"
	voterdirectory "quorum/contexts/identity-access/voter-directory"
	directoryentities "quorum/contexts/identity-access/voter-directory/domain/entities"

	"golang.org/x/crypto/bcrypt"
)

func strPtr(value string) *string { return &value }

func timePtr(value time.Time) *time.Time { return &value }

func newTestServer(t *testing.T) (*Server, electionservice.Module) {
	t.Helper()
	now := time.Now().UTC()
	elections := electionservice.NewInMemoryModule([]electionentities.Election{{
		ElectionID: "elc_live",
		Title:      "Student Council",
		StartDate:  timePtr(now.AddDate(0, 0, -1)),
		EndDate:    timePtr(now.AddDate(0, 0, 1)),
		Status:     electionentities.ElectionStatusActive,
	}}, slog.Default())
	elections.Store.SeedPosition(electionentities.Position{PositionID: "pos_pres", ElectionID: "elc_live", Title: "President", DisplayOrder: 1})
	elections.Store.SeedCandidate(electionentities.Candidate{CandidateID: "cnd_1", ElectionID: "elc_live", PositionID: strPtr("pos_pres"), FullName: "Amira Cho"})
	elections.Store.SeedCandidate(electionentities.Candidate{CandidateID: "cnd_2", ElectionID: "elc_live", PositionID: strPtr("pos_pres"), FullName: "Ben Ilag"})
	elections.Store.SeedVoter(electionentities.VoterProfile{VoterID: "vtr_1", FullName: "Ida Santos", Grade: "9", Section: "A"})

	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	voters := voterdirectory.NewInMemoryModule([]directoryentities.Voter{{
		VoterID:      "vtr_1",
		Username:     "ida.santos",
		FullName:     "Ida Santos",
		Grade:        "9",
		Section:      "A",
		PasswordHash: string(hash),
	}}, slog.Default())

	return New(elections, voters, slog.Default(), ":0"), elections
}

func doJSON(t *testing.T, s *Server, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	s.mux.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateElectionEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	// Creation without an idempotency key is rejected up front.
	resp := doJSON(t, s, http.MethodPost, "/api/v1/elections", electionhttp.CreateElectionRequest{Title: "New Poll"}, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key, got %d: %s", resp.Code, resp.Body.String())
	}

	headers := map[string]string{"Idempotency-Key": "http-key-1"}
	resp = doJSON(t, s, http.MethodPost, "/api/v1/elections", electionhttp.CreateElectionRequest{Title: "New Poll"}, headers)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created electionhttp.CreateElectionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Election.Status != "upcoming" || created.Replayed {
		t.Fatalf("unexpected create response: %+v", created)
	}

	// Retrying the exact request replays the original election.
	resp = doJSON(t, s, http.MethodPost, "/api/v1/elections", electionhttp.CreateElectionRequest{Title: "New Poll"}, headers)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 on replay, got %d", resp.Code)
	}
	var replayed electionhttp.CreateElectionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &replayed); err != nil {
		t.Fatalf("decode replay: %v", err)
	}
	if !replayed.Replayed || replayed.Election.ElectionID != created.Election.ElectionID {
		t.Fatalf("expected a replay of %s, got %+v", created.Election.ElectionID, replayed)
	}
}

func TestCastBallotEndpointConflictsOnSecondSubmission(t *testing.T) {
	s, _ := newTestServer(t)
	body := electionhttp.CastBallotRequest{
		VoterID: "vtr_1",
		Lines:   []electionhttp.BallotLineDTO{{PositionID: strPtr("pos_pres"), CandidateID: strPtr("cnd_1")}},
	}

	resp := doJSON(t, s, http.MethodPost, "/api/v1/elections/elc_live/ballots", body, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, s, http.MethodPost, "/api/v1/elections/elc_live/ballots", body, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate ballot, got %d: %s", resp.Code, resp.Body.String())
	}
	var failure electionhttp.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &failure); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if failure.Code != "conflict" {
		t.Fatalf("expected conflict code, got %+v", failure)
	}
}

func TestCastBallotEndpointRejectsIneligibleVoter(t *testing.T) {
	s, elections := newTestServer(t)
	elections.Store.SeedVoter(electionentities.VoterProfile{VoterID: "vtr_g12", FullName: "Senior", Grade: "12", Section: "A"})
	grade := 9
	if _, err := elections.Handler.UpdateElectionHandler(context.Background(), "elc_live", electionhttp.UpdateElectionRequest{AllowedGrade: &grade}); err != nil {
		t.Fatalf("restrict election: %v", err)
	}

	resp := doJSON(t, s, http.MethodPost, "/api/v1/elections/elc_live/ballots", electionhttp.CastBallotRequest{
		VoterID: "vtr_g12",
		Lines:   []electionhttp.BallotLineDTO{{PositionID: strPtr("pos_pres"), CandidateID: strPtr("cnd_1")}},
	}, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for an ineligible voter, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestStatusEndpointRejectsEarlyActivation(t *testing.T) {
	s, elections := newTestServer(t)
	headers := map[string]string{"Idempotency-Key": "http-key-status"}
	resp := doJSON(t, s, http.MethodPost, "/api/v1/elections", electionhttp.CreateElectionRequest{
		Title:     "Future Poll",
		StartDate: time.Now().UTC().AddDate(0, 0, 5).Format("2006-01-02"),
		EndDate:   time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02"),
	}, headers)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", resp.Code, resp.Body.String())
	}
	var created electionhttp.CreateElectionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	target := "/api/v1/elections/" + created.Election.ElectionID + "/status"
	resp = doJSON(t, s, http.MethodPut, target, electionhttp.SetStatusRequest{Status: "active"}, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 before the start date, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, s, http.MethodPut, target, electionhttp.SetStatusRequest{Status: "active", Force: true}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on forced activation, got %d: %s", resp.Code, resp.Body.String())
	}
	var status electionhttp.SetStatusResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.Forced || status.To != "active" {
		t.Fatalf("unexpected status response: %+v", status)
	}

	stored, err := elections.Store.GetElection(context.Background(), created.Election.ElectionID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !stored.StatusLocked {
		t.Fatal("a forced transition must lock the election against passive sync")
	}
}

func TestDeleteElectionEndpointIsDisabled(t *testing.T) {
	s, _ := newTestServer(t)
	resp := doJSON(t, s, http.MethodDelete, "/api/v1/elections/elc_live", nil, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for election deletion, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestResultsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	resp := doJSON(t, s, http.MethodPost, "/api/v1/elections/elc_live/ballots", electionhttp.CastBallotRequest{
		VoterID: "vtr_1",
		Lines:   []electionhttp.BallotLineDTO{{PositionID: strPtr("pos_pres"), CandidateID: strPtr("cnd_2")}},
	}, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("cast failed: %d %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, s, http.MethodGet, "/api/v1/elections/elc_live/results", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var results electionhttp.ResultsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if results.TallySource != "log" || results.TotalCastVotes != 1 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if len(results.Positions) != 1 || len(results.Positions[0].WinnerIDs) != 1 || results.Positions[0].WinnerIDs[0] != "cnd_2" {
		t.Fatalf("unexpected position result: %+v", results.Positions)
	}

	resp = doJSON(t, s, http.MethodGet, "/api/v1/elections/elc_nope/results", nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown election, got %d", resp.Code)
	}
}
