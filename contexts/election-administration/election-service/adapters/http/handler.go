package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quorum/contexts/election-administration/election-service/application/commands"
	"quorum/contexts/election-administration/election-service/application/queries"
	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
	"quorum/contexts/election-administration/election-service/ports"
	httptransport "quorum/contexts/election-administration/election-service/transport/http"
)

const dateLayout = "2006-01-02"

type Handler struct {
	CreateElection commands.CreateElectionUseCase
	UpdateElection commands.UpdateElectionUseCase
	SetStatus      commands.SetStatusUseCase
	Positions      commands.PositionUseCase
	Candidates     commands.CandidateUseCase
	CastBallot     commands.CastBallotUseCase
	CastVote       commands.CastVoteUseCase
	ListElections  queries.ListElectionsUseCase
	GetElection    queries.GetElectionUseCase
	ListForVoter   queries.ListElectionsForVoterUseCase
	Results        queries.ResultsUseCase
	VoterStatus    queries.VoterStatusUseCase
	Participation  queries.ParticipationUseCase
	Audit          ports.AuditLogRepository
	Logger         *slog.Logger
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.CreateElectionRequest,
) (httptransport.CreateElectionResponse, error) {
	startDate, err := parseElectionDate(req.StartDate)
	if err != nil {
		return httptransport.CreateElectionResponse{}, domainerrors.ErrInvalidElectionInput
	}
	endDate, err := parseElectionDate(req.EndDate)
	if err != nil {
		return httptransport.CreateElectionResponse{}, domainerrors.ErrInvalidElectionInput
	}
	result, err := h.CreateElection.Execute(ctx, commands.CreateElectionCommand{
		IdempotencyKey: idempotencyKey,
		Title:          req.Title,
		Description:    req.Description,
		StartDate:      startDate,
		EndDate:        endDate,
		Status:         req.Status,
		AllowedGrade:   req.AllowedGrade,
		AllowedSection: req.AllowedSection,
	})
	if err != nil {
		return httptransport.CreateElectionResponse{}, err
	}
	return httptransport.CreateElectionResponse{
		Election: mapElection(result.Election),
		Replayed: result.Replayed,
	}, nil
}

func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.ListElectionsResponse, error) {
	items, err := h.ListElections.Execute(ctx)
	if err != nil {
		return httptransport.ListElectionsResponse{}, err
	}
	result := make([]httptransport.ElectionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapElection(item))
	}
	return httptransport.ListElectionsResponse{Items: result}, nil
}

func (h Handler) GetElectionHandler(ctx context.Context, electionID string) (httptransport.GetElectionResponse, error) {
	detail, err := h.GetElection.Execute(ctx, electionID)
	if err != nil {
		return httptransport.GetElectionResponse{}, err
	}
	positions := make([]httptransport.PositionDTO, 0, len(detail.Positions))
	for _, item := range detail.Positions {
		positions = append(positions, mapPosition(item))
	}
	candidates := make([]httptransport.CandidateDTO, 0, len(detail.Candidates))
	for _, item := range detail.Candidates {
		candidates = append(candidates, mapCandidate(item))
	}
	return httptransport.GetElectionResponse{
		Election:   mapElection(detail.Election),
		Positions:  positions,
		Candidates: candidates,
	}, nil
}

func (h Handler) UpdateElectionHandler(
	ctx context.Context,
	electionID string,
	req httptransport.UpdateElectionRequest,
) (httptransport.UpdateElectionResponse, error) {
	cmd := commands.UpdateElectionCommand{
		ElectionID:        electionID,
		Title:             req.Title,
		Description:       req.Description,
		AllowedGrade:      req.AllowedGrade,
		ClearAllowedGrade: req.ClearAllowedGrade,
		AllowedSection:    req.AllowedSection,
		StatusLocked:      req.StatusLocked,
	}

	if req.StartDate != nil {
		if strings.TrimSpace(*req.StartDate) == "" {
			cmd.ClearStartDate = true
		} else {
			parsed, err := parseElectionDate(*req.StartDate)
			if err != nil {
				return httptransport.UpdateElectionResponse{}, domainerrors.ErrInvalidElectionInput
			}
			cmd.StartDate = parsed
		}
	}
	if req.EndDate != nil {
		if strings.TrimSpace(*req.EndDate) == "" {
			cmd.ClearEndDate = true
		} else {
			parsed, err := parseElectionDate(*req.EndDate)
			if err != nil {
				return httptransport.UpdateElectionResponse{}, domainerrors.ErrInvalidElectionInput
			}
			cmd.EndDate = parsed
		}
	}

	election, err := h.UpdateElection.Execute(ctx, cmd)
	if err != nil {
		return httptransport.UpdateElectionResponse{}, err
	}
	return httptransport.UpdateElectionResponse{Election: mapElection(election)}, nil
}

// DeleteElectionHandler always refuses. Elections are never deleted because
// voting records reference them; the admin surface keeps the route so callers
// get an explicit rejection instead of a 404.
func (h Handler) DeleteElectionHandler(_ context.Context, _ string) error {
	return domainerrors.ErrElectionDeletionDisabled
}

func (h Handler) SetStatusHandler(
	ctx context.Context,
	electionID string,
	req httptransport.SetStatusRequest,
) (httptransport.SetStatusResponse, error) {
	result, err := h.SetStatus.Execute(ctx, commands.SetStatusCommand{
		ElectionID: electionID,
		Status:     req.Status,
		Force:      req.Force,
	})
	if err != nil {
		return httptransport.SetStatusResponse{}, err
	}
	return httptransport.SetStatusResponse{
		ElectionID: result.ElectionID,
		From:       string(result.From),
		To:         string(result.To),
		Forced:     result.Forced,
	}, nil
}

func (h Handler) CreatePositionHandler(
	ctx context.Context,
	electionID string,
	req httptransport.CreatePositionRequest,
) (httptransport.PositionResponse, error) {
	position, err := h.Positions.Create(ctx, commands.CreatePositionCommand{
		ElectionID:   electionID,
		Title:        req.Title,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return httptransport.PositionResponse{}, err
	}
	return httptransport.PositionResponse{Position: mapPosition(position)}, nil
}

func (h Handler) UpdatePositionHandler(
	ctx context.Context,
	positionID string,
	req httptransport.UpdatePositionRequest,
) (httptransport.PositionResponse, error) {
	position, err := h.Positions.Update(ctx, commands.UpdatePositionCommand{
		PositionID:   positionID,
		Title:        req.Title,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return httptransport.PositionResponse{}, err
	}
	return httptransport.PositionResponse{Position: mapPosition(position)}, nil
}

func (h Handler) ListPositionsHandler(ctx context.Context, electionID string) (httptransport.ListPositionsResponse, error) {
	detail, err := h.GetElection.Execute(ctx, electionID)
	if err != nil {
		return httptransport.ListPositionsResponse{}, err
	}
	items := make([]httptransport.PositionDTO, 0, len(detail.Positions))
	for _, item := range detail.Positions {
		items = append(items, mapPosition(item))
	}
	return httptransport.ListPositionsResponse{Items: items}, nil
}

func (h Handler) CreateCandidateHandler(
	ctx context.Context,
	electionID string,
	req httptransport.CreateCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Candidates.Create(ctx, commands.CreateCandidateCommand{
		ElectionID: electionID,
		PositionID: req.PositionID,
		FullName:   req.FullName,
		Party:      req.Party,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return httptransport.CandidateResponse{Candidate: mapCandidate(candidate)}, nil
}

func (h Handler) UpdateCandidateHandler(
	ctx context.Context,
	candidateID string,
	req httptransport.UpdateCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Candidates.Update(ctx, commands.UpdateCandidateCommand{
		CandidateID:   candidateID,
		FullName:      req.FullName,
		Party:         req.Party,
		PositionID:    req.PositionID,
		ClearPosition: req.ClearPosition,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return httptransport.CandidateResponse{Candidate: mapCandidate(candidate)}, nil
}

func (h Handler) ListCandidatesHandler(ctx context.Context, electionID string) (httptransport.ListCandidatesResponse, error) {
	detail, err := h.GetElection.Execute(ctx, electionID)
	if err != nil {
		return httptransport.ListCandidatesResponse{}, err
	}
	items := make([]httptransport.CandidateDTO, 0, len(detail.Candidates))
	for _, item := range detail.Candidates {
		items = append(items, mapCandidate(item))
	}
	return httptransport.ListCandidatesResponse{Items: items}, nil
}

func (h Handler) CastBallotHandler(
	ctx context.Context,
	electionID string,
	req httptransport.CastBallotRequest,
) (httptransport.CastBallotResponse, error) {
	lines := make([]entities.BallotLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, entities.BallotLine{
			PositionID:  line.PositionID,
			CandidateID: line.CandidateID,
		})
	}
	result, err := h.CastBallot.Execute(ctx, commands.CastBallotCommand{
		VoterID:    req.VoterID,
		ElectionID: electionID,
		Lines:      lines,
	})
	if err != nil {
		return httptransport.CastBallotResponse{}, err
	}
	records := make([]httptransport.VotingRecordDTO, 0, len(result.Records))
	for _, record := range result.Records {
		records = append(records, mapVotingRecord(record))
	}
	return httptransport.CastBallotResponse{Records: records}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	electionID string,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.CastVote.Execute(ctx, commands.CastVoteCommand{
		VoterID:     req.VoterID,
		ElectionID:  electionID,
		CandidateID: req.CandidateID,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{Record: mapVotingRecord(result.Record)}, nil
}

func (h Handler) ListForVoterHandler(ctx context.Context, voterID string) (httptransport.ListElectionsResponse, error) {
	items, err := h.ListForVoter.Execute(ctx, voterID)
	if err != nil {
		return httptransport.ListElectionsResponse{}, err
	}
	result := make([]httptransport.ElectionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapElection(item))
	}
	return httptransport.ListElectionsResponse{Items: result}, nil
}

func (h Handler) ResultsHandler(ctx context.Context, electionID string) (httptransport.ResultsResponse, error) {
	results, err := h.Results.Execute(ctx, electionID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}

	positions := make([]httptransport.PositionResultDTO, 0, len(results.Positions))
	for _, bucket := range results.Positions {
		tallies := make([]httptransport.CandidateTallyDTO, 0, len(bucket.Candidates))
		for _, tally := range bucket.Candidates {
			tallies = append(tallies, httptransport.CandidateTallyDTO{
				Candidate: mapCandidate(tally.Candidate),
				Votes:     tally.Votes,
				Percent:   tally.Percent,
			})
		}
		positions = append(positions, httptransport.PositionResultDTO{
			PositionID:   bucket.PositionID,
			Title:        bucket.Title,
			DisplayOrder: bucket.DisplayOrder,
			TotalVotes:   bucket.TotalVotes,
			Candidates:   tallies,
			WinnerIDs:    append([]string(nil), bucket.WinnerIDs...),
			Tie:          bucket.Tie,
		})
	}
	return httptransport.ResultsResponse{
		ElectionID:     results.Election.ElectionID,
		Title:          results.Election.Title,
		Status:         string(results.Election.Status),
		Positions:      positions,
		TotalCastVotes: results.TotalCastVotes,
		TallySource:    results.TallySource,
	}, nil
}

func (h Handler) VoteStatusHandler(
	ctx context.Context,
	voterID string,
	electionID string,
	positionID string,
) (httptransport.VoteStatusResponse, error) {
	voted, err := h.VoterStatus.HasVotedForPosition(ctx, voterID, electionID, positionID)
	if err != nil {
		return httptransport.VoteStatusResponse{}, err
	}
	return httptransport.VoteStatusResponse{HasVoted: voted}, nil
}

func (h Handler) BallotStatusHandler(
	ctx context.Context,
	voterID string,
	electionID string,
) (httptransport.BallotStatusResponse, error) {
	completion, err := h.VoterStatus.BallotCompletion(ctx, voterID, electionID)
	if err != nil {
		return httptransport.BallotStatusResponse{}, err
	}
	return httptransport.BallotStatusResponse{
		TotalPositions:   completion.TotalPositions,
		VotedPositions:   completion.VotedPositions,
		Completed:        completion.Completed,
		VotedPositionIDs: append([]string(nil), completion.VotedPositionIDs...),
	}, nil
}

func (h Handler) ParticipationHandler(ctx context.Context, electionID string) (httptransport.ParticipationResponse, error) {
	summary, err := h.Participation.Execute(ctx, electionID)
	if err != nil {
		return httptransport.ParticipationResponse{}, err
	}
	return httptransport.ParticipationResponse{
		TotalVoters:       summary.TotalVoters,
		VotersWhoVoted:    summary.VotersWhoVoted,
		TotalCastVotes:    summary.TotalCastVotes,
		ActiveElections:   summary.ActiveElections,
		ParticipationRate: summary.ParticipationRate,
	}, nil
}

func (h Handler) AuditLogHandler(ctx context.Context, limit int) (httptransport.AuditLogResponse, error) {
	entries, err := h.Audit.ListEntries(ctx, limit)
	if err != nil {
		return httptransport.AuditLogResponse{}, err
	}
	items := make([]httptransport.AuditEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, httptransport.AuditEntryDTO{
			EntryID:    entry.EntryID,
			EventID:    entry.EventID,
			Action:     entry.Action,
			ElectionID: entry.ElectionID,
			ActorID:    entry.ActorID,
			Details:    entry.Details,
			OccurredAt: entry.OccurredAt.Format(time.RFC3339),
		})
	}
	return httptransport.AuditLogResponse{Items: items}, nil
}

func mapElection(item entities.Election) httptransport.ElectionDTO {
	result := httptransport.ElectionDTO{
		ElectionID:     item.ElectionID,
		Title:          item.Title,
		Description:    item.Description,
		Status:         string(item.Status),
		StatusLocked:   item.StatusLocked,
		AllowedGrade:   item.AllowedGrade,
		AllowedSection: item.AllowedSection,
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.Format(time.RFC3339),
	}
	if item.StartDate != nil {
		result.StartDate = item.StartDate.UTC().Format(dateLayout)
	}
	if item.EndDate != nil {
		result.EndDate = item.EndDate.UTC().Format(dateLayout)
	}
	return result
}

func mapPosition(item entities.Position) httptransport.PositionDTO {
	return httptransport.PositionDTO{
		PositionID:   item.PositionID,
		ElectionID:   item.ElectionID,
		Title:        item.Title,
		DisplayOrder: item.DisplayOrder,
		CreatedAt:    item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.Format(time.RFC3339),
	}
}

func mapCandidate(item entities.Candidate) httptransport.CandidateDTO {
	return httptransport.CandidateDTO{
		CandidateID: item.CandidateID,
		ElectionID:  item.ElectionID,
		PositionID:  item.PositionID,
		FullName:    item.FullName,
		Party:       item.Party,
		VoteCount:   item.VoteCount,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}

func mapVotingRecord(item entities.VotingRecord) httptransport.VotingRecordDTO {
	return httptransport.VotingRecordDTO{
		RecordID:    item.RecordID,
		VoterID:     item.VoterID,
		ElectionID:  item.ElectionID,
		PositionID:  item.PositionID,
		CandidateID: item.CandidateID,
		Status:      string(item.Status),
		VotedAt:     item.VotedAt.Format(time.RFC3339),
	}
}

// parseElectionDate accepts the date-only layout the admin screens send and
// falls back to RFC3339 for API clients; either way only the calendar day is
// significant downstream.
func parseElectionDate(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		utc := parsed.UTC()
		return &utc, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("parse election date: %w", err)
	}
	utc := parsed.UTC()
	return &utc, nil
}
