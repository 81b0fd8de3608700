package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/domain/entities"
	"quorum/contexts/election-administration/election-service/ports"
)

const (
	TallySourceLog   = "log"
	TallySourceCache = "cache"
)

type CandidateTally struct {
	Candidate entities.Candidate
	Votes     int
	Percent   float64
}

type PositionResult struct {
	PositionID   string
	Title        string
	DisplayOrder int
	TotalVotes   int
	Candidates   []CandidateTally
	// WinnerIDs holds every candidate sharing the maximum tally when that
	// maximum is above zero. More than one entry means a tie; an empty slice
	// means nobody has a cast vote yet.
	WinnerIDs []string
	Tie       bool
}

type ElectionResults struct {
	Election       entities.Election
	Positions      []PositionResult
	TotalCastVotes int
	TallySource    string
}

type ResultsUseCase struct {
	Elections  ports.ElectionRepository
	Positions  ports.PositionRepository
	Candidates ports.CandidateRepository
	Ballots    ports.BallotRepository
	Clock      ports.Clock
	Logger     *slog.Logger
}

// Execute aggregates per-position tallies straight from the ballot log. The
// denormalized vote-count cache is consulted only when the log cannot be
// queried at all, and the result is marked accordingly.
func (uc ResultsUseCase) Execute(ctx context.Context, electionID string) (ElectionResults, error) {
	logger := application.ResolveLogger(uc.Logger)

	if _, err := uc.Elections.SyncElectionStatuses(ctx, uc.Clock.Now().UTC(), 0); err != nil {
		return ElectionResults{}, err
	}
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return ElectionResults{}, err
	}
	positions, err := uc.Positions.ListPositionsByElection(ctx, election.ElectionID)
	if err != nil {
		return ElectionResults{}, err
	}
	candidates, err := uc.Candidates.ListCandidatesByElection(ctx, election.ElectionID)
	if err != nil {
		return ElectionResults{}, err
	}

	source := TallySourceLog
	tallies, err := uc.Ballots.CountCastVotesByCandidate(ctx, election.ElectionID)
	if err != nil {
		source = TallySourceCache
		tallies = nil
		logger.Warn("ballot log unreachable, falling back to cached vote counts",
			"event", "results_tally_fallback",
			"module", "election-administration/election-service",
			"layer", "application",
			"election_id", election.ElectionID,
			"error", err.Error(),
		)
	}

	votesFor := func(candidate entities.Candidate) int {
		if source == TallySourceCache {
			return candidate.VoteCount
		}
		return tallies[candidate.CandidateID]
	}

	assigned := make(map[string][]entities.Candidate, len(positions))
	general := make([]entities.Candidate, 0)
	for _, candidate := range candidates {
		if candidate.Assigned() {
			assigned[*candidate.PositionID] = append(assigned[*candidate.PositionID], candidate)
		} else {
			general = append(general, candidate)
		}
	}

	sort.Slice(positions, func(i, j int) bool {
		if positions[i].DisplayOrder == positions[j].DisplayOrder {
			return positions[i].Title < positions[j].Title
		}
		return positions[i].DisplayOrder < positions[j].DisplayOrder
	})

	results := ElectionResults{Election: election, TallySource: source}
	for _, position := range positions {
		bucket := buildPositionResult(
			position.PositionID,
			position.Title,
			position.DisplayOrder,
			assigned[position.PositionID],
			votesFor,
		)
		results.TotalCastVotes += bucket.TotalVotes
		results.Positions = append(results.Positions, bucket)
	}
	if len(general) > 0 {
		bucket := buildPositionResult(
			"",
			entities.GeneralBucketTitle,
			entities.GeneralBucketOrder,
			general,
			votesFor,
		)
		results.TotalCastVotes += bucket.TotalVotes
		results.Positions = append(results.Positions, bucket)
	}

	logger.Info("election results computed",
		"event", "election_results_computed",
		"module", "election-administration/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"position_count", len(results.Positions),
		"total_cast_votes", results.TotalCastVotes,
		"tally_source", source,
	)
	return results, nil
}

func buildPositionResult(
	positionID string,
	title string,
	displayOrder int,
	candidates []entities.Candidate,
	votesFor func(entities.Candidate) int,
) PositionResult {
	result := PositionResult{
		PositionID:   positionID,
		Title:        title,
		DisplayOrder: displayOrder,
	}

	items := make([]CandidateTally, 0, len(candidates))
	for _, candidate := range candidates {
		votes := votesFor(candidate)
		items = append(items, CandidateTally{Candidate: candidate, Votes: votes})
		result.TotalVotes += votes
	}
	// Tally descending; name ascending keeps display deterministic without
	// affecting winner selection.
	sort.Slice(items, func(i, j int) bool {
		if items[i].Votes == items[j].Votes {
			return items[i].Candidate.FullName < items[j].Candidate.FullName
		}
		return items[i].Votes > items[j].Votes
	})

	for i := range items {
		if result.TotalVotes > 0 {
			items[i].Percent = float64(items[i].Votes) * 100 / float64(result.TotalVotes)
		}
	}
	result.Candidates = items

	if len(items) > 0 && items[0].Votes > 0 {
		max := items[0].Votes
		for _, item := range items {
			if item.Votes == max {
				result.WinnerIDs = append(result.WinnerIDs, item.Candidate.CandidateID)
			}
		}
		result.Tie = len(result.WinnerIDs) > 1
	}
	return result
}
