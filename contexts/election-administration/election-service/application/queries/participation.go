package queries

import (
	"context"
	"log/slog"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/domain/entities"
	"quorum/contexts/election-administration/election-service/ports"
)

type ParticipationSummary struct {
	TotalVoters     int
	VotersWhoVoted  int
	TotalCastVotes  int
	ActiveElections int
	// ParticipationRate is VotersWhoVoted over TotalVoters as a percentage,
	// zero when the directory is empty.
	ParticipationRate float64
}

// ParticipationUseCase produces the dashboard headline numbers across every
// election, or scoped to one when electionID is non-empty.
type ParticipationUseCase struct {
	Elections ports.ElectionRepository
	Ballots   ports.BallotRepository
	Voters    ports.VoterDirectory
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc ParticipationUseCase) Execute(ctx context.Context, electionID string) (ParticipationSummary, error) {
	logger := application.ResolveLogger(uc.Logger)

	if _, err := uc.Elections.SyncElectionStatuses(ctx, uc.Clock.Now().UTC(), 0); err != nil {
		return ParticipationSummary{}, err
	}
	elections, err := uc.Elections.ListElections(ctx)
	if err != nil {
		return ParticipationSummary{}, err
	}

	summary := ParticipationSummary{}
	for _, election := range elections {
		if election.Status == entities.ElectionStatusActive {
			summary.ActiveElections++
		}
	}
	summary.TotalVoters, err = uc.Voters.CountVoters(ctx)
	if err != nil {
		return ParticipationSummary{}, err
	}
	summary.TotalCastVotes, err = uc.Ballots.CountCastRecords(ctx, electionID)
	if err != nil {
		return ParticipationSummary{}, err
	}
	summary.VotersWhoVoted, err = uc.Ballots.CountDistinctVoters(ctx, electionID)
	if err != nil {
		return ParticipationSummary{}, err
	}
	if summary.TotalVoters > 0 {
		summary.ParticipationRate = float64(summary.VotersWhoVoted) * 100 / float64(summary.TotalVoters)
	}

	logger.Info("participation summary computed",
		"event", "participation_summary_computed",
		"module", "election-administration/election-service",
		"layer", "application",
		"election_id", electionID,
		"total_voters", summary.TotalVoters,
		"voters_who_voted", summary.VotersWhoVoted,
	)
	return summary, nil
}
