package httpadapter

import (
	"context"
	"log/slog"

	"quorum/contexts/identity-access/voter-directory/application"
	"quorum/contexts/identity-access/voter-directory/domain/entities"
	transporthttp "quorum/contexts/identity-access/voter-directory/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) VerifyCredentialsHandler(
	ctx context.Context,
	req transporthttp.VerifyCredentialsRequest,
) (transporthttp.VerifyCredentialsResponse, error) {
	profile, err := h.Service.VerifyCredentials(ctx, req.Username, req.Password)
	if err != nil {
		return transporthttp.VerifyCredentialsResponse{}, err
	}
	return transporthttp.VerifyCredentialsResponse{Voter: mapVoter(profile)}, nil
}

func (h Handler) GetVoterHandler(
	ctx context.Context,
	voterID string,
) (transporthttp.GetVoterResponse, error) {
	profile, err := h.Service.GetProfile(ctx, voterID)
	if err != nil {
		return transporthttp.GetVoterResponse{}, err
	}
	return transporthttp.GetVoterResponse{Voter: mapVoter(profile)}, nil
}

func (h Handler) CountVotersHandler(ctx context.Context) (transporthttp.CountVotersResponse, error) {
	total, err := h.Service.CountVoters(ctx)
	if err != nil {
		return transporthttp.CountVotersResponse{}, err
	}
	return transporthttp.CountVotersResponse{TotalVoters: total}, nil
}

func mapVoter(profile entities.Profile) transporthttp.VoterDTO {
	return transporthttp.VoterDTO{
		VoterID:  profile.VoterID,
		Username: profile.Username,
		FullName: profile.FullName,
		Grade:    profile.Grade,
		Section:  profile.Section,
	}
}
