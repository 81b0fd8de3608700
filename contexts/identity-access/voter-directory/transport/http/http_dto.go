package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type VerifyCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type VoterDTO struct {
	VoterID  string `json:"voter_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Grade    string `json:"grade,omitempty"`
	Section  string `json:"section,omitempty"`
}

type VerifyCredentialsResponse struct {
	Voter VoterDTO `json:"voter"`
}

type GetVoterResponse struct {
	Voter VoterDTO `json:"voter"`
}

type CountVotersResponse struct {
	TotalVoters int `json:"total_voters"`
}
