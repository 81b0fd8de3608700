package entities

import "time"

// Voter is a directory row: the credentials a voter signs in with plus the
// grade/section attributes elections restrict on.
type Voter struct {
	VoterID      string
	Username     string
	FullName     string
	Grade        string
	Section      string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile strips the credential fields for responses and cross-service reads.
type Profile struct {
	VoterID  string
	Username string
	FullName string
	Grade    string
	Section  string
}

func (v Voter) Profile() Profile {
	return Profile{
		VoterID:  v.VoterID,
		Username: v.Username,
		FullName: v.FullName,
		Grade:    v.Grade,
		Section:  v.Section,
	}
}
