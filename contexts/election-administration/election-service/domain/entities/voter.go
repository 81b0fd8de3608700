package entities

// VoterProfile carries the directory fields the eligibility resolver needs.
// Grade stays a string here; elections with a grade restriction parse it
// numerically and treat unparseable grades as ineligible.
type VoterProfile struct {
	VoterID  string
	FullName string
	Grade    string
	Section  string
}
