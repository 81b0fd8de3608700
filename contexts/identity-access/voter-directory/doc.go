// Package voterdirectory serves the voter roster inside the identity-access
// context: credential verification for the voting client and profile lookups
// that feed election eligibility checks. The directory is read-only at
// runtime; rosters are imported out of band.
package voterdirectory
