package entities

import (
	"strconv"
	"strings"
	"time"
)

type ElectionStatus string

const (
	ElectionStatusUpcoming  ElectionStatus = "upcoming"
	ElectionStatusActive    ElectionStatus = "active"
	ElectionStatusFinalized ElectionStatus = "finalized"
)

// SectionWildcard in AllowedSection opens an election to every section.
// An empty AllowedSection means the same thing.
const SectionWildcard = "ALL"

type Election struct {
	ElectionID     string
	Title          string
	Description    string
	StartDate      *time.Time
	EndDate        *time.Time
	Status         ElectionStatus
	StatusLocked   bool
	AllowedGrade   *int
	AllowedSection string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func IsSupportedElectionStatus(value ElectionStatus) bool {
	switch value {
	case ElectionStatusUpcoming, ElectionStatusActive, ElectionStatusFinalized:
		return true
	default:
		return false
	}
}

// ExpectedStatus derives the lifecycle state an election should be in on the
// given day. Dates compare at calendar-day granularity in UTC. The second
// return value is false when neither date is set, in which case the stored
// status stands.
func ExpectedStatus(startDate, endDate *time.Time, today time.Time) (ElectionStatus, bool) {
	day := dateOnly(today)
	var start, end *time.Time
	if startDate != nil {
		value := dateOnly(*startDate)
		start = &value
	}
	if endDate != nil {
		value := dateOnly(*endDate)
		end = &value
	}

	switch {
	case start != nil && day.Before(*start):
		return ElectionStatusUpcoming, true
	case end != nil && day.After(*end):
		return ElectionStatusFinalized, true
	case start != nil && end != nil:
		return ElectionStatusActive, true
	case start != nil:
		return ElectionStatusActive, true
	case end != nil:
		return ElectionStatusActive, true
	default:
		return "", false
	}
}

func (e Election) ExpectedStatus(today time.Time) (ElectionStatus, bool) {
	return ExpectedStatus(e.StartDate, e.EndDate, today)
}

// EligibleFor reports whether a voter may see and participate in this
// election. Grade restrictions require a numeric voter grade; a voter whose
// grade does not parse is ineligible for grade-restricted elections.
func (e Election) EligibleFor(profile VoterProfile) bool {
	if e.AllowedGrade != nil {
		grade, err := strconv.Atoi(strings.TrimSpace(profile.Grade))
		if err != nil {
			return false
		}
		if grade != *e.AllowedGrade {
			return false
		}
	}
	section := strings.TrimSpace(e.AllowedSection)
	if section != "" && !strings.EqualFold(section, SectionWildcard) {
		if !strings.EqualFold(section, strings.TrimSpace(profile.Section)) {
			return false
		}
	}
	return true
}

func StartDateNotPast(startDate *time.Time, today time.Time) bool {
	if startDate == nil {
		return true
	}
	return !dateOnly(*startDate).Before(dateOnly(today))
}

func EndDateNotPast(endDate *time.Time, today time.Time) bool {
	if endDate == nil {
		return true
	}
	return !dateOnly(*endDate).Before(dateOnly(today))
}

func EndDateNotBeforeStart(startDate, endDate *time.Time) bool {
	if startDate == nil || endDate == nil {
		return true
	}
	return !dateOnly(*endDate).Before(dateOnly(*startDate))
}

func dateOnly(value time.Time) time.Time {
	utc := value.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
