package entities

import "strings"

type AgeRange struct {
	Min *int
	Max *int
}

// AudienceSpec is the stored target-audience filter. Every field is optional
// but a spec with no predicate at all is invalid. All supplied predicates are
// ANDed; tags are conjunctive.
type AudienceSpec struct {
	Constituency string
	District     string
	State        string
	AgeRange     *AgeRange
	Tags         []string
}

func (s AudienceSpec) IsEmpty() bool {
	return strings.TrimSpace(s.Constituency) == "" &&
		strings.TrimSpace(s.District) == "" &&
		strings.TrimSpace(s.State) == "" &&
		s.AgeRange == nil &&
		len(s.Tags) == 0
}

// Valid reports whether the spec carries at least one predicate and the age
// range, when fully specified, is ordered.
func (s AudienceSpec) Valid() bool {
	if s.IsEmpty() {
		return false
	}
	if s.AgeRange != nil {
		if s.AgeRange.Min != nil && *s.AgeRange.Min < 0 {
			return false
		}
		if s.AgeRange.Max != nil && *s.AgeRange.Max < 0 {
			return false
		}
		if s.AgeRange.Min != nil && s.AgeRange.Max != nil && *s.AgeRange.Min > *s.AgeRange.Max {
			return false
		}
	}
	for _, tag := range s.Tags {
		if strings.TrimSpace(tag) == "" {
			return false
		}
	}
	return true
}

// Matches evaluates the spec against one voter. dobAfter/dobBefore carry the
// precomputed date-of-birth window for the age range (zero when unbounded);
// the resolver derives them from its clock so matching stays deterministic.
func (s AudienceSpec) Matches(voter Voter, window DOBWindow) bool {
	if c := strings.TrimSpace(s.Constituency); c != "" && voter.Constituency != c {
		return false
	}
	if d := strings.TrimSpace(s.District); d != "" && voter.District != d {
		return false
	}
	if st := strings.TrimSpace(s.State); st != "" && voter.State != st {
		return false
	}
	if s.AgeRange != nil {
		if voter.DateOfBirth == nil {
			return false
		}
		if !window.Earliest.IsZero() && voter.DateOfBirth.Before(window.Earliest) {
			return false
		}
		if !window.Latest.IsZero() && voter.DateOfBirth.After(window.Latest) {
			return false
		}
	}
	for _, tag := range s.Tags {
		if !voter.HasTag(tag) {
			return false
		}
	}
	return true
}
