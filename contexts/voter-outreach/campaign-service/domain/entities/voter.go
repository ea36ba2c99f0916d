package entities

import "time"

// Voter is a read model. The dispatch core resolves and personalizes against
// voters but never mutates them.
type Voter struct {
	VoterID        string
	OrganizationID string
	Name           string
	Phone          string
	Email          string
	Constituency   string
	District       string
	State          string
	DateOfBirth    *time.Time
	Tags           []string
	Consent        map[Channel]bool
}

// HasConsent reports whether the voter explicitly permits the channel.
// Absent entries count as no consent.
func (v Voter) HasConsent(channel Channel) bool {
	return v.Consent[channel]
}

func (v Voter) HasTag(tag string) bool {
	for _, item := range v.Tags {
		if item == tag {
			return true
		}
	}
	return false
}
