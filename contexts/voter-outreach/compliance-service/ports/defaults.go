package ports

// DefaultPolicy carries the baseline rules applied to organizations without
// an explicit policy. Regulated-channel registrations are deployment
// configuration and are left empty here.
func DefaultPolicy() Policy {
	return Policy{
		RestrictedTerms: []string{
			"vote for", "elect", "choose", "support",
			"defeat", "oppose", "against",
		},
		DeniedTerms: []string{
			"hate", "discrimination", "violence", "illegal",
			"corruption", "bribe", "threat",
		},
		RateLimits: map[string]int64{
			"sms":      100,
			"whatsapp": 1000,
			"email":    500,
			"voice":    50,
		},
	}
}
