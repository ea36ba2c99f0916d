package application

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	domainerrors "sampark/contexts/voter-outreach/compliance-service/domain/errors"
	"sampark/contexts/voter-outreach/compliance-service/ports"
)

const (
	CheckRegulatedTemplate    = "regulated_template"
	CheckEmbargoPeriod        = "embargo_period"
	CheckRestrictedTerm       = "restricted_term"
	CheckPIIEncryption        = "pii_encryption"
	CheckInappropriateContent = "inappropriate_content"
	CheckConsent              = "consent"
	CheckRateLimit            = "rate_limit"
)

var piiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{10}\b`),
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	regexp.MustCompile(`\b\d{6}\b`),
}

type Result struct {
	Passed       bool
	FailedChecks []string
}

type CampaignCheckInput struct {
	OrganizationID   string
	Channel          string
	Content          string
	ContentEncrypted bool
	EmbargoExempt    bool
}

type MessageCheckInput struct {
	OrganizationID string
	Channel        string
	Content        string
	ConsentGranted bool
}

// Service is the compliance gate. CheckCampaign runs once before any message
// is created; CheckMessage runs once per recipient. Both collect every failed
// reason instead of stopping at the first.
type Service struct {
	Policies ports.PolicyProvider
	Limiter  ports.RateLimiter
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (s Service) CheckCampaign(ctx context.Context, input CampaignCheckInput) (Result, error) {
	if strings.TrimSpace(input.OrganizationID) == "" || strings.TrimSpace(input.Channel) == "" {
		return Result{}, domainerrors.ErrInvalidCheckInput
	}
	policy, err := s.Policies.PolicyFor(ctx, input.OrganizationID)
	if err != nil {
		return Result{}, err
	}

	var failed []string
	if registration, regulated := policy.RegulatedChannels[input.Channel]; regulated {
		if strings.TrimSpace(registration.TemplateID) == "" || strings.TrimSpace(registration.EntityID) == "" {
			failed = append(failed, CheckRegulatedTemplate)
		}
	}
	if policy.Embargo != nil && !input.EmbargoExempt {
		now := s.now()
		if !now.Before(policy.Embargo.Start) && !now.After(policy.Embargo.End) {
			failed = append(failed, CheckEmbargoPeriod)
		}
	}
	failed = append(failed, scanTerms(CheckRestrictedTerm, input.Content, policy.RestrictedTerms)...)
	if containsPII(input.Content) && !input.ContentEncrypted {
		failed = append(failed, CheckPIIEncryption)
	}

	result := Result{Passed: len(failed) == 0, FailedChecks: failed}
	if !result.Passed {
		resolveLogger(s.Logger).Warn("campaign compliance check failed",
			"event", "compliance_campaign_check_failed",
			"module", "voter-outreach/compliance-service",
			"layer", "application",
			"organization_id", input.OrganizationID,
			"channel", input.Channel,
			"failed_checks", strings.Join(failed, ","),
		)
	}
	return result, nil
}

func (s Service) CheckMessage(ctx context.Context, input MessageCheckInput) (Result, error) {
	if strings.TrimSpace(input.OrganizationID) == "" || strings.TrimSpace(input.Channel) == "" {
		return Result{}, domainerrors.ErrInvalidCheckInput
	}
	policy, err := s.Policies.PolicyFor(ctx, input.OrganizationID)
	if err != nil {
		return Result{}, err
	}

	var failed []string
	failed = append(failed, scanTerms(CheckInappropriateContent, input.Content, policy.DeniedTerms)...)
	if !input.ConsentGranted {
		failed = append(failed, CheckConsent)
	}
	admitted, err := s.Limiter.TryAcquire(ctx, input.OrganizationID, input.Channel, policy.RateLimit(input.Channel))
	if err != nil {
		return Result{}, err
	}
	if !admitted {
		failed = append(failed, CheckRateLimit)
	}

	return Result{Passed: len(failed) == 0, FailedChecks: failed}, nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// scanTerms is a case-insensitive substring scan; every matched term is
// reported as "<check>: <term>".
func scanTerms(check string, content string, terms []string) []string {
	lowered := strings.ToLower(content)
	var failed []string
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if strings.Contains(lowered, term) {
			failed = append(failed, check+": "+term)
		}
	}
	return failed
}

func containsPII(content string) bool {
	for _, pattern := range piiPatterns {
		if pattern.MatchString(content) {
			return true
		}
	}
	return false
}
