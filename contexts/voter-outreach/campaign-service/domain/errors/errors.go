package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrInvalidCampaignInput   = errors.New("invalid campaign input")
	ErrCampaignNameTaken      = errors.New("campaign name already exists")
	ErrCampaignNotEditable    = errors.New("campaign cannot be edited in current state")
	ErrCampaignNotDeletable   = errors.New("only draft or failed campaigns can be deleted")
	ErrInvalidStateTransition = errors.New("invalid campaign state transition")
	ErrEmptyAudience          = errors.New("campaign has no target recipients")
	ErrInvalidAudienceSpec    = errors.New("audience specification must carry at least one valid predicate")
	ErrMessageNotFound        = errors.New("message not found")
	ErrInvalidMessageStatus   = errors.New("message status may only move forward")
	ErrUnknownGateway         = errors.New("no gateway registered for channel/provider")
)

// ComplianceError carries the failed check reasons of a campaign-level gate
// rejection. Message-level rejections are recorded, never raised.
type ComplianceError struct {
	Reasons []string
}

func (e *ComplianceError) Error() string {
	return "compliance checks failed: " + strings.Join(e.Reasons, ", ")
}

// GatewayError is a provider send failure. Temporary errors are retried
// within the campaign's retry budget; the rest fail the message outright.
type GatewayError struct {
	Provider  string
	Cause     string
	Temporary bool
	Err       error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Provider, e.Cause, e.Err)
	}
	return fmt.Sprintf("gateway %s: %s", e.Provider, e.Cause)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
