package entities

import "time"

type MessageStatus string
type Direction string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
	MessageStatusReplied   MessageStatus = "replied"
	MessageStatusFailed    MessageStatus = "failed"

	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// Message is one send attempt to one recipient. Immutable after creation
// except for status, transition timestamps and provider metadata.
type Message struct {
	MessageID      string
	OrganizationID string
	CampaignID     string
	VoterID        string
	Channel        Channel
	Direction      Direction
	Sender         string
	Recipient      string
	Content        string
	Status         MessageStatus
	Cost           float64
	Metadata       map[string]string

	SentAt      *time.Time
	DeliveredAt *time.Time
	ReadAt      *time.Time
	RepliedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var messageStatusRank = map[MessageStatus]int{
	MessageStatusPending:   0,
	MessageStatusSent:      1,
	MessageStatusDelivered: 2,
	MessageStatusRead:      3,
	MessageStatusReplied:   4,
}

// CanTransition reports whether moving from -> to is a legal forward step.
// failed is terminal and reachable only from pending.
func CanTransition(from, to MessageStatus) bool {
	if from == MessageStatusFailed {
		return false
	}
	if to == MessageStatusFailed {
		return from == MessageStatusPending
	}
	fromRank, ok := messageStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := messageStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// ContactFor returns the voter field a message on the given channel must be
// addressed to. There is no fallback between channels.
func ContactFor(voter Voter, channel Channel) (string, bool) {
	switch channel {
	case ChannelSMS, ChannelWhatsApp, ChannelVoice:
		return voter.Phone, voter.Phone != ""
	case ChannelEmail:
		return voter.Email, voter.Email != ""
	default:
		return "", false
	}
}
