package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	campaigns map[string]entities.Campaign
	messages  map[string]entities.Message
	voters    map[string]entities.Voter
}

func NewStore(seedVoters []entities.Voter) *Store {
	voters := make(map[string]entities.Voter, len(seedVoters))
	for _, item := range seedVoters {
		voters[item.VoterID] = item
	}
	return &Store{
		campaigns: make(map[string]entities.Campaign),
		messages:  make(map[string]entities.Message),
		voters:    voters,
	}
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; exists {
		return domainerrors.ErrInvalidCampaignInput
	}
	for _, existing := range s.campaigns {
		if existing.OrganizationID == campaign.OrganizationID &&
			strings.EqualFold(existing.Name, campaign.Name) {
			return domainerrors.ErrCampaignNameTaken
		}
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) UpdateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.campaigns[campaign.CampaignID]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	for _, other := range s.campaigns {
		if other.CampaignID != campaign.CampaignID &&
			other.OrganizationID == campaign.OrganizationID &&
			strings.EqualFold(other.Name, campaign.Name) {
			return domainerrors.ErrCampaignNameTaken
		}
	}
	// Counters are owned by IncrementCounters; a full update never rolls
	// them backwards under concurrent dispatch.
	campaign.SentCount = existing.SentCount
	campaign.DeliveredCount = existing.DeliveredCount
	campaign.OpenedCount = existing.OpenedCount
	campaign.RepliedCount = existing.RepliedCount
	campaign.FailedCount = existing.FailedCount
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return item, nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if org := strings.TrimSpace(filter.OrganizationID); org != "" && campaign.OrganizationID != org {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		if filter.Channel != "" && campaign.Channel != filter.Channel {
			continue
		}
		items = append(items, campaign)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) DeleteCampaign(_ context.Context, campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(campaignID)
	if _, exists := s.campaigns[id]; !exists {
		return domainerrors.ErrCampaignNotFound
	}
	delete(s.campaigns, id)
	for messageID, message := range s.messages {
		if message.CampaignID == id {
			delete(s.messages, messageID)
		}
	}
	return nil
}

func (s *Store) IncrementCounters(_ context.Context, campaignID string, delta ports.CounterDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	campaign.SentCount += delta.Sent
	campaign.DeliveredCount += delta.Delivered
	campaign.OpenedCount += delta.Opened
	campaign.RepliedCount += delta.Replied
	campaign.FailedCount += delta.Failed
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) ListDueScheduled(_ context.Context, now time.Time, limit int) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Campaign, 0)
	for _, campaign := range s.campaigns {
		if campaign.Status != entities.CampaignStatusScheduled {
			continue
		}
		if campaign.ScheduledAt == nil || campaign.ScheduledAt.After(now) {
			continue
		}
		items = append(items, campaign)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ScheduledAt.Before(*items[j].ScheduledAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) CreateMessage(_ context.Context, message entities.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.messages[message.MessageID]; exists {
		return domainerrors.ErrInvalidMessageStatus
	}
	s.messages[message.MessageID] = message
	return nil
}

func (s *Store) GetMessage(_ context.Context, messageID string) (entities.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.messages[strings.TrimSpace(messageID)]
	if !exists {
		return entities.Message{}, domainerrors.ErrMessageNotFound
	}
	return item, nil
}

func (s *Store) UpdateMessageStatus(_ context.Context, messageID string, status entities.MessageStatus, at time.Time, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, exists := s.messages[strings.TrimSpace(messageID)]
	if !exists {
		return domainerrors.ErrMessageNotFound
	}
	if !entities.CanTransition(message.Status, status) {
		return domainerrors.ErrInvalidMessageStatus
	}
	message.Status = status
	message.UpdatedAt = at
	switch status {
	case entities.MessageStatusSent:
		message.SentAt = &at
	case entities.MessageStatusDelivered:
		message.DeliveredAt = &at
	case entities.MessageStatusRead:
		message.ReadAt = &at
	case entities.MessageStatusReplied:
		message.RepliedAt = &at
	}
	if len(metadata) > 0 {
		if message.Metadata == nil {
			message.Metadata = make(map[string]string, len(metadata))
		}
		for key, value := range metadata {
			message.Metadata[key] = value
		}
	}
	s.messages[message.MessageID] = message
	return nil
}

func (s *Store) ListMessagesByCampaign(_ context.Context, campaignID string, filter ports.MessageFilter) ([]entities.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Message, 0)
	for _, message := range s.messages {
		if message.CampaignID != strings.TrimSpace(campaignID) {
			continue
		}
		if filter.Status != "" && message.Status != filter.Status {
			continue
		}
		items = append(items, message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) CountMessagesByStatus(_ context.Context, campaignID string) (map[entities.MessageStatus]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[entities.MessageStatus]int64)
	for _, message := range s.messages {
		if message.CampaignID == strings.TrimSpace(campaignID) {
			counts[message.Status]++
		}
	}
	return counts, nil
}

func (s *Store) FindVoters(_ context.Context, organizationID string, spec entities.AudienceSpec, window entities.DOBWindow) ([]entities.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Voter, 0)
	for _, voter := range s.voters {
		if voter.OrganizationID != strings.TrimSpace(organizationID) {
			continue
		}
		if spec.Matches(voter, window) {
			items = append(items, voter)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].VoterID < items[j].VoterID
	})
	return items, nil
}

func (s *Store) CountVoters(ctx context.Context, organizationID string, spec entities.AudienceSpec, window entities.DOBWindow) (int64, error) {
	items, err := s.FindVoters(ctx, organizationID, spec, window)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (s *Store) AddVoter(voter entities.Voter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[voter.VoterID] = voter
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
