package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row := campaignModelFromEntity(campaign)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrCampaignNameTaken
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateCampaign(ctx context.Context, campaign entities.Campaign) error {
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaign.CampaignID)).
		Updates(campaignUpdatesFromEntity(campaign))
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrCampaignNameTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{})
	if strings.TrimSpace(filter.OrganizationID) != "" {
		tx = tx.Where("organization_id = ?", strings.TrimSpace(filter.OrganizationID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.Channel != "" {
		tx = tx.Where("channel = ?", string(filter.Channel))
	}

	var rows []campaignModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteCampaign(ctx context.Context, campaignID string) error {
	id := strings.TrimSpace(campaignID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&messageModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("campaign_id = ?", id).Delete(&campaignModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrCampaignNotFound
		}
		return nil
	})
}

func (r *Repository) IncrementCounters(ctx context.Context, campaignID string, delta ports.CounterDelta) error {
	updates := map[string]any{}
	if delta.Sent != 0 {
		updates["sent_count"] = gorm.Expr("sent_count + ?", delta.Sent)
	}
	if delta.Delivered != 0 {
		updates["delivered_count"] = gorm.Expr("delivered_count + ?", delta.Delivered)
	}
	if delta.Opened != 0 {
		updates["opened_count"] = gorm.Expr("opened_count + ?", delta.Opened)
	}
	if delta.Replied != 0 {
		updates["replied_count"] = gorm.Expr("replied_count + ?", delta.Replied)
	}
	if delta.Failed != 0 {
		updates["failed_count"] = gorm.Expr("failed_count + ?", delta.Failed)
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]entities.Campaign, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []campaignModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", string(entities.CampaignStatusScheduled), now.UTC()).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateMessage(ctx context.Context, message entities.Message) error {
	row := messageModelFromEntity(message)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidMessageStatus
		}
		return err
	}
	return nil
}

func (r *Repository) GetMessage(ctx context.Context, messageID string) (entities.Message, error) {
	var row messageModel
	err := r.db.WithContext(ctx).
		Where("message_id = ?", strings.TrimSpace(messageID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Message{}, domainerrors.ErrMessageNotFound
		}
		return entities.Message{}, err
	}
	return row.toEntity(), nil
}

// UpdateMessageStatus reads and rewrites the row inside a transaction with a
// row lock so the forward-only check holds under concurrent delivery reports.
func (r *Repository) UpdateMessageStatus(ctx context.Context, messageID string, status entities.MessageStatus, at time.Time, metadata map[string]string) error {
	id := strings.TrimSpace(messageID)
	timestamp := at.UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row messageModel
		if err := tx.Raw(
			"SELECT * FROM campaign_messages WHERE message_id = ? FOR UPDATE", id,
		).Scan(&row).Error; err != nil {
			return err
		}
		if row.MessageID == "" {
			return domainerrors.ErrMessageNotFound
		}
		if !entities.CanTransition(entities.MessageStatus(row.Status), status) {
			return domainerrors.ErrInvalidMessageStatus
		}

		updates := map[string]any{
			"status":     string(status),
			"updated_at": timestamp,
		}
		switch status {
		case entities.MessageStatusSent:
			updates["sent_at"] = timestamp
		case entities.MessageStatusDelivered:
			updates["delivered_at"] = timestamp
		case entities.MessageStatusRead:
			updates["read_at"] = timestamp
		case entities.MessageStatusReplied:
			updates["replied_at"] = timestamp
		}
		if len(metadata) > 0 {
			merged := row.toEntity().Metadata
			if merged == nil {
				merged = make(map[string]string, len(metadata))
			}
			for key, value := range metadata {
				merged[key] = value
			}
			payload, err := marshalMetadata(merged)
			if err != nil {
				return err
			}
			updates["metadata"] = payload
		}

		return tx.Model(&messageModel{}).
			Where("message_id = ?", id).
			Updates(updates).
			Error
	})
}

func (r *Repository) ListMessagesByCampaign(ctx context.Context, campaignID string, filter ports.MessageFilter) ([]entities.Message, error) {
	tx := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID))
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []messageModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CountMessagesByStatus(ctx context.Context, campaignID string) (map[entities.MessageStatus]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&messageModel{}).
		Select("status, COUNT(*) AS count").
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Group("status").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	counts := make(map[entities.MessageStatus]int64, len(rows))
	for _, row := range rows {
		counts[entities.MessageStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *Repository) FindVoters(ctx context.Context, organizationID string, spec entities.AudienceSpec, window entities.DOBWindow) ([]entities.Voter, error) {
	var rows []voterModel
	if err := r.voterQuery(ctx, organizationID, spec, window).
		Order("voter_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Voter, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CountVoters(ctx context.Context, organizationID string, spec entities.AudienceSpec, window entities.DOBWindow) (int64, error) {
	var count int64
	if err := r.voterQuery(ctx, organizationID, spec, window).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) voterQuery(ctx context.Context, organizationID string, spec entities.AudienceSpec, window entities.DOBWindow) *gorm.DB {
	tx := r.db.WithContext(ctx).
		Model(&voterModel{}).
		Where("organization_id = ?", strings.TrimSpace(organizationID))
	if c := strings.TrimSpace(spec.Constituency); c != "" {
		tx = tx.Where("constituency = ?", c)
	}
	if d := strings.TrimSpace(spec.District); d != "" {
		tx = tx.Where("district = ?", d)
	}
	if st := strings.TrimSpace(spec.State); st != "" {
		tx = tx.Where("state = ?", st)
	}
	if spec.AgeRange != nil {
		tx = tx.Where("date_of_birth IS NOT NULL")
		if !window.Earliest.IsZero() {
			tx = tx.Where("date_of_birth >= ?", window.Earliest)
		}
		if !window.Latest.IsZero() {
			tx = tx.Where("date_of_birth <= ?", window.Latest)
		}
	}
	for _, tag := range spec.Tags {
		tx = tx.Where("? = ANY(tags)", tag)
	}
	return tx
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
