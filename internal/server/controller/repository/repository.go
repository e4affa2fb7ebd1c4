package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/pubsub"
)

// UpdateLogChannel receives every appended log entry when Redis is configured.
const UpdateLogChannel = "update-logs"

type Repository struct {
	DB  *gorm.DB
	Pub pubsub.Publisher

	now func() time.Time
}

func NewRepository(db *gorm.DB, publisher pubsub.Publisher) *Repository {
	return &Repository{DB: db, Pub: publisher, now: time.Now}
}

var _ IRepository = (*Repository)(nil)

func (r *Repository) CreateSite(ctx context.Context, name, rawURL, apiToken string) (*models.Site, error) {
	canonical, err := CanonicalURL(rawURL)
	if err != nil {
		return nil, err
	}

	if taken, err := r.urlTaken(ctx, canonical, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateURL
	}

	site := &models.Site{
		ID:       uuid.Must(uuid.NewV7()).String(),
		Name:     name,
		URL:      canonical,
		APIToken: apiToken,
	}

	if err := r.DB.WithContext(ctx).Create(site).Error; err != nil {
		// the pre-check races with concurrent inserts; the unique index decides
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateURL
		}
		return nil, fmt.Errorf("failed to create site: %w", err)
	}

	return site, nil
}

func (r *Repository) GetSite(ctx context.Context, id string) (*models.Site, error) {
	var site models.Site
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return &site, nil
}

func (r *Repository) ListSites(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	if err := r.DB.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return sites, nil
}

func (r *Repository) UpdateSite(ctx context.Context, id, name, rawURL, apiToken string) (*models.Site, error) {
	canonical, err := CanonicalURL(rawURL)
	if err != nil {
		return nil, err
	}

	site, err := r.GetSite(ctx, id)
	if err != nil {
		return nil, err
	}

	if taken, err := r.urlTaken(ctx, canonical, id); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateURL
	}

	err = r.DB.WithContext(ctx).Model(site).Updates(map[string]interface{}{
		"name":      name,
		"url":       canonical,
		"api_token": apiToken,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateURL
		}
		return nil, fmt.Errorf("failed to update site: %w", err)
	}

	return r.GetSite(ctx, id)
}

// DeleteSite removes the site's logs and then the site in one transaction,
// so the cascade holds even where the foreign key pragma is off.
func (r *Repository) DeleteSite(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("site_id = ?", id).Delete(&models.UpdateLog{}).Error; err != nil {
			return fmt.Errorf("failed to delete site logs: %w", err)
		}

		res := tx.Where("id = ?", id).Delete(&models.Site{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete site: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrSiteNotFound
		}
		return nil
	})
}

func (r *Repository) TouchLastChecked(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Model(&models.Site{}).
		Where("id = ?", id).
		UpdateColumn("last_checked", r.now().UTC())
	if res.Error != nil {
		return fmt.Errorf("failed to stamp last checked: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSiteNotFound
	}
	return nil
}

func (r *Repository) urlTaken(ctx context.Context, canonical, exceptID string) (bool, error) {
	q := r.DB.WithContext(ctx).Model(&models.Site{}).Where("url = ?", canonical)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check site url: %w", err)
	}
	return n > 0, nil
}

// AppendLog writes one immutable log entry and, when Redis is configured,
// announces it. A failed announcement does not fail the append.
func (r *Repository) AppendLog(ctx context.Context, entry *models.UpdateLog) error {
	if entry.ID == "" {
		entry.ID = uuid.Must(uuid.NewV7()).String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now().UTC()
	}

	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append update log: %w", err)
	}

	if err := r.publishLog(ctx, entry); err != nil {
		logger.AddToContext(ctx, logger.String("publish_error", err.Error()))
	}
	return nil
}

func (r *Repository) ListLogsBySite(ctx context.Context, siteID string, limit int) ([]models.UpdateLog, error) {
	var logs []models.UpdateLog
	err := r.DB.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list update logs: %w", err)
	}
	return logs, nil
}

func (r *Repository) ListLogs(ctx context.Context, limit int) ([]models.UpdateLogWithSite, error) {
	var logs []models.UpdateLogWithSite
	err := r.DB.WithContext(ctx).
		Table("update_logs").
		Select("update_logs.*, sites.name AS site_name").
		Joins("JOIN sites ON sites.id = update_logs.site_id").
		Order("update_logs.created_at DESC").Order("update_logs.id DESC").
		Limit(limit).
		Scan(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list update logs: %w", err)
	}
	return logs, nil
}

type logNotification struct {
	ID            string          `json:"id"`
	SiteID        string          `json:"site_id"`
	Category      models.Category `json:"update_type"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

func (r *Repository) publishLog(ctx context.Context, entry *models.UpdateLog) error {
	if r.Pub == nil {
		// Redis not configured; nothing to do
		return nil
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	payload, err := json.Marshal(logNotification{
		ID:            entry.ID,
		SiteID:        entry.SiteID,
		Category:      entry.Category,
		Status:        entry.Status,
		CreatedAt:     entry.CreatedAt,
		CorrelationID: logger.GetCorrelationID(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal update log notification: %w", err)
	}

	if err := r.Pub.Publish(pubCtx, UpdateLogChannel, string(payload)); err != nil {
		return fmt.Errorf("failed to publish update log: %w", err)
	}
	return nil
}
