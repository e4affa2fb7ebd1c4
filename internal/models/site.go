package models

import "time"

const (
	LogStatusSuccess = "success"
	LogStatusError   = "error"
)

type Site struct {
	ID          string      `gorm:"primaryKey;column:id"`
	Name        string      `gorm:"column:name;not null"`
	URL         string      `gorm:"column:url;not null;uniqueIndex"`
	APIToken    string      `gorm:"column:api_token;not null"`
	LastChecked *time.Time  `gorm:"column:last_checked"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
	Logs        []UpdateLog `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
}

func (Site) TableName() string {
	return "sites"
}

// SitePublic is the Site as exposed by the admin API; the secret is masked.
type SitePublic struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	TokenHint   string     `json:"token_hint"`
	LastChecked *time.Time `json:"last_checked"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (s Site) ToPublic() SitePublic {
	return SitePublic{
		ID:          s.ID,
		Name:        s.Name,
		URL:         s.URL,
		TokenHint:   MaskSecret(s.APIToken),
		LastChecked: s.LastChecked,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// UpdateLog is an append-only record of one update command and its outcome.
type UpdateLog struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	SiteID    string    `gorm:"column:site_id;not null;index" json:"site_id"`
	Category  Category  `gorm:"column:update_type;not null" json:"update_type"`
	Status    string    `gorm:"column:status;not null" json:"status"`
	Message   string    `gorm:"column:message;type:text" json:"message"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UpdateLog) TableName() string {
	return "update_logs"
}

// UpdateLogWithSite is an UpdateLog joined with its site's display name.
type UpdateLogWithSite struct {
	UpdateLog
	SiteName string `gorm:"column:site_name" json:"site_name"`
}

// MaskSecret keeps the first and last four characters of a secret.
func MaskSecret(v string) string {
	if len(v) <= 8 {
		return "********"
	}
	return v[:4] + "…" + v[len(v)-4:]
}
