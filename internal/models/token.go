package models

import "time"

// Token is an agent-side bearer credential. Tokens do not expire; they live
// until revoked.
type Token struct {
	ID        string     `gorm:"primaryKey;column:id"`
	Value     string     `gorm:"column:token;not null;uniqueIndex;size:64"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	LastUsed  *time.Time `gorm:"column:last_used"`
}

func (Token) TableName() string {
	return "api_tokens"
}
