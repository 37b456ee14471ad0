package domain

import "time"

// AuthToken is the single bearer key issued to a user. It lives until logout.
type AuthToken struct {
	Key       string    `gorm:"column:key;primaryKey;size:512"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}
