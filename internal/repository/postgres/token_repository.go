package postgres

import (
	"agriVest/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TokenRepository struct {
	DB *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{
		DB: db,
	}
}

func (r *TokenRepository) FindByUserID(ctx context.Context, userID uint) (domain.AuthToken, error) {
	var token domain.AuthToken

	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthToken{}, fmt.Errorf("token %w", domain.ErrNotFound)
		}
		return domain.AuthToken{}, err
	}

	return token, nil
}

func (r *TokenRepository) FindByKey(ctx context.Context, key string) (domain.AuthToken, error) {
	var token domain.AuthToken

	err := r.DB.WithContext(ctx).Where("key = ?", key).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthToken{}, fmt.Errorf("token %w", domain.ErrNotFound)
		}
		return domain.AuthToken{}, err
	}

	return token, nil
}

// CreateIfAbsent inserts token unless the user already holds one. It returns
// the token that is stored afterwards, which is the existing one when a
// concurrent login won the race.
func (r *TokenRepository) CreateIfAbsent(ctx context.Context, token domain.AuthToken) (domain.AuthToken, error) {
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit("User").
		Create(&token).Error
	if err != nil {
		return domain.AuthToken{}, err
	}

	return r.FindByUserID(ctx, token.UserID)
}

func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.AuthToken{}).Error
}
