package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chore-planner/internal/model"
)

// UserRepository handles CRUD for household members.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertFromTelegram finds or creates a user based on TelegramID and updates basic profile info.
func (r *UserRepository) UpsertFromTelegram(ctx context.Context, telegramID int64, firstName, lastName, username string) (*model.User, error) {
	var user model.User
	db := r.db.WithContext(ctx)
	err := db.Where("telegram_id = ?", telegramID).First(&user).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"first_name": firstName,
			"last_name":  lastName,
			"username":   username,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			TelegramID: telegramID,
			FirstName:  firstName,
			LastName:   lastName,
			Username:   username,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateBudget stores the member's budget override. minutes == 0 falls back
// to the configured default.
func (r *UserRepository) UpdateBudget(ctx context.Context, user *model.User, minutes int, disabled bool) error {
	updates := map[string]interface{}{
		"daily_budget_minutes": minutes,
		"budget_disabled":      disabled,
	}
	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	user.DailyBudgetMinutes = minutes
	user.BudgetDisabled = disabled
	return nil
}
