package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"warbler/internal/models"
)

// GORMMessageRepository is a GORM implementation of MessageRepository.
type GORMMessageRepository struct {
	db *gorm.DB
}

// NewGORMMessageRepository creates a new instance of GORMMessageRepository.
func NewGORMMessageRepository(db *gorm.DB) *GORMMessageRepository {
	return &GORMMessageRepository{
		db: db,
	}
}

// Create inserts a new message.
func (r *GORMMessageRepository) Create(message *models.Message) error {
	if err := r.db.Omit("User").Create(message).Error; err != nil {
		return wrapErr(err, "failed to create message for user %d", message.UserID)
	}
	return nil
}

// GetByID retrieves a single message and its author.
func (r *GORMMessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.Preload("User").First(&message, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "failed to get message by ID %d", id)
	}
	return &message, nil
}

// Delete removes a message and the likes pointing at it.
func (r *GORMMessageRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return wrapErr(err, "failed to delete likes of message %d", id)
		}
		res := tx.Delete(&models.Message{}, "id = ?", id)
		if res.Error != nil {
			return wrapErr(res.Error, "failed to delete message %d", id)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("message with ID %d not found for deletion: %w", id, models.ErrNotFound)
		}
		return nil
	})
}

// ListByUser returns a user's messages, newest first.
func (r *GORMMessageRepository) ListByUser(userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("User").
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, wrapErr(err, "failed to list messages of user %d", userID)
	}
	return messages, nil
}

// Timeline returns messages written by any of userIDs, newest first.
func (r *GORMMessageRepository) Timeline(userIDs []uint, limit int) ([]models.Message, error) {
	if len(userIDs) == 0 {
		return []models.Message{}, nil
	}
	var messages []models.Message
	err := r.db.Preload("User").
		Where("user_id IN ?", userIDs).
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, wrapErr(err, "failed to load timeline")
	}
	return messages, nil
}
