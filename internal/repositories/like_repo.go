package repositories

import (
	"errors"

	"gorm.io/gorm"

	"warbler/internal/models"
)

// LikeRepository defines the interface for like edge data access.
type LikeRepository interface {
	// Toggle removes the like if it exists and creates it otherwise. It reports whether
	// the message is liked afterwards.
	Toggle(userID, messageID uint) (bool, error)
	Exists(userID, messageID uint) (bool, error)
	LikedMessages(userID uint) ([]models.Message, error)
	LikedMessageIDs(userID uint) ([]uint, error)
	CountForMessage(messageID uint) (int64, error)
}

// GORMLikeRepository is a GORM implementation of LikeRepository.
type GORMLikeRepository struct {
	db *gorm.DB
}

// NewGORMLikeRepository creates a new instance of GORMLikeRepository.
func NewGORMLikeRepository(db *gorm.DB) *GORMLikeRepository {
	return &GORMLikeRepository{db: db}
}

// Toggle flips the like edge between userID and messageID inside one transaction.
func (r *GORMLikeRepository) Toggle(userID, messageID uint) (bool, error) {
	liked := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND message_id = ?", userID, messageID).Delete(&models.Like{})
		if res.Error != nil {
			return wrapErr(res.Error, "failed to unlike message %d as %d", messageID, userID)
		}
		if res.RowsAffected > 0 {
			return nil
		}

		if err := tx.Create(&models.Like{UserID: userID, MessageID: messageID}).Error; err != nil {
			return wrapErr(err, "failed to like message %d as %d", messageID, userID)
		}
		liked = true
		return nil
	})
	// A concurrent toggle inserted the same edge first; either way the message is liked.
	if errors.Is(err, models.ErrConflict) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return liked, nil
}

// Exists reports whether userID likes messageID.
func (r *GORMLikeRepository) Exists(userID, messageID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	if err != nil {
		return false, wrapErr(err, "failed to check like %d -> %d", userID, messageID)
	}
	return count > 0, nil
}

// LikedMessages returns the messages userID likes, newest first.
func (r *GORMLikeRepository) LikedMessages(userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("messages.timestamp DESC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapErr(err, "failed to list messages liked by %d", userID)
	}
	return messages, nil
}

// LikedMessageIDs returns the IDs of the messages userID likes.
func (r *GORMLikeRepository) LikedMessageIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Like{}).Where("user_id = ?", userID).Pluck("message_id", &ids).Error; err != nil {
		return nil, wrapErr(err, "failed to list liked message IDs of %d", userID)
	}
	return ids, nil
}

// CountForMessage returns how many users like messageID.
func (r *GORMLikeRepository) CountForMessage(messageID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("message_id = ?", messageID).Count(&count).Error; err != nil {
		return 0, wrapErr(err, "failed to count likes of message %d", messageID)
	}
	return count, nil
}
