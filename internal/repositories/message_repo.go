package repositories

import "warbler/internal/models"

// MessageRepository defines the interface for message data access.
type MessageRepository interface {
	Create(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	Delete(id uint) error
	ListByUser(userID uint, limit int) ([]models.Message, error)
	// Timeline returns messages written by any of userIDs, newest first.
	Timeline(userIDs []uint, limit int) ([]models.Message, error)
}
