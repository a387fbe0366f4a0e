package services

import (
	"warbler/internal/models"
	"warbler/internal/repositories"
)

// MessageService handles posting, reading and deleting messages.
type MessageService struct {
	messages      repositories.MessageRepository
	follows       repositories.FollowRepository
	activity      *Activity
	timelineLimit int
}

// NewMessageService creates a new MessageService.
func NewMessageService(messages repositories.MessageRepository, follows repositories.FollowRepository, activity *Activity, timelineLimit int) *MessageService {
	if timelineLimit <= 0 {
		timelineLimit = 100
	}
	return &MessageService{
		messages:      messages,
		follows:       follows,
		activity:      activity,
		timelineLimit: timelineLimit,
	}
}

// Create posts a new message as the viewer.
func (s *MessageService) Create(viewerID uint, text string) (*models.Message, error) {
	if viewerID == 0 {
		return nil, models.ErrUnauthorized
	}
	message, err := models.NewMessage(plainText(text), viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Create(message); err != nil {
		return nil, err
	}
	s.activity.Emit(EventMessageCreated, viewerID, message.ID)
	return message, nil
}

// Get returns a single message.
func (s *MessageService) Get(id uint) (*models.Message, error) {
	return s.messages.GetByID(id)
}

// Delete removes a message. Only its owner may do so.
func (s *MessageService) Delete(viewerID, id uint) error {
	if viewerID == 0 {
		return models.ErrUnauthorized
	}
	message, err := s.messages.GetByID(id)
	if err != nil {
		return err
	}
	if message.UserID != viewerID {
		return models.ErrForbidden
	}
	if err := s.messages.Delete(id); err != nil {
		return err
	}
	s.activity.Emit(EventMessageDeleted, viewerID, id)
	return nil
}

// Timeline returns the newest messages written by the viewer and the users they follow.
func (s *MessageService) Timeline(viewerID uint) ([]models.Message, error) {
	if viewerID == 0 {
		return nil, models.ErrUnauthorized
	}
	ids, err := s.follows.FollowingIDs(viewerID)
	if err != nil {
		return nil, err
	}
	return s.messages.Timeline(append(ids, viewerID), s.timelineLimit)
}
