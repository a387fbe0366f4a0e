package repositories

import (
	"fmt"
	"sort"
	"sync"

	"warbler/internal/models"
)

// MockMessageRepository is an in-memory implementation of MessageRepository.
type MockMessageRepository struct {
	messages map[uint]models.Message
	nextID   uint
	mu       sync.RWMutex
}

// NewMockMessageRepository creates a new instance of MockMessageRepository.
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[uint]models.Message),
		nextID:   1,
	}
}

// Create stores a message, assigning an ID when none is set.
func (r *MockMessageRepository) Create(message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if message.ID == 0 {
		message.ID = r.nextID
	}
	if _, ok := r.messages[message.ID]; ok {
		return fmt.Errorf("message with ID %d: %w", message.ID, models.ErrConflict)
	}
	if message.ID >= r.nextID {
		r.nextID = message.ID + 1
	}
	r.messages[message.ID] = *message
	return nil
}

// GetByID returns a message by its ID.
func (r *MockMessageRepository) GetByID(id uint) (*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	message, ok := r.messages[id]
	if !ok {
		return nil, fmt.Errorf("message with ID %d: %w", id, models.ErrNotFound)
	}
	return &message, nil
}

// Delete removes a message by its ID.
func (r *MockMessageRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[id]; !ok {
		return fmt.Errorf("message with ID %d not found for deletion: %w", id, models.ErrNotFound)
	}
	delete(r.messages, id)
	return nil
}

// ListByUser returns a user's messages, newest first.
func (r *MockMessageRepository) ListByUser(userID uint, limit int) ([]models.Message, error) {
	return r.Timeline([]uint{userID}, limit)
}

// Timeline returns messages written by any of userIDs, newest first.
func (r *MockMessageRepository) Timeline(userIDs []uint, limit int) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	authors := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		authors[id] = true
	}

	list := make([]models.Message, 0)
	for _, m := range r.messages {
		if authors[m.UserID] {
			list = append(list, m)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].ID > list[j].ID
		}
		return list[i].Timestamp.After(list[j].Timestamp)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
