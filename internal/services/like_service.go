package services

import (
	"fmt"

	"warbler/internal/models"
	"warbler/internal/repositories"
)

// LikeService toggles likes for the viewer.
type LikeService struct {
	messages repositories.MessageRepository
	likes    repositories.LikeRepository
	activity *Activity
	allowOwn bool
}

// NewLikeService creates a new LikeService. allowOwn permits users to like their own messages.
func NewLikeService(messages repositories.MessageRepository, likes repositories.LikeRepository, activity *Activity, allowOwn bool) *LikeService {
	return &LikeService{messages: messages, likes: likes, activity: activity, allowOwn: allowOwn}
}

// Toggle likes messageID if the viewer has not liked it yet and unlikes it otherwise.
// It reports whether the message is liked afterwards.
func (s *LikeService) Toggle(viewerID, messageID uint) (bool, error) {
	if viewerID == 0 {
		return false, models.ErrUnauthorized
	}
	message, err := s.messages.GetByID(messageID)
	if err != nil {
		return false, err
	}
	if message.UserID == viewerID && !s.allowOwn {
		return false, fmt.Errorf("cannot like own message %d: %w", messageID, models.ErrForbidden)
	}

	liked, err := s.likes.Toggle(viewerID, messageID)
	if err != nil {
		return false, err
	}
	if liked {
		s.activity.Emit(EventMessageLiked, viewerID, messageID)
	} else {
		s.activity.Emit(EventMessageUnliked, viewerID, messageID)
	}
	return liked, nil
}
