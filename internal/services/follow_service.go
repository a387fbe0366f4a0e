package services

import (
	"warbler/internal/models"
	"warbler/internal/repositories"
)

// FollowService creates and removes follow edges for the viewer.
type FollowService struct {
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	activity *Activity
}

// NewFollowService creates a new FollowService.
func NewFollowService(users repositories.UserRepository, follows repositories.FollowRepository, activity *Activity) *FollowService {
	return &FollowService{users: users, follows: follows, activity: activity}
}

// Follow makes the viewer follow targetID. Following twice is a no-op.
// Following yourself is allowed.
func (s *FollowService) Follow(viewerID, targetID uint) error {
	if viewerID == 0 {
		return models.ErrUnauthorized
	}
	if _, err := s.users.GetByID(targetID); err != nil {
		return err
	}
	created, err := s.follows.Follow(viewerID, targetID)
	if err != nil {
		return err
	}
	if created {
		s.activity.Emit(EventUserFollowed, viewerID, targetID)
	}
	return nil
}

// Unfollow removes the viewer's edge to targetID if there is one.
func (s *FollowService) Unfollow(viewerID, targetID uint) error {
	if viewerID == 0 {
		return models.ErrUnauthorized
	}
	removed, err := s.follows.Unfollow(viewerID, targetID)
	if err != nil {
		return err
	}
	if removed {
		s.activity.Emit(EventUserUnfollowed, viewerID, targetID)
	}
	return nil
}
