package services

import (
	"fmt"

	"warbler/internal/models"
	"warbler/internal/repositories"
)

// profileMessageLimit caps the messages shown on a profile.
const profileMessageLimit = 100

// Profile is everything shown on a user's page.
type Profile struct {
	User     *models.User      `json:"user"`
	Messages []models.Message  `json:"messages"`
	Stats    *models.UserStats `json:"stats"`
}

// ProfileUpdate holds the editable profile fields.
type ProfileUpdate struct {
	Username       string `json:"username" form:"username" validate:"required,max=100"`
	Email          string `json:"email" form:"email" validate:"required,email"`
	ImageURL       string `json:"image_url" form:"image_url" validate:"omitempty,url"`
	HeaderImageURL string `json:"header_image_url" form:"header_image_url" validate:"omitempty,url"`
	Bio            string `json:"bio" form:"bio" validate:"max=500"`
	Location       string `json:"location" form:"location" validate:"max=100"`
}

// UserService handles user listing, profiles, follow lookups and account changes.
type UserService struct {
	users    repositories.UserRepository
	messages repositories.MessageRepository
	follows  repositories.FollowRepository
	likes    repositories.LikeRepository
	auth     *AuthService
	activity *Activity
}

// NewUserService creates a new UserService.
func NewUserService(
	users repositories.UserRepository,
	messages repositories.MessageRepository,
	follows repositories.FollowRepository,
	likes repositories.LikeRepository,
	auth *AuthService,
	activity *Activity,
) *UserService {
	return &UserService{
		users:    users,
		messages: messages,
		follows:  follows,
		likes:    likes,
		auth:     auth,
		activity: activity,
	}
}

// List returns all users, or only those whose username contains query.
func (s *UserService) List(query string) ([]models.User, error) {
	return s.users.Search(query)
}

// Get returns a single user.
func (s *UserService) Get(id uint) (*models.User, error) {
	return s.users.GetByID(id)
}

// Profile loads a user with their latest messages and counters.
func (s *UserService) Profile(id uint) (*Profile, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	messages, err := s.messages.ListByUser(id, profileMessageLimit)
	if err != nil {
		return nil, err
	}
	stats, err := s.users.Stats(id)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Messages: messages, Stats: stats}, nil
}

// Following lists the users id follows. Only logged-in viewers may look.
func (s *UserService) Following(viewerID, id uint) ([]models.User, error) {
	if err := s.requireViewerAndUser(viewerID, id); err != nil {
		return nil, err
	}
	return s.follows.Following(id)
}

// Followers lists the users following id. Only logged-in viewers may look.
func (s *UserService) Followers(viewerID, id uint) ([]models.User, error) {
	if err := s.requireViewerAndUser(viewerID, id); err != nil {
		return nil, err
	}
	return s.follows.Followers(id)
}

// Likes lists the messages id has liked. Only logged-in viewers may look.
func (s *UserService) Likes(viewerID, id uint) ([]models.Message, error) {
	if err := s.requireViewerAndUser(viewerID, id); err != nil {
		return nil, err
	}
	return s.likes.LikedMessages(id)
}

// LikedMessageIDs returns the IDs of the messages userID likes.
func (s *UserService) LikedMessageIDs(userID uint) ([]uint, error) {
	return s.likes.LikedMessageIDs(userID)
}

func (s *UserService) requireViewerAndUser(viewerID, id uint) error {
	if viewerID == 0 {
		return models.ErrUnauthorized
	}
	_, err := s.users.GetByID(id)
	return err
}

// IsFollowing reports whether userID follows otherID.
func (s *UserService) IsFollowing(userID, otherID uint) (bool, error) {
	return s.follows.Exists(userID, otherID)
}

// IsFollowedBy reports whether otherID follows userID.
func (s *UserService) IsFollowedBy(userID, otherID uint) (bool, error) {
	return s.follows.Exists(otherID, userID)
}

// UpdateProfile applies changes to the viewer's own account after re-checking their password.
func (s *UserService) UpdateProfile(viewerID uint, password string, changes ProfileUpdate) (*models.User, error) {
	if viewerID == 0 {
		return nil, models.ErrUnauthorized
	}
	changes.Bio = plainText(changes.Bio)
	changes.Location = plainText(changes.Location)
	if err := models.Validate(changes); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(viewerID)
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, models.ErrInvalidCredentials
	}
	if err := s.auth.ensureFree(changes.Username, changes.Email, user.ID); err != nil {
		return nil, err
	}

	user.Username = changes.Username
	user.Email = changes.Email
	user.ImageURL = orDefault(changes.ImageURL, models.DefaultImageURL)
	user.HeaderImageURL = orDefault(changes.HeaderImageURL, models.DefaultHeaderImageURL)
	user.Bio = changes.Bio
	user.Location = changes.Location

	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile of user %d: %w", user.ID, err)
	}
	s.activity.Emit(EventUserUpdated, user.ID, user.ID)
	return user, nil
}

// Delete removes the viewer's account and everything they own.
func (s *UserService) Delete(viewerID uint) error {
	if viewerID == 0 {
		return models.ErrUnauthorized
	}
	if err := s.users.Delete(viewerID); err != nil {
		return err
	}
	s.activity.Emit(EventUserDeleted, viewerID, viewerID)
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
