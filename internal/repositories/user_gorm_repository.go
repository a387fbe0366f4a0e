package repositories

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"warbler/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user. A taken username or email yields models.ErrConflict.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapErr(err, "failed to create user %s", user.Username)
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "failed to get user by ID %d", id)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, wrapErr(err, "failed to get user by username %s", username)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, wrapErr(err, "failed to get user by email %s", email)
	}
	return &user, nil
}

// Search lists users whose username contains query, ignoring case. An empty query lists everyone.
func (r *GORMUserRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	tx := r.db.Order("username")
	if query != "" {
		tx = tx.Where(`LOWER(username) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(query))+"%")
	}
	if err := tx.Find(&users).Error; err != nil {
		return nil, wrapErr(err, "failed to search users for %q", query)
	}
	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Update writes every editable column of an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	// Save would insert a missing row; Updates only touches existing ones.
	res := r.db.Model(user).Select("*").Omit("id", "created_at").Updates(user)
	if res.Error != nil {
		return wrapErr(res.Error, "failed to update user %d", user.ID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d not found for update: %w", user.ID, models.ErrNotFound)
	}
	return nil
}

// Delete removes a user together with their messages, follows and likes.
func (r *GORMUserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ownMessages := tx.Model(&models.Message{}).Select("id").Where("user_id = ?", id)

		if err := tx.Where("user_id = ? OR message_id IN (?)", id, ownMessages).Delete(&models.Like{}).Error; err != nil {
			return wrapErr(err, "failed to delete likes of user %d", id)
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return wrapErr(err, "failed to delete follows of user %d", id)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return wrapErr(err, "failed to delete messages of user %d", id)
		}

		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return wrapErr(res.Error, "failed to delete user %d", id)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %d not found for deletion: %w", id, models.ErrNotFound)
		}
		return nil
	})
}

// Stats counts a user's messages, followed users, followers and likes.
func (r *GORMUserRepository) Stats(id uint) (*models.UserStats, error) {
	var stats models.UserStats
	if err := r.db.Model(&models.Message{}).Where("user_id = ?", id).Count(&stats.Messages).Error; err != nil {
		return nil, wrapErr(err, "failed to count messages of user %d", id)
	}
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ?", id).Count(&stats.Following).Error; err != nil {
		return nil, wrapErr(err, "failed to count following of user %d", id)
	}
	if err := r.db.Model(&models.Follow{}).Where("followed_id = ?", id).Count(&stats.Followers).Error; err != nil {
		return nil, wrapErr(err, "failed to count followers of user %d", id)
	}
	if err := r.db.Model(&models.Like{}).Where("user_id = ?", id).Count(&stats.Likes).Error; err != nil {
		return nil, wrapErr(err, "failed to count likes of user %d", id)
	}
	return &stats, nil
}
