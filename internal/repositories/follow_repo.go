package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warbler/internal/models"
)

// FollowRepository defines the interface for follow edge data access.
type FollowRepository interface {
	Follow(followerID, followedID uint) (bool, error)
	Unfollow(followerID, followedID uint) (bool, error)
	Exists(followerID, followedID uint) (bool, error)
	Following(userID uint) ([]models.User, error)
	Followers(userID uint) ([]models.User, error)
	FollowingIDs(userID uint) ([]uint, error)
}

// GORMFollowRepository is a GORM implementation of FollowRepository.
type GORMFollowRepository struct {
	db *gorm.DB
}

// NewGORMFollowRepository creates a new instance of GORMFollowRepository.
func NewGORMFollowRepository(db *gorm.DB) *GORMFollowRepository {
	return &GORMFollowRepository{db: db}
}

// Follow creates the edge followerID -> followedID. An existing edge is left untouched.
// It reports whether a new edge was created.
func (r *GORMFollowRepository) Follow(followerID, followedID uint) (bool, error) {
	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
	if res.Error != nil {
		return false, wrapErr(res.Error, "failed to follow user %d as %d", followedID, followerID)
	}
	return res.RowsAffected > 0, nil
}

// Unfollow removes the edge if present and reports whether there was one.
func (r *GORMFollowRepository) Unfollow(followerID, followedID uint) (bool, error) {
	res := r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, wrapErr(res.Error, "failed to unfollow user %d as %d", followedID, followerID)
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether followerID follows followedID.
func (r *GORMFollowRepository) Exists(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, wrapErr(err, "failed to check follow %d -> %d", followerID, followedID)
	}
	return count > 0, nil
}

// Following lists the users userID follows.
func (r *GORMFollowRepository) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, wrapErr(err, "failed to list users followed by %d", userID)
	}
	return users, nil
}

// Followers lists the users following userID.
func (r *GORMFollowRepository) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, wrapErr(err, "failed to list followers of %d", userID)
	}
	return users, nil
}

// FollowingIDs returns the IDs of the users userID follows.
func (r *GORMFollowRepository) FollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, wrapErr(err, "failed to list followed IDs of %d", userID)
	}
	return ids, nil
}
