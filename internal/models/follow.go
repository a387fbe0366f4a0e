package models

// Follow is a directed edge: FollowerID follows FollowedID.
type Follow struct {
	FollowedID uint  `json:"followed_id" gorm:"primaryKey;autoIncrement:false"`
	FollowerID uint  `json:"follower_id" gorm:"primaryKey;autoIncrement:false;index"`
	Followed   *User `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
	Follower   *User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}
