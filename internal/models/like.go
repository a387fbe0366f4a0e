package models

// Like records that a user liked a message. A user can like a given message at most once.
type Like struct {
	UserID    uint     `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	MessageID uint     `json:"message_id" gorm:"primaryKey;autoIncrement:false;index"`
	User      *User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Message   *Message `json:"-" gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM.
func (Like) TableName() string {
	return "likes"
}
