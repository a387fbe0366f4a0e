package models

import "time"

// MaxMessageLength is the upper bound on message text, in characters.
const MaxMessageLength = 140

// Message is a short post owned by a user.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:varchar(140);not null" validate:"required,max=140"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// NewMessage validates text and returns an unsaved message owned by userID.
func NewMessage(text string, userID uint) (*Message, error) {
	m := &Message{Text: text, UserID: userID, Timestamp: time.Now().UTC()}
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}
