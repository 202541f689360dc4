package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FirebaseUID string    `gorm:"uniqueIndex;not null" json:"firebaseUid"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PictureURL  string    `json:"pictureUrl,omitempty"`

	Profile   *Profile   `gorm:"foreignKey:UserID" json:"-"`
	DailyGoal *DailyGoal `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
