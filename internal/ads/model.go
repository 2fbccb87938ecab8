package ads

import (
	"time"

	"github.com/pritamgurung97/Adverts-Nepal/internal/users"
)

// DateLayout renders an ad's posting date, e.g. "June 01, 2024".
const DateLayout = "January 02, 2006"

type Ad struct {
	ID          uint       `gorm:"primaryKey"`
	Title       string     `gorm:"size:250;not null"`
	Slug        string     `gorm:"size:250;not null"`
	Price       int64      `gorm:"not null"`
	Description string     `gorm:"type:text;not null"`
	ImageURL    string     `gorm:"size:250"`
	Date        string     `gorm:"size:250;not null"`
	UserID      uint       `gorm:"not null;index"`
	Author      users.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Comments    []Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type Comment struct {
	ID        uint       `gorm:"primaryKey"`
	Text      string     `gorm:"type:text;not null"`
	AdID      uint       `gorm:"not null;index"`
	UserID    uint       `gorm:"not null;index"`
	Author    users.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time
}
