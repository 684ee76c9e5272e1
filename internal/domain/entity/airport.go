package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airport represents airport reference information
type Airport struct {
	ID          uint
	AirportCode string
	AirportName string
	CityCode    string
	CityName    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt
}
