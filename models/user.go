package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleWorker   UserRole = "WORKER"
	RoleProvider UserRole = "PROVIDER"
)

// StringList stores a []string as a JSON text column
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *StringList) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), s)
	case []byte:
		return json.Unmarshal(v, s)
	}
	return errors.New("unsupported type for StringList")
}

type User struct {
	ID           string   `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"not null"`
	Phone        string   `json:"phone"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Address      string   `json:"address"`
	// Rating is meaningful for workers only; provider rows keep it NULL.
	Rating          *float64   `json:"rating,omitempty"`
	CompletedTasks  int        `json:"completed_tasks" gorm:"default:0"`
	Skills          StringList `json:"skills" gorm:"type:text"`
	Bio             string     `json:"bio,omitempty"`
	ExperienceYears int        `json:"experience_years,omitempty"`
	PhotoURL        string     `json:"photo_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
