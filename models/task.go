package models

import "time"

// TaskStatus represents all possible states of a posted task
type TaskStatus string

const (
	StatusOpen       TaskStatus = "OPEN"
	StatusApplied    TaskStatus = "APPLIED"
	StatusAssigned   TaskStatus = "ASSIGNED"
	StatusOnTheWay   TaskStatus = "ON_THE_WAY"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusCancelled  TaskStatus = "CANCELLED"
)

// TaskCategory is the fixed set of job categories
type TaskCategory string

const (
	CategoryCleaning TaskCategory = "Cleaning"
	CategoryShifting TaskCategory = "Shifting"
	CategoryHelper   TaskCategory = "Helper"
	CategoryRepair   TaskCategory = "Repair"
	CategoryDelivery TaskCategory = "Delivery"
	CategoryOther    TaskCategory = "Other"
)

// ApplicantStatus tracks a single worker's bid on a task
type ApplicantStatus string

const (
	ApplicantPending  ApplicantStatus = "pending"
	ApplicantAccepted ApplicantStatus = "accepted"
	ApplicantRejected ApplicantStatus = "rejected"
)

type Task struct {
	ID            string       `json:"id" gorm:"primaryKey"`
	ProviderID    string       `json:"provider_id" gorm:"not null;index"`
	ProviderName  string       `json:"provider_name"`
	ProviderPhone string       `json:"provider_phone,omitempty"`
	WorkerID      *string      `json:"worker_id,omitempty"`
	WorkerName    string       `json:"worker_name,omitempty"`
	Title         string       `json:"title" gorm:"not null"`
	Description   string       `json:"description"`
	Budget        float64      `json:"budget"`
	Category      TaskCategory `json:"category" gorm:"not null;default:'Other'"`
	Lat           float64      `json:"lat"`
	Lng           float64      `json:"lng"`
	Address       string       `json:"address"`
	Status        TaskStatus   `json:"status" gorm:"not null;default:'OPEN'"`
	Date          string       `json:"date,omitempty"`
	Skills        StringList   `json:"skills" gorm:"type:text"`
	// DistanceKm is derived relative to a viewer's location and never persisted.
	DistanceKm    float64              `json:"distance_km,omitempty" gorm:"-"`
	Applicants    []AppliedWorker      `json:"applicants,omitempty" gorm:"foreignKey:TaskID"`
	StatusHistory []TaskStatusHistory  `json:"status_history,omitempty" gorm:"foreignKey:TaskID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// AppliedWorker is a worker's bid on a task. At most one row per (task, worker),
// and at most one accepted row per task.
type AppliedWorker struct {
	ID           uint            `json:"-" gorm:"primaryKey"`
	TaskID       string          `json:"-" gorm:"not null;index"`
	WorkerID     string          `json:"worker_id" gorm:"not null"`
	WorkerName   string          `json:"worker_name"`
	WorkerRating float64         `json:"worker_rating"`
	Skills       StringList      `json:"skills" gorm:"type:text"`
	DistanceKm   float64         `json:"distance_km"`
	WorkerPhoto  string          `json:"worker_photo,omitempty"`
	Status       ApplicantStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TaskStatusHistory tracks every status change — audit trail
type TaskStatusHistory struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	TaskID     string     `json:"task_id" gorm:"not null;index"`
	FromStatus TaskStatus `json:"from_status"`
	ToStatus   TaskStatus `json:"to_status" gorm:"not null"`
	ChangedBy  string     `json:"changed_by"`
	Note       string     `json:"note"`
	CreatedAt  time.Time  `json:"created_at"`
}
