package data

import "time"

// ActivityLog is the append-only table the activity drain writes to.
// Column set and naming follow tracking.py's flush_user_activity_to_mysql,
// adapted to the Postgres/gorm conventions used throughout this package.
type ActivityLog struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	LogName     string    `gorm:"size:50;not null;default:'app'" json:"log_name"`
	Description string    `gorm:"type:text" json:"description"`
	SubjectID   *uint     `json:"subject_id,omitempty"`
	SubjectType string    `gorm:"size:120" json:"subject_type,omitempty"`
	CauserID    uint      `gorm:"not null;index" json:"causer_id"`
	CauserType  string    `gorm:"size:120;not null;default:'App\\User'" json:"causer_type"`
	Properties  string    `gorm:"type:jsonb" json:"properties"`
	URL         string    `gorm:"type:text" json:"url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}
