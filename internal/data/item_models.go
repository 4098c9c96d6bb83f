package data

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ItemRecord is the raw "resumes" row as stored relationally: a short-form
// creator video. CatalogSnapshot enriches this with aggregated engagement
// counts and derived scores; this struct only carries load-time columns.
type ItemRecord struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CreatorID   uint           `gorm:"not null;index;column:user_id" json:"creator_id"`
	VideoURL    string         `gorm:"not null;column:video_url" json:"video_url"`
	Status      string         `gorm:"not null;size:20;default:'draft'" json:"status"`
	Name        string         `gorm:"size:255" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	City        string         `gorm:"size:100" json:"city"`
	Skills      pq.StringArray `gorm:"type:text[]" json:"skills"`
	Knowledges  pq.StringArray `gorm:"type:text[]" json:"knowledges"`
	Tools       pq.StringArray `gorm:"type:text[]" json:"tools"`
	Languages   pq.StringArray `gorm:"type:text[]" json:"languages"`
	ViewCount   int64          `gorm:"not null;default:0;column:view_count" json:"view_count"`
}

func (ItemRecord) TableName() string {
	return "resumes"
}

// FlowRecord is the raw "flows" row: a creator-posted campaign.
type FlowRecord struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatorID   uint      `gorm:"not null;index;column:user_id" json:"creator_id"`
	VideoURL    string    `gorm:"not null;column:video_url" json:"video_url"`
	Name        string    `gorm:"size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	City        string    `gorm:"size:100" json:"city"`
}

func (FlowRecord) TableName() string {
	return "flows"
}

// ItemEngagementAggregate is the result row of the left-join aggregation
// query that computes per-item rating/match/like/exhibited counts, grounded
// on data_service.py's _load_videos SQL.
type ItemEngagementAggregate struct {
	ItemID         uint
	AvgRating      float64
	RatingCount    int64
	MatchCount     int64
	LikeCount      int64
	ExhibitedCount int64
	ActualViews    int64
}
