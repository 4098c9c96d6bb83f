package data

import "time"

// Interaction kinds, matching spec.md §3's Interaction.kind enum.
const (
	InteractionKindRating        = "rating"
	InteractionKindSave          = "save"
	InteractionKindMatch         = "match"
	InteractionKindView          = "view"
	InteractionKindViewImplicit  = "view_implicit"
)

// UserItemRating is an explicit 0-5 rating left by a user on an item.
type UserItemRating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ItemID    uint      `gorm:"not null;index;column:resume_id" json:"item_id"`
	Rating    float64   `gorm:"type:decimal(2,1);not null" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserItemRating) TableName() string {
	return "resume_ratings"
}

// UserItemSave marks that a user saved (liked) an item.
type UserItemSave struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ItemID    uint      `gorm:"not null;index;column:resume_id" json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserItemSave) TableName() string {
	return "resume_saves"
}

// UserItemMatch records an accepted match between a user and an item.
type UserItemMatch struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ItemID    uint      `gorm:"not null;index;column:resume_id" json:"item_id"`
	Status    string    `gorm:"not null;size:20;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserItemMatch) TableName() string {
	return "resume_matches"
}

// InteractionRow is the normalized shape produced by the union of ratings,
// saves, matches and synthesized implicit views, grounded on
// data_service.py::_load_interactions.
type InteractionRow struct {
	UserID    uint
	ItemID    uint
	Rating    float64
	Kind      string
	CreatedAt time.Time
}

// FlowViewRow records that a user viewed a flow (campaign), consumed by the
// flows-only assembly path to exclude previously seen flows.
type FlowViewRow struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	FlowID    uint      `gorm:"not null;index" json:"flow_id"`
	ViewedAt  time.Time `gorm:"not null;default:now()" json:"viewed_at"`
}

func (FlowViewRow) TableName() string {
	return "flow_views"
}
