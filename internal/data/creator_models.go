package data

import "time"

// Creator is the content-owning user entity: every Item and Flow belongs
// to exactly one Creator, and Creators are the nodes of the social graph.
type Creator struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `gorm:"uniqueIndex;not null;size:100" json:"username"`
	Name      string    `gorm:"size:150" json:"name"`
	City      string    `gorm:"size:100" json:"city"`
	Country   string    `gorm:"size:100" json:"country"`
}

func (Creator) TableName() string {
	return "users"
}

// Connection is a directed, accepted edge in the social graph.
type Connection struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	FromUserID uint      `gorm:"not null;index" json:"from_user_id"`
	ToUserID   uint      `gorm:"not null;index" json:"to_user_id"`
	Status     string    `gorm:"not null;size:20;default:'pending'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Connection) TableName() string {
	return "connections"
}
