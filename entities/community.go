package entities

import "time"

type CommunityPost struct {
	PostID    uint      `gorm:"primaryKey" json:"id"`
	Author    string    `json:"author"`
	Location  string    `json:"location"`
	Category  string    `gorm:"index" json:"category"` // crops|pest|market|weather|equipment|general
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      string    `json:"tags"`
	Likes     int       `json:"likes"`
	Replies   int       `json:"replies"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

type CommunityReply struct {
	ReplyID   uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index" json:"post_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
