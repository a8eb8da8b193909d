package models

// CommunityPost is a forum post. Likes and CommentsCount are aggregates kept
// in step with the like and comment tables inside the same transaction.
type CommunityPost struct {
	Base
	UserID        string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title         string  `gorm:"not null" json:"title"`
	Content       string  `gorm:"not null" json:"content"`
	Category      string  `gorm:"not null;index" json:"category"`
	ImagePath     *string `json:"image_path"`
	Likes         int     `gorm:"not null;default:0" json:"likes"`
	CommentsCount int     `gorm:"not null;default:0" json:"comments_count"`
	Author        *User   `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

// CommunityComment is a reply on a post.
type CommunityComment struct {
	Base
	PostID  string `gorm:"type:uuid;not null;index" json:"post_id"`
	UserID  string `gorm:"type:uuid;not null;index" json:"user_id"`
	Content string `gorm:"not null" json:"content"`
	Author  *User  `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

// CommunityLike records that a user liked a post; one row per (post, user).
type CommunityLike struct {
	Base
	PostID string `gorm:"type:uuid;not null;uniqueIndex:idx_community_likes_post_user" json:"post_id"`
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_community_likes_post_user" json:"user_id"`
}
