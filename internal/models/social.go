package models

import "time"

// Comment is attached to either a story or a chapter, never both.
type Comment struct {
	ID        string    `json:"id"`
	StoryID   string    `json:"story_id,omitempty"`
	ChapterID string    `json:"chapter_id,omitempty"`
	AuthorID  string    `json:"author_id"`
	Author    *Profile  `json:"author,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow is the edge between a follower and a followed profile.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FollowedID string    `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notification types created by social actions.
const (
	NotificationFollow     = "follow"
	NotificationNewChapter = "new_chapter"
)

// Notification is delivered to a recipient as a side effect of a social
// action (someone followed them, a followed author published a chapter).
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	SenderID    string    `json:"sender_id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
