package domain

import (
	"slices"
	"time"
)

// FeedPost is an entry in the social feed.
// Likes holds each user id at most once. Comments are append-only and keep
// insertion order.
type FeedPost struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Location  string    `json:"location,omitempty"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikedBy reports whether userID is in the post's like set.
func (p FeedPost) LikedBy(userID string) bool {
	return slices.Contains(p.Likes, userID)
}

// Comment is immutable once appended to a post.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostDraft carries the caller-supplied fields of a new post.
type PostDraft struct {
	Content  string
	ImageURL string
	Location string
}

// PostPatch lists the fields an author may edit. Likes and comments are
// changed only through their own operations.
type PostPatch struct {
	Content  *string
	ImageURL *string
	Location *string
}

// Apply merges the non-nil fields of p into post.
func (p PostPatch) Apply(post FeedPost) FeedPost {
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.ImageURL != nil {
		post.ImageURL = *p.ImageURL
	}
	if p.Location != nil {
		post.Location = *p.Location
	}
	return post
}
