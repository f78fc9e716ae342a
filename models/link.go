package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// youtubePattern accepts watch, share and shorts URLs on the YouTube
// domains, with or without a scheme.
var youtubePattern = regexp.MustCompile(`^(https?://)?(www\.|m\.)?(youtube\.com|youtu\.be)/.+$`)

// YoutubeLink is one user-submitted external video link. Links are rows in
// their own table rather than a blob on the user record so the content feed
// can be sorted and paginated by the database.
type YoutubeLink struct {
	ID      string    `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"index;not null" json:"-"`
	URL     string    `gorm:"not null" json:"url"`
	Title   string    `json:"title"`
	AddedAt time.Time `gorm:"index;not null" json:"addedAt"`
}

// NewYoutubeLink builds a link entry with a fresh id and the current
// timestamp.
func NewYoutubeLink(userID uint, url, title string) YoutubeLink {
	return YoutubeLink{
		ID:      uuid.NewString(),
		UserID:  userID,
		URL:     strings.TrimSpace(url),
		Title:   strings.TrimSpace(title),
		AddedAt: time.Now().UTC(),
	}
}

// ValidateYoutubeURL rejects anything that is not a YouTube video URL.
func ValidateYoutubeURL(url string) error {
	if !youtubePattern.MatchString(strings.TrimSpace(url)) {
		return fmt.Errorf("must be a valid YouTube URL")
	}
	return nil
}

// ContentOwner is the public identity attached to each feed item.
type ContentOwner struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
}

// ContentItem is one entry of the aggregated content feed.
type ContentItem struct {
	ID      string       `json:"id"`
	URL     string       `json:"url"`
	Title   string       `json:"title"`
	AddedAt time.Time    `json:"addedAt"`
	User    ContentOwner `json:"user"`
}
