package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/sakilahmmad71/railway-test-depl/domain"
	"github.com/sakilahmmad71/railway-test-depl/models"
)

// SortOrder selects the content-feed ordering.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	// SortPopular is accepted but falls back to newest-by-date; no
	// popularity metric exists yet.
	SortPopular SortOrder = "popular"
)

// ParseSortOrder maps a query value onto a SortOrder, defaulting to newest.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortOldest:
		return SortOldest
	case SortPopular:
		return SortPopular
	default:
		return SortNewest
	}
}

// LinkStore exposes persistence for youtube links and the aggregated
// content feed.
type LinkStore interface {
	Add(link *models.YoutubeLink) error
	// Remove deletes a user's link by id and reports ErrNotFound when no
	// row matched.
	Remove(userID uint, linkID string) error
	ListByUser(userID uint) ([]models.YoutubeLink, error)
	// ListContent returns one page of all users' links annotated with the
	// owner's public identity, plus the total count. Sorting and paging
	// happen in the database, not in memory.
	ListContent(page, limit int, sort SortOrder) ([]models.ContentItem, int64, error)
}

// GormLinkStore is the Postgres-backed LinkStore.
type GormLinkStore struct {
	db *gorm.DB
}

func NewGormLinkStore(db *gorm.DB) *GormLinkStore {
	return &GormLinkStore{db: db}
}

func (s *GormLinkStore) Add(link *models.YoutubeLink) error {
	return s.db.Create(link).Error
}

func (s *GormLinkStore) Remove(userID uint, linkID string) error {
	res := s.db.Where("user_id = ? AND id = ?", userID, linkID).
		Delete(&models.YoutubeLink{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *GormLinkStore) ListByUser(userID uint) ([]models.YoutubeLink, error) {
	var links []models.YoutubeLink
	err := s.db.Where("user_id = ?", userID).
		Order("added_at ASC").
		Find(&links).Error
	return links, err
}

// ownerRow is the join projection for the feed query.
type ownerRow struct {
	ID          string
	URL         string
	Title       string
	AddedAt     time.Time
	UserID      uint
	UserName    string
	UserPicture string
}

func (s *GormLinkStore) ListContent(page, limit int, sort SortOrder) ([]models.ContentItem, int64, error) {
	base := func() *gorm.DB {
		return s.db.Table("youtube_links").
			Joins("JOIN users ON users.id = youtube_links.user_id AND users.deleted_at IS NULL").
			Where("youtube_links.id <> '' AND youtube_links.url <> ''")
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "youtube_links.added_at DESC"
	if sort == SortOldest {
		order = "youtube_links.added_at ASC"
	}

	var rows []ownerRow
	err := base().
		Select("youtube_links.*, users.name AS user_name, users.profile_picture AS user_picture").
		Order(order).
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]models.ContentItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, models.ContentItem{
			ID:      r.ID,
			URL:     r.URL,
			Title:   r.Title,
			AddedAt: r.AddedAt,
			User: models.ContentOwner{
				ID:             r.UserID,
				Name:           r.UserName,
				ProfilePicture: r.UserPicture,
			},
		})
	}
	return items, total, nil
}
