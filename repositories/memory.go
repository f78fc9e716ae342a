package repositories

import (
	"sort"
	"sync"

	"github.com/sakilahmmad71/railway-test-depl/domain"
	"github.com/sakilahmmad71/railway-test-depl/models"
)

// InMemoryUserStore is a map-backed UserStore used for single-process runs
// and tests.
type InMemoryUserStore struct {
	mu     sync.RWMutex
	users  map[uint]models.User
	nextID uint
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:  make(map[uint]models.User),
		nextID: 1,
	}
}

func (s *InMemoryUserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryUserStore) GetByID(id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *InMemoryUserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = models.NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *InMemoryUserStore) EmailTaken(email string, excludeID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = models.NormalizeEmail(email)
	for _, u := range s.users {
		if u.ID != excludeID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryUserStore) Update(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, u := range s.users {
		if u.ID != user.ID && u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryUserStore) List(page, limit int) ([]models.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start, end := domain.Slice(len(all), page, limit)
	return all[start:end], int64(len(all)), nil
}

func (s *InMemoryUserStore) SetRefreshToken(id uint, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.RefreshToken = token
	s.users[id] = u
	return nil
}

func (s *InMemoryUserStore) BumpTokenVersion(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.TokenVersion++
	u.RefreshToken = ""
	s.users[id] = u
	return nil
}

// InMemoryLinkStore keeps links in a slice and reproduces the feed query
// with an in-memory flatten/sort/slice. It needs the user store to annotate
// feed items with owner identity.
type InMemoryLinkStore struct {
	mu    sync.RWMutex
	links []models.YoutubeLink
	users *InMemoryUserStore
}

func NewInMemoryLinkStore(users *InMemoryUserStore) *InMemoryLinkStore {
	return &InMemoryLinkStore{users: users}
}

func (s *InMemoryLinkStore) Add(link *models.YoutubeLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, *link)
	return nil
}

func (s *InMemoryLinkStore) Remove(userID uint, linkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.links[:0:0]
	for _, l := range s.links {
		if l.UserID == userID && l.ID == linkID {
			continue
		}
		kept = append(kept, l)
	}
	if len(kept) == len(s.links) {
		return domain.ErrNotFound
	}
	s.links = kept
	return nil
}

func (s *InMemoryLinkStore) ListByUser(userID uint) ([]models.YoutubeLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.YoutubeLink
	for _, l := range s.links {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	return out, nil
}

func (s *InMemoryLinkStore) ListContent(page, limit int, sortBy SortOrder) ([]models.ContentItem, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flat := make([]models.ContentItem, 0, len(s.links))
	for _, l := range s.links {
		if l.ID == "" || l.URL == "" {
			continue
		}
		owner := models.ContentOwner{ID: l.UserID}
		if u, err := s.users.GetByID(l.UserID); err == nil {
			owner.Name = u.Name
			owner.ProfilePicture = u.ProfilePicture
		}
		flat = append(flat, models.ContentItem{
			ID:      l.ID,
			URL:     l.URL,
			Title:   l.Title,
			AddedAt: l.AddedAt,
			User:    owner,
		})
	}

	sort.SliceStable(flat, func(i, j int) bool {
		if sortBy == SortOldest {
			return flat[i].AddedAt.Before(flat[j].AddedAt)
		}
		return flat[i].AddedAt.After(flat[j].AddedAt)
	})

	start, end := domain.Slice(len(flat), page, limit)
	return flat[start:end], int64(len(flat)), nil
}
