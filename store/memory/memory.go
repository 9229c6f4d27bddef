// Package memory keeps the portal state in process memory. It is the default
// backend and resets on restart.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"setshaba-be/models"
	"setshaba-be/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu            sync.RWMutex
	now           store.Clock
	issues        []models.Issue
	feedback      []models.Feedback
	announcements []models.Announcement
	events        []models.Event
	users         map[string]models.User
}

type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(c store.Clock) Option {
	return func(s *Store) { s.now = c }
}

func New(opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		users: make(map[string]models.User),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) AddIssue(_ context.Context, n models.NewIssue) (models.Issue, error) {
	issue, err := store.BuildIssue(n, store.NewID(), s.now())
	if err != nil {
		return models.Issue{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = append(s.issues, issue)
	return issue.Clone(), nil
}

func (s *Store) UpdateIssue(_ context.Context, id string, u models.IssueUpdate) (models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Issue{}, store.ErrIssueNotFound
	}
	if err := store.ApplyUpdate(&s.issues[idx], u, s.now()); err != nil {
		return models.Issue{}, err
	}
	return s.issues[idx].Clone(), nil
}

func (s *Store) GetIssue(_ context.Context, id string) (models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Issue{}, store.ErrIssueNotFound
	}
	return s.issues[idx].Clone(), nil
}

func (s *Store) ListIssues(_ context.Context, f models.IssueFilter) ([]models.Issue, error) {
	s.mu.RLock()
	out := make([]models.Issue, 0, len(s.issues))
	for _, issue := range s.issues {
		if f.Match(issue) {
			out = append(out, issue.Clone())
		}
	}
	s.mu.RUnlock()

	// out is in insertion order, so ties on ReportedAt fall back to it
	if !f.Oldest {
		slices.Reverse(out)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Oldest {
			return out[i].ReportedAt.Before(out[j].ReportedAt)
		}
		return out[i].ReportedAt.After(out[j].ReportedAt)
	})
	return out, nil
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	for i := range s.issues {
		if s.issues[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) AddFeedback(_ context.Context, name, message string) (models.Feedback, error) {
	name, message = strings.TrimSpace(name), strings.TrimSpace(message)
	if name == "" || message == "" {
		return models.Feedback{}, store.ErrMissingFields
	}
	fb := models.Feedback{
		ID:        store.NewID(),
		Name:      name,
		Message:   message,
		Status:    models.InReview,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append([]models.Feedback{fb}, s.feedback...)
	return fb, nil
}

func (s *Store) ListFeedback(context.Context) ([]models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Feedback{}, s.feedback...), nil
}

func (s *Store) UpdateFeedbackStatus(_ context.Context, id string, status models.FeedbackStatus) (models.Feedback, error) {
	if _, err := models.ParseFeedbackStatus(string(status)); err != nil {
		return models.Feedback{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.feedback {
		if s.feedback[i].ID == id {
			s.feedback[i].Status = status
			return s.feedback[i], nil
		}
	}
	return models.Feedback{}, store.ErrFeedbackNotFound
}

func (s *Store) AddAnnouncement(_ context.Context, a models.Announcement) (models.Announcement, error) {
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Message) == "" {
		return models.Announcement{}, store.ErrMissingFields
	}
	a.ID = store.NewID()
	if a.PostedAt.IsZero() {
		a.PostedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcements = append([]models.Announcement{a}, s.announcements...)
	return a, nil
}

func (s *Store) ListAnnouncements(context.Context) ([]models.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Announcement{}, s.announcements...), nil
}

func (s *Store) AddEvent(_ context.Context, e models.Event) (models.Event, error) {
	if strings.TrimSpace(e.Title) == "" || e.Date.IsZero() {
		return models.Event{}, store.ErrMissingFields
	}
	e.ID = store.NewID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	sort.SliceStable(s.events, func(i, j int) bool { return s.events[i].Date.Before(s.events[j].Date) })
	return e, nil
}

func (s *Store) ListEvents(context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Event{}, s.events...), nil
}

func (s *Store) CreateUser(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.users {
		if existing.Email == email {
			return models.User{}, store.ErrEmailTaken
		}
	}
	now := s.now()
	u.ID = store.NewID()
	u.Email = email
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrUserNotFound
}

func (s *Store) FindUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return u, nil
}
