// Package mongostore persists the portal state in MongoDB.
package mongostore

import (
	"context"
	"errors"
	"strings"
	"time"

	"setshaba-be/models"
	"setshaba-be/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ store.Store = (*Store)(nil)

const (
	opTimeout         = 10 * time.Second
	maxUpdateAttempts = 3
)

type Store struct {
	client        *mongo.Client
	issues        *mongo.Collection
	feedback      *mongo.Collection
	announcements *mongo.Collection
	events        *mongo.Collection
	users         *mongo.Collection
	now           store.Clock
}

// New wraps db. Close disconnects the owning client.
func New(db *mongo.Database, now store.Clock) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		client:        db.Client(),
		issues:        db.Collection("issues"),
		feedback:      db.Collection("feedback"),
		announcements: db.Collection("announcements"),
		events:        db.Collection("events"),
		users:         db.Collection("users"),
		now:           now,
	}
}

// EnsureIndexes creates the unique email index and the listing indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.issues.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "reportedAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "urgency", Value: 1}}},
	})
	return err
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) AddIssue(ctx context.Context, n models.NewIssue) (models.Issue, error) {
	issue, err := store.BuildIssue(n, store.NewID(), s.now())
	if err != nil {
		return models.Issue{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if _, err := s.issues.InsertOne(ctx, issue); err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

// UpdateIssue applies u with an optimistic check on updatedAt, so a concurrent
// edit is re-read and merged instead of overwriting its timeline entries.
func (s *Store) UpdateIssue(ctx context.Context, id string, u models.IssueUpdate) (models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		var issue models.Issue
		if err := s.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue); err != nil {
			return models.Issue{}, notFound(err, store.ErrIssueNotFound)
		}
		readAt := issue.UpdatedAt
		if err := store.ApplyUpdate(&issue, u, s.now()); err != nil {
			return models.Issue{}, err
		}

		res, err := s.issues.ReplaceOne(ctx, bson.M{"_id": id, "updatedAt": readAt}, issue)
		if err != nil {
			return models.Issue{}, err
		}
		if res.MatchedCount == 1 {
			return issue, nil
		}
	}
	return models.Issue{}, store.ErrIssueConflict
}

func (s *Store) GetIssue(ctx context.Context, id string) (models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var issue models.Issue
	if err := s.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue); err != nil {
		return models.Issue{}, notFound(err, store.ErrIssueNotFound)
	}
	return issue, nil
}

func (s *Store) ListIssues(ctx context.Context, f models.IssueFilter) ([]models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Urgency != "" {
		filter["urgency"] = f.Urgency
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	order := -1
	if f.Oldest {
		order = 1
	}

	issues := []models.Issue{}
	sort := bson.D{{Key: "reportedAt", Value: order}, {Key: "_id", Value: order}}
	err := s.findAll(ctx, s.issues, filter, sort, &issues)
	return issues, err
}

func (s *Store) AddFeedback(ctx context.Context, name, message string) (models.Feedback, error) {
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

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if _, err := s.feedback.InsertOne(ctx, fb); err != nil {
		return models.Feedback{}, err
	}
	return fb, nil
}

func (s *Store) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	out := []models.Feedback{}
	err := s.findAll(ctx, s.feedback, bson.M{}, bson.D{{Key: "createdAt", Value: -1}}, &out)
	return out, err
}

func (s *Store) UpdateFeedbackStatus(ctx context.Context, id string, status models.FeedbackStatus) (models.Feedback, error) {
	if _, err := models.ParseFeedbackStatus(string(status)); err != nil {
		return models.Feedback{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var fb models.Feedback
	err := s.feedback.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&fb)
	if err != nil {
		return models.Feedback{}, notFound(err, store.ErrFeedbackNotFound)
	}
	return fb, nil
}

func (s *Store) AddAnnouncement(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Message) == "" {
		return models.Announcement{}, store.ErrMissingFields
	}
	a.ID = store.NewID()
	if a.PostedAt.IsZero() {
		a.PostedAt = s.now()
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if _, err := s.announcements.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

func (s *Store) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	out := []models.Announcement{}
	err := s.findAll(ctx, s.announcements, bson.M{}, bson.D{{Key: "postedAt", Value: -1}}, &out)
	return out, err
}

func (s *Store) AddEvent(ctx context.Context, e models.Event) (models.Event, error) {
	if strings.TrimSpace(e.Title) == "" || e.Date.IsZero() {
		return models.Event{}, store.ErrMissingFields
	}
	e.ID = store.NewID()

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if _, err := s.events.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	out := []models.Event{}
	err := s.findAll(ctx, s.events, bson.M{}, bson.D{{Key: "date", Value: 1}}, &out)
	return out, err
}

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	now := s.now()
	u.ID = store.NewID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt, u.UpdatedAt = now, now

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	count, err := s.users.CountDocuments(ctx, bson.M{"email": u.Email})
	if err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, store.ErrEmailTaken
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, store.ErrEmailTaken
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	if err != nil {
		return models.User{}, notFound(err, store.ErrUserNotFound)
	}
	return u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, notFound(err, store.ErrUserNotFound)
	}
	return u, nil
}

func (s *Store) findAll(ctx context.Context, coll *mongo.Collection, filter any, sort bson.D, out any) error {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sentinel
	}
	return err
}
