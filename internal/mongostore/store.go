// Package mongostore is the MongoDB implementation of profile.Store.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
	"github.com/MikeSquared-Agency/buddy/internal/policy"
	"github.com/MikeSquared-Agency/buddy/internal/profile"
	"github.com/MikeSquared-Agency/buddy/internal/traits"
)

const (
	usersCollection        = "users"
	memoriesCollection     = "memories"
	interactionsCollection = "conversations"
)

var _ profile.Store = (*Store)(nil)

type Store struct {
	client       *mongo.Client
	users        *mongo.Collection
	memories     *mongo.Collection
	interactions *mongo.Collection
}

// New connects to uri. The database named in the URI path wins over
// database.
func New(ctx context.Context, uri, database string) (*Store, error) {
	database, err := databaseName(uri, database)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("buddy"))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	return &Store{
		client:       client,
		users:        db.Collection(usersCollection),
		memories:     db.Collection(memoriesCollection),
		interactions: db.Collection(interactionsCollection),
	}, nil
}

func databaseName(uri, fallback string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongo uri: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return fallback, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the lookup indexes. It is safe to call repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("index users: %w", err)
	}
	if _, err := s.memories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
	}); err != nil {
		return fmt.Errorf("index memories: %w", err)
	}
	if _, err := s.interactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("index conversations: %w", err)
	}
	return nil
}

type userDoc struct {
	UserID             string            `bson:"user_id"`
	LearnedPatterns    []string          `bson:"learned_patterns"`
	InteractionCount   int               `bson:"interaction_count"`
	Preferences        map[string]string `bson:"preferences"`
	CommunicationStyle string            `bson:"communication_style"`
	EmotionalBaseline  string            `bson:"emotional_baseline"`
	CreatedAt          time.Time         `bson:"created_at"`
	LastInteraction    time.Time         `bson:"last_interaction"`
}

type signalsDoc struct {
	PrimaryEmotion string `bson:"primary_emotion"`
	Intensity      int    `bson:"intensity"`
	UserNeed       string `bson:"user_need"`
	Relationship   string `bson:"relationship"`
	ConflictRisk   string `bson:"conflict_risk"`
}

type memoryDoc struct {
	ID          string     `bson:"_id"`
	UserID      string     `bson:"user_id"`
	Timestamp   time.Time  `bson:"timestamp"`
	Signals     signalsDoc `bson:"social_signals"`
	Mode        string     `bson:"mode"`
	HumorLevel  int        `bson:"humor_level"`
	TraitsAdded []string   `bson:"traits_added"`
}

type interactionDoc struct {
	ID        string         `bson:"_id"`
	UserID    string         `bson:"user_id"`
	Timestamp time.Time      `bson:"timestamp"`
	Scenario  string         `bson:"scenario"`
	Emotion   string         `bson:"emotion"`
	Mode      string         `bson:"mode"`
	Metadata  map[string]any `bson:"metadata,omitempty"`
}

func (s *Store) FindProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, profile.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &profile.Profile{
		UserID:             doc.UserID,
		LearnedPatterns:    sortedTraits(doc.LearnedPatterns),
		InteractionCount:   doc.InteractionCount,
		Preferences:        doc.Preferences,
		CommunicationStyle: doc.CommunicationStyle,
		EmotionalBaseline:  doc.EmotionalBaseline,
		CreatedAt:          doc.CreatedAt,
		LastInteraction:    doc.LastInteraction,
	}, nil
}

func (s *Store) CreateProfile(ctx context.Context, p profile.Profile) error {
	doc := userDoc{
		UserID:             p.UserID,
		LearnedPatterns:    fromTraits(p.LearnedPatterns),
		InteractionCount:   p.InteractionCount,
		Preferences:        p.Preferences,
		CommunicationStyle: p.CommunicationStyle,
		EmotionalBaseline:  p.EmotionalBaseline,
		CreatedAt:          p.CreatedAt,
		LastInteraction:    p.LastInteraction,
	}
	_, err := s.users.UpdateOne(ctx,
		bson.M{"user_id": p.UserID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *Store) RecordVisit(ctx context.Context, userID string, at time.Time) error {
	return s.updateUser(ctx, userID, bson.M{
		"$inc": bson.M{"interaction_count": 1},
		"$set": bson.M{"last_interaction": at},
	})
}

func (s *Store) AddTraits(ctx context.Context, userID string, ts []traits.Trait) error {
	return s.updateUser(ctx, userID, bson.M{
		"$addToSet": bson.M{"learned_patterns": bson.M{"$each": fromTraits(ts)}},
	})
}

func (s *Store) UpdatePreferences(ctx context.Context, userID string, prefs map[string]string) error {
	return s.updateUser(ctx, userID, bson.M{"$set": bson.M{"preferences": prefs}})
}

func (s *Store) updateUser(ctx context.Context, userID string, update bson.M) error {
	res, err := s.users.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (s *Store) AppendTraitEvent(ctx context.Context, ev profile.TraitEvent) error {
	doc := memoryDoc{
		ID:        ev.ID.String(),
		UserID:    ev.UserID,
		Timestamp: ev.Timestamp,
		Signals: signalsDoc{
			PrimaryEmotion: string(ev.Signals.PrimaryEmotion),
			Intensity:      ev.Signals.Intensity,
			UserNeed:       string(ev.Signals.UserNeed),
			Relationship:   string(ev.Signals.Relationship),
			ConflictRisk:   string(ev.Signals.ConflictRisk),
		},
		Mode:        string(ev.Mode),
		HumorLevel:  ev.HumorLevel,
		TraitsAdded: fromTraits(ev.Traits),
	}
	if _, err := s.memories.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert trait event: %w", err)
	}
	return nil
}

func (s *Store) RecentTraitEvents(ctx context.Context, userID string, limit int) ([]profile.TraitEvent, error) {
	cur, err := s.memories.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("find trait events: %w", err)
	}

	var docs []memoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode trait events: %w", err)
	}

	events := make([]profile.TraitEvent, 0, len(docs))
	for _, d := range docs {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, fmt.Errorf("trait event id %q: %w", d.ID, err)
		}
		events = append(events, profile.TraitEvent{
			ID:        id,
			UserID:    d.UserID,
			Timestamp: d.Timestamp,
			Signals: extractor.Signals{
				PrimaryEmotion: extractor.Emotion(d.Signals.PrimaryEmotion),
				Intensity:      d.Signals.Intensity,
				UserNeed:       extractor.Need(d.Signals.UserNeed),
				Relationship:   extractor.Relationship(d.Signals.Relationship),
				ConflictRisk:   extractor.Risk(d.Signals.ConflictRisk),
			},
			Mode:       policy.Mode(d.Mode),
			HumorLevel: d.HumorLevel,
			Traits:     toTraits(d.TraitsAdded),
		})
	}
	return events, nil
}

func (s *Store) InsertInteraction(ctx context.Context, in profile.Interaction) error {
	doc := interactionDoc{
		ID:        in.ID.String(),
		UserID:    in.UserID,
		Timestamp: in.Timestamp,
		Scenario:  in.Scenario,
		Emotion:   in.Emotion,
		Mode:      in.Mode,
		Metadata:  in.Metadata,
	}
	if _, err := s.interactions.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

func (s *Store) CountInteractionsBy(ctx context.Context, userID, field string) ([]profile.FieldCount, error) {
	if !profile.ValidField(field) {
		return nil, fmt.Errorf("%w: %q", profile.ErrUnknownField, field)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cur, err := s.interactions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate interactions by %s: %w", field, err)
	}

	var rows []struct {
		Value string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode interaction counts: %w", err)
	}

	counts := make([]profile.FieldCount, len(rows))
	for i, r := range rows {
		counts[i] = profile.FieldCount{Value: r.Value, Count: r.Count}
	}
	return counts, nil
}

func toTraits(ss []string) []traits.Trait {
	out := make([]traits.Trait, len(ss))
	for i, s := range ss {
		out[i] = traits.Trait(s)
	}
	return out
}

// sortedTraits orders learned patterns, which $addToSet leaves in insertion
// order.
func sortedTraits(ss []string) []traits.Trait {
	out := toTraits(ss)
	slices.Sort(out)
	return out
}

func fromTraits(ts []traits.Trait) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
