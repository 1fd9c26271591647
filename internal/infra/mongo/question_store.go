package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"timed-quiz-service/internal/domain"
)

// CollectionName is where question documents live.
const CollectionName = "questions"

type questionDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Prompt       string             `bson:"prompt"`
	Options      []string           `bson:"options"`
	CorrectIndex int                `bson:"correctIndex"`
	Explanation  string             `bson:"explanation"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// QuestionStore reads and replaces the question collection.
type QuestionStore struct {
	coll *mongodriver.Collection
	now  func() time.Time
}

func NewQuestionStore(db *mongodriver.Database) *QuestionStore {
	return &QuestionStore{coll: db.Collection(CollectionName), now: time.Now}
}

// ListQuestions returns every question in insertion order.
func (s *QuestionStore) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "__v", Value: 0}})

	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	var docs []questionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	questions := make([]domain.Question, 0, len(docs))
	for _, doc := range docs {
		questions = append(questions, doc.toDomain())
	}
	return questions, nil
}

// ReplaceAll deletes every document, then inserts questions in order.
func (s *QuestionStore) ReplaceAll(ctx context.Context, questions []domain.Question) (int, error) {
	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return 0, fmt.Errorf("delete questions: %w", err)
	}
	if len(questions) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	docs := make([]interface{}, 0, len(questions))
	for _, q := range questions {
		docs = append(docs, newDocument(q, now))
	}
	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert questions: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func newDocument(q domain.Question, now time.Time) questionDocument {
	id, err := primitive.ObjectIDFromHex(q.ID)
	if err != nil {
		id = primitive.NewObjectID()
	}
	return questionDocument{
		ID:           id,
		Prompt:       q.Prompt,
		Options:      append([]string(nil), q.Options...),
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (d questionDocument) toDomain() domain.Question {
	return domain.Question{
		ID:           d.ID.Hex(),
		Prompt:       d.Prompt,
		Options:      d.Options,
		CorrectIndex: d.CorrectIndex,
		Explanation:  d.Explanation,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
