package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/logging"
)

// QuestionLoader fetches the question list from a backing store (e.g., document DB).
type QuestionLoader interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionsKey holds the JSON-encoded question list.
const QuestionsKey = "quiz:questions"

// QuestionCache caches the question list in Redis and falls back to a loader on
// cache miss. Redis failures degrade to loading from the store on every call.
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := c.lookup(ctx); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(QuestionsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := c.lookup(ctx); ok {
			return questions, nil
		}

		questions, err := c.loader.ListQuestions(ctx)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(questions)
		if err == nil {
			err = c.client.Set(ctx, QuestionsKey, payload, c.ttlWithJitter()).Err()
		}
		if err != nil {
			logging.WithContext(ctx).WithError(err).Warn("failed to cache questions")
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate deletes the cached list.
func (c *QuestionCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, QuestionsKey).Err()
}

func (c *QuestionCache) lookup(ctx context.Context) ([]domain.Question, bool) {
	raw, err := c.client.Get(ctx, QuestionsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.WithContext(ctx).WithError(err).Debug("question cache read failed")
		}
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		logging.WithContext(ctx).WithError(err).Warn("discarding corrupt question cache entry")
		return nil, false
	}
	return questions, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
