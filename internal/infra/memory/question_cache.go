package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"timed-quiz-service/internal/domain"
)

// QuestionLoader fetches the question list from a backing store.
type QuestionLoader interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionCache caches the question list with TTL to avoid repeated store hits.
// Load failures are never cached.
type QuestionCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	entry *cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

const listKey = "questions"

func NewQuestionCache(loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := c.lookup(c.clock()); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(listKey, func() (interface{}, error) {
		now := c.clock()
		if questions, ok := c.lookup(now); ok {
			return questions, nil
		}

		questions, err := c.loader.ListQuestions(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entry = &cachedQuestions{
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneQuestions(result.([]domain.Question)), nil
}

// Invalidate drops the cached list so the next read goes to the loader.
func (c *QuestionCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
	return nil
}

func (c *QuestionCache) lookup(now time.Time) ([]domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry != nil && c.entry.expiresAt.After(now) {
		return cloneQuestions(c.entry.questions), true
	}
	return nil, false
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func cloneQuestions(in []domain.Question) []domain.Question {
	if in == nil {
		return nil
	}
	out := make([]domain.Question, len(in))
	copy(out, in)
	return out
}
