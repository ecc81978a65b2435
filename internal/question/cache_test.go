package question

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBank struct {
	questions []Question
	err       error
	calls     int
}

func (s *stubBank) AllQuestions(ctx context.Context) ([]Question, error) {
	s.calls++
	return s.questions, s.err
}

func newCacheTest(t *testing.T, next Bank) (*miniredis.Miniredis, *CachedBank) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewCachedBank(next, client, time.Minute)
}

func TestCachedBankMissLoadsSourceAndSetsKey(t *testing.T) {
	source := &stubBank{questions: testBank(4)}
	mr, cache := newCacheTest(t, source)

	questions, err := cache.AllQuestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 4)
	assert.Equal(t, 1, source.calls)
	assert.True(t, mr.Exists("trivia:questionbank"))
}

func TestCachedBankHitSkipsSource(t *testing.T) {
	source := &stubBank{questions: testBank(4)}
	mr, cache := newCacheTest(t, source)

	cached, err := json.Marshal(testBank(2))
	require.NoError(t, err)
	require.NoError(t, mr.Set("trivia:questionbank", string(cached)))

	questions, err := cache.AllQuestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 2)
	assert.Equal(t, 0, source.calls, "source must not be consulted on a hit")
}

func TestCachedBankCorruptEntryFallsThrough(t *testing.T) {
	source := &stubBank{questions: testBank(3)}
	mr, cache := newCacheTest(t, source)

	require.NoError(t, mr.Set("trivia:questionbank", "not-json"))

	questions, err := cache.AllQuestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 3)
	assert.Equal(t, 1, source.calls)
}

func TestCachedBankSourceErrorPropagates(t *testing.T) {
	source := &stubBank{err: errors.New("db down")}
	_, cache := newCacheTest(t, source)

	_, err := cache.AllQuestions(context.Background())
	assert.Error(t, err)
}
