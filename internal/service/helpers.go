package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	customError "github.com/prasetyo/school-engine/pkg/errors"
)

// Sequencer hands out monotonic per-kind, per-year sequence numbers.
type Sequencer interface {
	Next(ctx context.Context, kind string, year int) (int64, error)
}

type redisSequencer struct {
	client *redis.Client
}

// NewSequencer backs sequences with an atomic Redis counter so two
// concurrent assignments can never share a number.
func NewSequencer(client *redis.Client) Sequencer {
	return &redisSequencer{client: client}
}

func (s *redisSequencer) Next(ctx context.Context, kind string, year int) (int64, error) {
	seq, err := s.client.Incr(ctx, fmt.Sprintf("seq:%s:%d", kind, year)).Result()
	if err != nil {
		return 0, customError.WrapCacheError(err)
	}
	return seq, nil
}

// Sequence kinds
const (
	seqKindReceipt = "receipt"
	seqKindStudent = "student"
	seqKindTeacher = "teacher"
)

// wrapLookupError maps a missing row to NotFound and everything else to a
// database error.
func wrapLookupError(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapNotFound(entity, id)
	}
	return customError.WrapDatabaseError(err)
}

// isUniqueViolation reports whether err is a postgres unique constraint hit.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
