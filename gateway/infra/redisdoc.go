package infra

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"rpc-gateway/gateway/domain"
)

// RedisDocumentStore implementa domain.DocumentStore sobre Redis:
// um hash por coleção (campo = id do documento, valor = JSON) e um set com
// o registro de coleções provisionadas, para que "coleção ausente" seja
// observável e o provisionamento seja explícito.
//
// As operações de filtro leem o hash inteiro e filtram no cliente; não há
// transação. Qualquer serialização mais forte pertence ao backend, não a
// esta camada.
type RedisDocumentStore struct {
	rdb *redis.Client

	prefix string
}

type RedisDocOption func(*RedisDocumentStore)

func WithDocPrefix(prefix string) RedisDocOption {
	return func(s *RedisDocumentStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func NewRedisDocumentStore(rdb *redis.Client, opts ...RedisDocOption) *RedisDocumentStore {
	s := &RedisDocumentStore{
		rdb:    rdb,
		prefix: "gateway:docs",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisDocumentStore) collKey(collection string) string {
	return s.prefix + ":coll:" + collection
}

func (s *RedisDocumentStore) registryKey() string {
	return s.prefix + ":collections"
}

func (s *RedisDocumentStore) exists(ctx context.Context, collection string) error {
	ok, err := s.rdb.SIsMember(ctx, s.registryKey(), collection).Result()
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if !ok {
		return fmt.Errorf("%q: %w", collection, domain.ErrCollectionNotFound)
	}
	return nil
}

func (s *RedisDocumentStore) GetAll(ctx context.Context, collection string) ([]domain.Document, error) {
	if err := s.exists(ctx, collection); err != nil {
		return nil, err
	}

	vals, err := s.rdb.HVals(ctx, s.collKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	docs := make([]domain.Document, 0, len(vals))
	for _, v := range vals {
		var d domain.Document
		if err := sonic.UnmarshalString(v, &d); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (s *RedisDocumentStore) Add(ctx context.Context, collection string, doc domain.Document) (domain.AddResult, error) {
	if err := s.exists(ctx, collection); err != nil {
		return domain.AddResult{}, err
	}

	stored := cloneDoc(doc)
	id := uuid.NewString()
	stored["_id"] = id

	raw, err := sonic.MarshalString(stored)
	if err != nil {
		return domain.AddResult{}, fmt.Errorf("encode document: %w", err)
	}
	if err := s.rdb.HSet(ctx, s.collKey(collection), id, raw).Err(); err != nil {
		return domain.AddResult{}, fmt.Errorf("redis: %w", err)
	}
	return domain.AddResult{ID: id}, nil
}

func (s *RedisDocumentStore) UpdateWhere(ctx context.Context, collection string, cond domain.Condition, patch domain.Document) (int64, error) {
	matched, err := s.matching(ctx, collection, cond)
	if err != nil {
		return 0, err
	}
	if len(matched) == 0 {
		return 0, nil
	}

	pipe := s.rdb.Pipeline()
	for id, d := range matched {
		for k, v := range patch {
			if k == "_id" {
				continue
			}
			d[k] = v
		}
		raw, err := sonic.MarshalString(d)
		if err != nil {
			return 0, fmt.Errorf("encode document: %w", err)
		}
		pipe.HSet(ctx, s.collKey(collection), id, raw)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis: %w", err)
	}
	return int64(len(matched)), nil
}

func (s *RedisDocumentStore) RemoveWhere(ctx context.Context, collection string, cond domain.Condition) (int64, error) {
	matched, err := s.matching(ctx, collection, cond)
	if err != nil {
		return 0, err
	}
	if len(matched) == 0 {
		return 0, nil
	}

	fields := make([]string, 0, len(matched))
	for id := range matched {
		fields = append(fields, id)
	}
	if err := s.rdb.HDel(ctx, s.collKey(collection), fields...).Err(); err != nil {
		return 0, fmt.Errorf("redis: %w", err)
	}
	return int64(len(fields)), nil
}

// CreateCollection provisiona a coleção. Idempotente.
func (s *RedisDocumentStore) CreateCollection(ctx context.Context, collection string) error {
	if err := s.rdb.SAdd(ctx, s.registryKey(), collection).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (s *RedisDocumentStore) matching(ctx context.Context, collection string, cond domain.Condition) (map[string]domain.Document, error) {
	if err := s.exists(ctx, collection); err != nil {
		return nil, err
	}

	all, err := s.rdb.HGetAll(ctx, s.collKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	matched := make(map[string]domain.Document)
	for id, raw := range all {
		var d domain.Document
		if err := sonic.UnmarshalString(raw, &d); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		if cond.Matches(d) {
			matched[id] = d
		}
	}
	return matched, nil
}
