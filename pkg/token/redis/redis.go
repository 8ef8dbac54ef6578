// Package redis implements token.Store on Redis. Tokens live under
// <prefix>:<token> with a TTL, and each user has a set <prefix>-users:<id>
// indexing its tokens so they can be revoked together. The index root
// differs from the token root, so no token string can name an index key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"storefront/pkg/token"
)

// Store provides a Redis implementation of token.Store.
type Store struct {
	client    *goredis.Client
	tokenRoot string
	indexRoot string
}

// New creates a store namespaced by prefix, e.g. "session:".
func New(client *goredis.Client, prefix string) *Store {
	name := strings.TrimSuffix(prefix, ":")
	return &Store{
		client:    client,
		tokenRoot: name + ":",
		indexRoot: name + "-users:",
	}
}

func (s *Store) key(tok string) string        { return s.tokenRoot + tok }
func (s *Store) userKey(userID string) string { return s.indexRoot + userID }

// Put stores the token and adds it to the user's index.
func (s *Store) Put(ctx context.Context, tok, userID string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	_, err := s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, s.key(tok), userID, ttl)
		p.SAdd(ctx, s.userKey(userID), tok)
		// Tokens in one store share a TTL, so the newest token expires last.
		if ttl > 0 {
			p.Expire(ctx, s.userKey(userID), ttl)
		} else {
			p.Persist(ctx, s.userKey(userID))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put token: %w", err)
	}
	return nil
}

// Get resolves a token.
func (s *Store) Get(ctx context.Context, tok string) (string, error) {
	userID, err := s.client.Get(ctx, s.key(tok)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", token.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return userID, nil
}

// Delete removes a token and its index entry.
func (s *Store) Delete(ctx context.Context, tok string) error {
	userID, err := s.Get(ctx, tok)
	if errors.Is(err, token.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, s.key(tok))
		p.SRem(ctx, s.userKey(userID), tok)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// DeleteUser removes every token indexed for userID.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	toks, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user tokens: %w", err)
	}
	keys := make([]string, 0, len(toks)+1)
	for _, tok := range toks {
		keys = append(keys, s.key(tok))
	}
	keys = append(keys, s.userKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete user tokens: %w", err)
	}
	return nil
}
