package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Membership is the cached outcome of resolving a user in a company.
// Member is false when the user has no active membership there, so
// negative lookups are cached too.
type Membership struct {
	Member      bool   `json:"member"`
	AccessLevel string `json:"access_level,omitempty"`
}

// MembershipCache memoises membership lookups of the principal resolver.
type MembershipCache interface {
	Get(ctx context.Context, userID, companyID uuid.UUID) (Membership, bool, error)
	Set(ctx context.Context, userID, companyID uuid.UUID, m Membership) error
	Invalidate(ctx context.Context, userID, companyID uuid.UUID) error
}

// RedisMembershipCache shares memberships between server instances.
type RedisMembershipCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

func NewRedisMembershipCache(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisMembershipCache {
	return &RedisMembershipCache{
		client:    client,
		keyPrefix: keyPrefix + "membership:",
		ttl:       ttl,
	}
}

func (c *RedisMembershipCache) key(userID, companyID uuid.UUID) string {
	return c.keyPrefix + userID.String() + ":" + companyID.String()
}

func (c *RedisMembershipCache) Get(ctx context.Context, userID, companyID uuid.UUID) (Membership, bool, error) {
	raw, err := c.client.Get(ctx, c.key(userID, companyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Membership{}, false, nil
	}
	if err != nil {
		return Membership{}, false, fmt.Errorf("failed to read membership cache: %w", err)
	}
	var m Membership
	if err := json.Unmarshal(raw, &m); err != nil {
		return Membership{}, false, nil
	}
	return m, true, nil
}

func (c *RedisMembershipCache) Set(ctx context.Context, userID, companyID uuid.UUID, m Membership) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(userID, companyID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write membership cache: %w", err)
	}
	return nil
}

func (c *RedisMembershipCache) Invalidate(ctx context.Context, userID, companyID uuid.UUID) error {
	return c.client.Del(ctx, c.key(userID, companyID)).Err()
}

var _ MembershipCache = (*RedisMembershipCache)(nil)

type memoryEntry struct {
	m       Membership
	expires time.Time
}

// InMemoryMembershipCache keeps memberships in process memory.
type InMemoryMembershipCache struct {
	mu      sync.Mutex
	entries map[[2]uuid.UUID]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewInMemoryMembershipCache(ttl time.Duration) *InMemoryMembershipCache {
	return &InMemoryMembershipCache{
		entries: make(map[[2]uuid.UUID]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *InMemoryMembershipCache) Get(_ context.Context, userID, companyID uuid.UUID) (Membership, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := [2]uuid.UUID{userID, companyID}
	e, ok := c.entries[key]
	if !ok {
		return Membership{}, false, nil
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return Membership{}, false, nil
	}
	return e.m, true, nil
}

func (c *InMemoryMembershipCache) Set(_ context.Context, userID, companyID uuid.UUID, m Membership) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[[2]uuid.UUID{userID, companyID}] = memoryEntry{m: m, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *InMemoryMembershipCache) Invalidate(_ context.Context, userID, companyID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, [2]uuid.UUID{userID, companyID})
	return nil
}

var _ MembershipCache = (*InMemoryMembershipCache)(nil)
