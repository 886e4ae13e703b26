package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"pastry-shop/models"

	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix    = "cart:"
	maxUpdateRetries = 5
	sweepInterval    = time.Minute
)

var ErrCartConflict = errors.New("cart changed concurrently")

// CartMutation changes a cart and returns the version to store. The cart is
// nil when none is stored yet. It may run more than once for one Update.
type CartMutation func(cart *models.Cart) (*models.Cart, error)

// CartStore keeps anonymous carts between requests. Get returns ErrNotFound
// for unknown or expired carts. Update applies a read-modify-write atomically
// and returns the mutation's error unchanged.
type CartStore interface {
	Get(ctx context.Context, id string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Update(ctx context.Context, id string, mutate CartMutation) (*models.Cart, error)
	Delete(ctx context.Context, id string) error
}

type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func (s *RedisCartStore) Get(ctx context.Context, id string) (*models.Cart, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	return decodeCart(id, data)
}

// Save writes the cart and restarts its TTL.
func (s *RedisCartStore) Save(ctx context.Context, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKeyPrefix+cart.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// Update runs mutate under WATCH on the cart key and retries when another
// request wrote the cart in between.
func (s *RedisCartStore) Update(ctx context.Context, id string, mutate CartMutation) (*models.Cart, error) {
	key := cartKeyPrefix + id
	var updated *models.Cart

	txf := func(tx *redis.Tx) error {
		var current *models.Cart
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("redis get cart: %w", err)
		default:
			if current, err = decodeCart(id, data); err != nil {
				return err
			}
		}

		next, err := mutate(current)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = next
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrCartConflict
}

func (s *RedisCartStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}

// MemoryCartStore is used when redis is not available. Carts do not survive
// a restart.
type MemoryCartStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	carts map[string]memoryCart

	nextSweep time.Time
}

type memoryCart struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryCartStore(ttl time.Duration) *MemoryCartStore {
	return &MemoryCartStore{
		ttl:   ttl,
		now:   time.Now,
		carts: make(map[string]memoryCart),
	}
}

func (s *MemoryCartStore) Get(_ context.Context, id string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *MemoryCartStore) getLocked(id string) (*models.Cart, error) {
	entry, ok := s.carts[id]
	if ok && s.expired(entry, s.now()) {
		delete(s.carts, id)
		ok = false
	}
	if !ok {
		return nil, ErrNotFound
	}
	return decodeCart(id, entry.data)
}

// Save stores a serialized copy, so later changes to cart are not visible
// until saved again.
func (s *MemoryCartStore) Save(_ context.Context, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(cart.ID, data)
	return nil
}

// Update holds the store lock for the whole read-modify-write.
func (s *MemoryCartStore) Update(_ context.Context, id string, mutate CartMutation) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.getLocked(id)
	if errors.Is(err, ErrNotFound) {
		current, err = nil, nil
	}
	if err != nil {
		return nil, err
	}

	next, err := mutate(current)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("marshal cart: %w", err)
	}
	s.putLocked(id, data)
	return next, nil
}

// putLocked stores a cart and, at most once per sweep interval, evicts every
// expired cart so abandoned carts do not pile up.
func (s *MemoryCartStore) putLocked(id string, data []byte) {
	now := s.now()
	s.carts[id] = memoryCart{data: data, expiresAt: now.Add(s.ttl)}

	if s.ttl <= 0 || now.Before(s.nextSweep) {
		return
	}
	for key, entry := range s.carts {
		if s.expired(entry, now) {
			delete(s.carts, key)
		}
	}
	s.nextSweep = now.Add(sweepInterval)
}

func (s *MemoryCartStore) expired(entry memoryCart, now time.Time) bool {
	return s.ttl > 0 && now.After(entry.expiresAt)
}

// Len returns the number of carts held, expired or not.
func (s *MemoryCartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

func (s *MemoryCartStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}

func decodeCart(id string, data []byte) (*models.Cart, error) {
	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart %s: %w", id, err)
	}
	return &cart, nil
}
