package repositories

import (
	"context"
	"sync"

	"storefront/internal/models"
	"storefront/internal/storage"
)

// UserRepository defines the interface for the known-users collection.
type UserRepository interface {
	GetAll(ctx context.Context) []models.User
	Create(ctx context.Context, user models.User) error
}

// SessionRepository defines the interface for the persisted current session.
type SessionRepository interface {
	Get(ctx context.Context) *models.Session
	Save(ctx context.Context, session models.Session) error
	Clear(ctx context.Context) error
}

// KVUserRepository is a KV implementation of UserRepository.
type KVUserRepository struct {
	kv storage.KV
	mu sync.Mutex
}

// NewKVUserRepository creates a new instance of KVUserRepository.
func NewKVUserRepository(kv storage.KV) *KVUserRepository {
	return &KVUserRepository{kv: kv}
}

// GetAll returns every known user in registration order.
func (r *KVUserRepository) GetAll(ctx context.Context) []models.User {
	return storage.Load(ctx, r.kv, KeyKnownUsers, []models.User{})
}

// Create appends a user. Uniqueness is the caller's concern.
func (r *KVUserRepository) Create(ctx context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := storage.Load(ctx, r.kv, KeyKnownUsers, []models.User{})
	users = append(users, user)
	return storage.Save(ctx, r.kv, KeyKnownUsers, users)
}

// KVSessionRepository is a KV implementation of SessionRepository.
type KVSessionRepository struct {
	kv storage.KV
}

// NewKVSessionRepository creates a new instance of KVSessionRepository.
func NewKVSessionRepository(kv storage.KV) *KVSessionRepository {
	return &KVSessionRepository{kv: kv}
}

// Get returns the persisted session, or nil when there is none.
func (r *KVSessionRepository) Get(ctx context.Context) *models.Session {
	var none *models.Session
	s := storage.Load(ctx, r.kv, KeySession, none)
	if s == nil || s.Identifier == "" {
		return nil
	}
	return s
}

// Save persists session as the current one.
func (r *KVSessionRepository) Save(ctx context.Context, session models.Session) error {
	return storage.Save(ctx, r.kv, KeySession, session)
}

// Clear removes the persisted session.
func (r *KVSessionRepository) Clear(ctx context.Context) error {
	return storage.Remove(ctx, r.kv, KeySession)
}
