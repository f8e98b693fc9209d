package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/server/models"
)

// MemoryRepository keeps credentials in a map. It is used when the server
// runs without a database and by service tests. Records are copied on the
// way in and out so callers cannot mutate stored state.
type MemoryRepository struct {
	mu     sync.RWMutex
	byMail map[string]models.User
	nextID int64
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byMail: make(map[string]models.User),
		now:    time.Now,
	}
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byMail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) Insert(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byMail[user.Email]; ok {
		return nil, common.ErrConflict
	}

	r.nextID++
	stored := *user
	stored.ID = r.nextID
	stored.CreatedAt = r.now()
	r.byMail[stored.Email] = stored

	out := stored
	return &out, nil
}

func (r *MemoryRepository) UpdatePasswordHash(_ context.Context, email string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byMail[email]
	if !ok {
		return common.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.byMail[email] = u
	return nil
}

func (r *MemoryRepository) DeleteByEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byMail[email]; !ok {
		return common.ErrNotFound
	}
	delete(r.byMail, email)
	return nil
}
