package repositories

import (
	"context"
	"fmt"
	"time"

	"tokopos/internal/models"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	store *MemoryStore
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.store.write(ctx, func(t *memoryTables) error {
		for _, u := range t.users {
			if u.Username == user.Username || u.Email == user.Email {
				return fmt.Errorf("user %s: %w", user.Username, models.ErrAlreadyExists)
			}
		}
		t.nextUser++
		now := time.Now()
		user.ID = t.nextUser
		user.CreatedAt = now
		user.UpdatedAt = now
		stored := *user
		stored.Password = ""
		t.users[user.ID] = stored
		return nil
	})
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(username, func(u models.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(email, func(u models.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.find(id, func(u models.User) bool { return u.ID == id })
}

func (r *MemoryUserRepository) find(key interface{}, match func(models.User) bool) (*models.User, error) {
	var found *models.User
	_ = r.store.read(func(t *memoryTables) error {
		for _, id := range sortedIDs(t.users) {
			if u := t.users[id]; match(u) && !u.DeletedAt.Valid {
				found = &u
				return nil
			}
		}
		return nil
	})
	if found == nil {
		return nil, fmt.Errorf("user %v: %w", key, models.ErrNotFound)
	}
	return found, nil
}
