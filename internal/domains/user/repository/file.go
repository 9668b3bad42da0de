package repository

import (
	"context"
	"fmt"

	user "happy-thoughts/internal/domains/user"
	"happy-thoughts/internal/infrastructure/filestore"
)

// fileRepository keeps users in a JSON file next to the thoughts file
type fileRepository struct {
	store *filestore.Collection[user.User]
}

func NewFileRepository(path string, opts filestore.Options) (user.Repository, error) {
	store, err := filestore.Open[user.User](path, opts)
	if err != nil {
		return nil, fmt.Errorf("open users file: %w", err)
	}
	return &fileRepository{store: store}, nil
}

func (r *fileRepository) Create(ctx context.Context, u *user.User) error {
	return r.store.Mutate(ctx, func(items []user.User) ([]user.User, error) {
		for _, existing := range items {
			if existing.UsernameKey == u.UsernameKey {
				return nil, user.ErrUsernameTaken
			}
		}
		return append(items, *u), nil
	})
}

func (r *fileRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.ID == id })
}

func (r *fileRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	key := user.UsernameKey(username)
	return r.find(func(u *user.User) bool { return u.UsernameKey == key })
}

func (r *fileRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err == user.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fileRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *fileRepository) find(match func(u *user.User) bool) (*user.User, error) {
	var found *user.User
	r.store.Read(func(items []user.User) {
		for i := range items {
			if match(&items[i]) {
				u := items[i]
				found = &u
				return
			}
		}
	})
	if found == nil {
		return nil, user.ErrUserNotFound
	}
	return found, nil
}
