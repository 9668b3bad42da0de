package repository

import (
	"context"
	"fmt"

	"happy-thoughts/internal/domains/thought/model"
	"happy-thoughts/internal/infrastructure/filestore"
)

// =====================================================
// FILE REPOSITORY IMPLEMENTATION
// =====================================================

type fileThoughtRepository struct {
	store *filestore.Collection[*model.Thought]
}

// NewFileThoughtRepository opens (or creates) the JSON collection at path.
func NewFileThoughtRepository(path string, opts filestore.Options) (ThoughtRepository, error) {
	store, err := filestore.Open[*model.Thought](path, opts)
	if err != nil {
		return nil, fmt.Errorf("open thoughts file: %w", err)
	}
	return &fileThoughtRepository{store: store}, nil
}

func (r *fileThoughtRepository) Insert(ctx context.Context, thought *model.Thought) error {
	return r.store.Mutate(ctx, func(items []*model.Thought) ([]*model.Thought, error) {
		if indexOf(items, thought.ID) >= 0 {
			return nil, model.ErrDuplicateThought
		}
		return append(items, thought.Clone()), nil
	})
}

func (r *fileThoughtRepository) FindByID(ctx context.Context, id string) (*model.Thought, error) {
	var found *model.Thought
	r.store.Read(func(items []*model.Thought) {
		if i := indexOf(items, id); i >= 0 {
			found = items[i].Clone()
		}
	})
	if found == nil {
		return nil, model.ErrThoughtNotFound
	}
	return found, nil
}

func (r *fileThoughtRepository) Update(ctx context.Context, thought *model.Thought) error {
	return r.store.Mutate(ctx, func(items []*model.Thought) ([]*model.Thought, error) {
		i := indexOf(items, thought.ID)
		if i < 0 {
			return nil, model.ErrThoughtNotFound
		}
		items[i] = thought.Clone()
		return items, nil
	})
}

func (r *fileThoughtRepository) Delete(ctx context.Context, id string) error {
	return r.store.Mutate(ctx, func(items []*model.Thought) ([]*model.Thought, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, model.ErrThoughtNotFound
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

func (r *fileThoughtRepository) FindAll(ctx context.Context, opts FindOptions) ([]*model.Thought, error) {
	var matched []*model.Thought
	r.store.Read(func(items []*model.Thought) {
		matched = filter(items, opts.OwnerID, opts.Tag)
	})

	if opts.Newest {
		// reverse first so equal timestamps come back newest-inserted first
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
		model.SortNewest(matched)
	}

	start, end := model.Window(len(matched), opts.Offset, opts.Limit)
	out := make([]*model.Thought, 0, end-start)
	for _, t := range matched[start:end] {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (r *fileThoughtRepository) Count(ctx context.Context, opts CountOptions) (int, error) {
	var n int
	r.store.Read(func(items []*model.Thought) {
		n = len(filter(items, opts.OwnerID, opts.Tag))
	})
	return n, nil
}

func (r *fileThoughtRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// =====================================================
// HELPERS
// =====================================================

func indexOf(items []*model.Thought, id string) int {
	for i, t := range items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// filter returns the matching records in collection order. The slice is new
// but the records are shared, so callers clone before handing them out.
func filter(items []*model.Thought, ownerID, tag string) []*model.Thought {
	out := make([]*model.Thought, 0, len(items))
	for _, t := range items {
		if ownerID != "" && !t.IsOwnedBy(ownerID) {
			continue
		}
		if tag != "" && !t.HasTag(tag) {
			continue
		}
		out = append(out, t)
	}
	return out
}
