package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"happy-thoughts/internal/domains/thought/model"
	"happy-thoughts/internal/domains/thought/repository"
	"happy-thoughts/internal/domains/thought/tagging"
	"happy-thoughts/pkg/cache"
	"happy-thoughts/pkg/logger"
	"happy-thoughts/pkg/metrics"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

const tagsCacheKey = "thoughts:tags"

// Options configures the thought service. Zero values fall back to defaults.
type Options struct {
	Bounds       model.MessageBounds
	TagsCacheTTL time.Duration

	// Classify assigns tags; defaults to tagging.Classify
	Classify func(text string) []string
	// Now defaults to time.Now
	Now func() time.Time
}

type thoughtService struct {
	repo     repository.ThoughtRepository
	cache    cache.Cache
	bounds   model.MessageBounds
	cacheTTL time.Duration
	classify func(string) []string
	now      func() time.Time
}

// NewThoughtService wires the service. cache may be nil to disable tag
// caching.
func NewThoughtService(
	repo repository.ThoughtRepository,
	c cache.Cache,
	opts Options,
) ServiceInterface {
	if opts.Bounds.Max == 0 {
		opts.Bounds = model.DefaultMessageBounds()
	}
	if opts.TagsCacheTTL == 0 {
		opts.TagsCacheTTL = 5 * time.Minute
	}
	if opts.Classify == nil {
		opts.Classify = tagging.Classify
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &thoughtService{
		repo:     repo,
		cache:    c,
		bounds:   opts.Bounds,
		cacheTTL: opts.TagsCacheTTL,
		classify: opts.Classify,
		now:      opts.Now,
	}
}

// =====================================================
// CREATE THOUGHT
// =====================================================

func (s *thoughtService) CreateThought(
	ctx context.Context,
	userID string,
	req model.CreateThoughtRequest,
) (*model.Thought, error) {
	// Step 1: Validate message
	message, err := s.bounds.Validate(req.Message)
	if err != nil {
		return nil, model.NewValidationError(err.Error(), err)
	}

	// Step 2: Build entity
	now := s.now().UTC()
	thought := &model.Thought{
		ID:        uuid.New().String(),
		Message:   message,
		Tags:      s.classify(message),
		Hearts:    0,
		Likes:     []string{},
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if owner := model.NormalizeUserID(userID); owner != "" {
		thought.OwnerID = &owner
	}

	// Step 3: Persist
	if err := s.repo.Insert(ctx, thought); err != nil {
		return nil, s.internal("create thought", err)
	}

	s.invalidateTags(ctx)
	metrics.RecordThoughtCreated(thought.IsAnonymous(), thought.Tags)

	logger.Info("Thought created", map[string]interface{}{
		"thought_id": thought.ID,
		"tags":       thought.Tags,
		"anonymous":  thought.IsAnonymous(),
	})

	return thought, nil
}

// =====================================================
// GET THOUGHT
// =====================================================

func (s *thoughtService) GetThought(ctx context.Context, id string) (*model.Thought, error) {
	return s.load(ctx, id)
}

// =====================================================
// LIST THOUGHTS
// =====================================================

func (s *thoughtService) ListThoughts(ctx context.Context, page, limit int) (*model.ThoughtPage, error) {
	return s.paginate(ctx, "", page, limit)
}

func (s *thoughtService) ListUserThoughts(ctx context.Context, userID string, page, limit int) (*model.ThoughtPage, error) {
	if model.NormalizeUserID(userID) == "" {
		return nil, model.NewForbiddenError("Authentication required", model.ErrNotOwner)
	}
	return s.paginate(ctx, userID, page, limit)
}

func (s *thoughtService) paginate(ctx context.Context, ownerID string, page, limit int) (*model.ThoughtPage, error) {
	if err := model.ValidatePage(page, limit); err != nil {
		return nil, model.NewValidationError(err.Error(), err)
	}

	total, err := s.repo.Count(ctx, repository.CountOptions{OwnerID: ownerID})
	if err != nil {
		return nil, s.internal("count thoughts", err)
	}

	items, err := s.repo.FindAll(ctx, repository.FindOptions{
		Newest:  true,
		OwnerID: ownerID,
		Offset:  model.Offset(page, limit),
		Limit:   limit,
	})
	if err != nil {
		return nil, s.internal("list thoughts", err)
	}

	return &model.ThoughtPage{
		Items:      items,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}

// =====================================================
// TRENDING / BY TAG / ALL TAGS
// =====================================================

func (s *thoughtService) TrendingThoughts(ctx context.Context, limit int) ([]*model.Thought, error) {
	all, err := s.repo.FindAll(ctx, repository.FindOptions{})
	if err != nil {
		return nil, s.internal("list thoughts", err)
	}
	return model.Trending(all, limit), nil
}

func (s *thoughtService) ThoughtsByTag(ctx context.Context, tag string) ([]*model.Thought, error) {
	tag = model.NormalizeTag(tag)
	if tag == "" {
		return nil, model.NewValidationError("tag is required", nil)
	}

	thoughts, err := s.repo.FindAll(ctx, repository.FindOptions{Tag: tag})
	if err != nil {
		return nil, s.internal("list thoughts by tag", err)
	}
	return thoughts, nil
}

func (s *thoughtService) AllTags(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		var cached []string
		found, err := s.cache.Get(ctx, tagsCacheKey, &cached)
		if err != nil {
			logger.Warn("Tags cache read failed", map[string]interface{}{"error": err.Error()})
		}
		metrics.RecordCacheLookup(found)
		if found {
			return cached, nil
		}
	}

	all, err := s.repo.FindAll(ctx, repository.FindOptions{})
	if err != nil {
		return nil, s.internal("list thoughts", err)
	}
	tags := model.CollectTags(all)

	if s.cache != nil {
		if err := s.cache.Set(ctx, tagsCacheKey, tags, s.cacheTTL); err != nil {
			logger.Warn("Tags cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return tags, nil
}

func (s *thoughtService) Categories() []string {
	return tagging.Categories()
}

// =====================================================
// LIKE THOUGHT
// =====================================================

func (s *thoughtService) LikeThought(ctx context.Context, id, userID string) (*model.Thought, error) {
	thought, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	action := "anonymous"
	if model.NormalizeUserID(userID) == "" {
		thought.AddHeart()
	} else if thought.ToggleLike(userID) {
		action = "like"
	} else {
		action = "unlike"
	}
	thought.Touch(s.now().UTC())

	if err := s.save(ctx, thought); err != nil {
		return nil, err
	}

	metrics.RecordLike(action)
	return thought, nil
}

// =====================================================
// UPDATE THOUGHT
// =====================================================

func (s *thoughtService) UpdateThought(
	ctx context.Context,
	id, userID string,
	req model.UpdateThoughtRequest,
) (*model.Thought, error) {
	// Step 1: Load and check ownership
	thought, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(thought, userID); err != nil {
		return nil, err
	}

	// Step 2: Validate message
	message, err := s.bounds.Validate(req.Message)
	if err != nil {
		return nil, model.NewValidationError(err.Error(), err)
	}

	// Step 3: Resolve tags
	thought.Message = message
	switch {
	case req.PreserveTags:
		// keep existing tags
	case req.Tags != nil:
		tags := model.NormalizeTags(req.Tags)
		if len(tags) == 0 {
			tags = s.classify(message)
		}
		thought.Tags = tags
	default:
		thought.Tags = s.classify(message)
	}
	if len(thought.Tags) == 0 {
		thought.Tags = s.classify(message)
	}
	thought.Touch(s.now().UTC())

	// Step 4: Persist
	if err := s.save(ctx, thought); err != nil {
		return nil, err
	}

	logger.Info("Thought updated", map[string]interface{}{
		"thought_id": thought.ID,
		"tags":       thought.Tags,
		"revision":   thought.Revision,
	})

	return thought, nil
}

// =====================================================
// DELETE THOUGHT
// =====================================================

func (s *thoughtService) DeleteThought(ctx context.Context, id, userID string) error {
	thought, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwnership(thought, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrThoughtNotFound) {
			return model.NewNotFoundError(id)
		}
		return s.internal("delete thought", err)
	}

	s.invalidateTags(ctx)

	logger.Info("Thought deleted", map[string]interface{}{
		"thought_id": id,
	})
	return nil
}

// =====================================================
// BACKFILL TAGS
// =====================================================

func (s *thoughtService) BackfillTags(ctx context.Context) (int, error) {
	all, err := s.repo.FindAll(ctx, repository.FindOptions{})
	if err != nil {
		return 0, s.internal("list thoughts", err)
	}

	updated := 0
	for _, thought := range model.Untagged(all) {
		if err := ctx.Err(); err != nil {
			return updated, s.internal("backfill tags", err)
		}

		thought.Tags = s.classify(thought.Message)
		thought.Touch(s.now().UTC())

		if err := s.repo.Update(ctx, thought); err != nil {
			// deleted since the scan
			if errors.Is(err, model.ErrThoughtNotFound) {
				continue
			}
			return updated, s.internal("backfill tags", err)
		}
		metrics.RecordTags(thought.Tags)
		updated++
	}

	if updated > 0 {
		s.invalidateTags(ctx)
		metrics.BackfilledThoughts.Add(float64(updated))
	}

	logger.Info("Tag backfill finished", map[string]interface{}{
		"scanned": len(all),
		"updated": updated,
	})
	return updated, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *thoughtService) load(ctx context.Context, id string) (*model.Thought, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, model.NewValidationError("thought id is required", nil)
	}

	thought, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrThoughtNotFound) {
			return nil, model.NewNotFoundError(id)
		}
		return nil, s.internal("get thought", err)
	}
	return thought, nil
}

func (s *thoughtService) save(ctx context.Context, thought *model.Thought) error {
	if err := s.repo.Update(ctx, thought); err != nil {
		if errors.Is(err, model.ErrThoughtNotFound) {
			return model.NewNotFoundError(thought.ID)
		}
		return s.internal("update thought", err)
	}
	s.invalidateTags(ctx)
	return nil
}

func (s *thoughtService) invalidateTags(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, tagsCacheKey); err != nil {
		logger.Warn("Tags cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *thoughtService) internal(op string, err error) error {
	logger.Error("Thought storage failure: "+op, err)
	return model.NewInternalError(op, err)
}

// checkOwnership rejects anonymous thoughts and thoughts owned by someone else.
func checkOwnership(thought *model.Thought, userID string) error {
	if thought.IsAnonymous() {
		return model.NewForbiddenError("Anonymous thoughts cannot be modified", model.ErrAnonymousThought)
	}
	if !thought.IsOwnedBy(userID) {
		return model.NewForbiddenError("You can only modify your own thoughts", model.ErrNotOwner)
	}
	return nil
}
