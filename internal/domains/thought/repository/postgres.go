package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"happy-thoughts/internal/domains/thought/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

// The seq column (BIGSERIAL) is never read; it breaks created_at ties in
// ORDER BY.
const thoughtColumns = `id, message, tags, hearts, likes, owner_id, revision, created_at, updated_at`

type postgresThoughtRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresThoughtRepository(pool *pgxpool.Pool) ThoughtRepository {
	return &postgresThoughtRepository{pool: pool}
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresThoughtRepository) Insert(ctx context.Context, thought *model.Thought) error {
	query := `
		INSERT INTO thoughts (` + thoughtColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		thought.ID,
		thought.Message,
		pq.Array(nonNil(thought.Tags)),
		thought.Hearts,
		pq.Array(nonNil(thought.Likes)),
		thought.OwnerID,
		thought.Revision,
		thought.CreatedAt,
		thought.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateThought
		}
		return fmt.Errorf("failed to create thought: %w", err)
	}
	return nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresThoughtRepository) FindByID(ctx context.Context, id string) (*model.Thought, error) {
	query := `SELECT ` + thoughtColumns + ` FROM thoughts WHERE id = $1`

	thought, err := scanThought(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrThoughtNotFound
		}
		return nil, fmt.Errorf("failed to get thought: %w", err)
	}
	return thought, nil
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func (r *postgresThoughtRepository) Update(ctx context.Context, thought *model.Thought) error {
	query := `
		UPDATE thoughts
		SET message = $2, tags = $3, hearts = $4, likes = $5,
		    owner_id = $6, revision = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		thought.ID,
		thought.Message,
		pq.Array(nonNil(thought.Tags)),
		thought.Hearts,
		pq.Array(nonNil(thought.Likes)),
		thought.OwnerID,
		thought.Revision,
		thought.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update thought: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrThoughtNotFound
	}
	return nil
}

func (r *postgresThoughtRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM thoughts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete thought: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrThoughtNotFound
	}
	return nil
}

// =====================================================
// LIST
// =====================================================

func (r *postgresThoughtRepository) FindAll(ctx context.Context, opts FindOptions) ([]*model.Thought, error) {
	where, args := buildWhere(opts.OwnerID, opts.Tag)

	order := "seq ASC"
	if opts.Newest {
		order = "created_at DESC, seq DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM thoughts %s ORDER BY %s`, thoughtColumns, where, order)
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list thoughts: %w", err)
	}
	defer rows.Close()

	thoughts := make([]*model.Thought, 0)
	for rows.Next() {
		thought, err := scanThought(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thought: %w", err)
		}
		thoughts = append(thoughts, thought)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate thoughts: %w", err)
	}
	return thoughts, nil
}

func (r *postgresThoughtRepository) Count(ctx context.Context, opts CountOptions) (int, error) {
	where, args := buildWhere(opts.OwnerID, opts.Tag)

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM thoughts `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count thoughts: %w", err)
	}
	return total, nil
}

func (r *postgresThoughtRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// =====================================================
// HELPERS
// =====================================================

func scanThought(row pgx.Row) (*model.Thought, error) {
	thought := &model.Thought{}
	var tags, likes []string

	err := row.Scan(
		&thought.ID,
		&thought.Message,
		pq.Array(&tags),
		&thought.Hearts,
		pq.Array(&likes),
		&thought.OwnerID,
		&thought.Revision,
		&thought.CreatedAt,
		&thought.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	thought.Tags = tags
	thought.Likes = likes
	return thought, nil
}

func buildWhere(ownerID, tag string) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if ownerID != "" {
		args = append(args, model.NormalizeUserID(ownerID))
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if tag != "" {
		args = append(args, model.NormalizeTag(tag))
		conds = append(conds, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
