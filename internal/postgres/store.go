package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftpay/autodonate/internal/docstore"
)

var _ docstore.Store = (*Store)(nil)

// Store implements docstore.Store over the documents table. Equality filters
// compile to JSONB containment so the GIN index applies; updates merge the
// set fields into the document in a single UPDATE statement, which makes
// FindOneAndUpdate atomic without any in-process locking.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store that uses the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Insert stores doc in the collection under a fresh UUID and returns it.
func (s *Store) Insert(ctx context.Context, collection string, doc any) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "marshal document")
	}

	id := uuid.New().String()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (id, collection, doc) VALUES ($1, $2, $3)`,
		id, collection, body,
	)
	if err != nil {
		return "", errors.Wrapf(err, "insert into %q", collection)
	}
	return id, nil
}

// Find returns matching documents in insertion order.
func (s *Store) Find(ctx context.Context, collection string, filter docstore.Filter, limit int) ([]docstore.Doc, error) {
	where, args := buildWhere(collection, filter)
	query := `SELECT id, doc FROM documents WHERE ` + where + ` ORDER BY seq`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "find in %q", collection)
	}

	docs, err := pgx.CollectRows(rows, scanDoc)
	if err != nil {
		return nil, errors.Wrapf(err, "find in %q", collection)
	}
	return docs, nil
}

// FindOne returns the first matching document or docstore.ErrNotFound.
func (s *Store) FindOne(ctx context.Context, collection string, filter docstore.Filter) (*docstore.Doc, error) {
	where, args := buildWhere(collection, filter)
	rows, err := s.pool.Query(ctx,
		`SELECT id, doc FROM documents WHERE `+where+` ORDER BY seq LIMIT 1`,
		args...,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "find one in %q", collection)
	}

	doc, err := pgx.CollectExactlyOneRow(rows, scanDoc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, errors.Wrapf(err, "find one in %q", collection)
	}
	return &doc, nil
}

// FindOneAndUpdate merges set into the first matching document and returns
// the updated document. The whole read-modify-write is one statement, so
// concurrent callers serialize on the row inside PostgreSQL.
func (s *Store) FindOneAndUpdate(ctx context.Context, collection string, filter docstore.Filter, set docstore.Fields) (*docstore.Doc, error) {
	patch, err := json.Marshal(set)
	if err != nil {
		return nil, errors.Wrap(err, "marshal update")
	}

	where, args := buildWhere(collection, filter)
	args = append(args, patch)
	query := fmt.Sprintf(`
		UPDATE documents SET doc = doc || $%d::jsonb
		WHERE ctid = (
			SELECT ctid FROM documents WHERE %s ORDER BY seq LIMIT 1 FOR UPDATE
		)
		RETURNING id, doc`, len(args), where)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "update in %q", collection)
	}

	doc, err := pgx.CollectExactlyOneRow(rows, scanDoc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, errors.Wrapf(err, "update in %q", collection)
	}
	return &doc, nil
}

// Count returns the number of documents matching filter.
func (s *Store) Count(ctx context.Context, collection string, filter docstore.Filter) (int64, error) {
	where, args := buildWhere(collection, filter)

	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE `+where, args...,
	).Scan(&n)
	if err != nil {
		return 0, errors.Wrapf(err, "count in %q", collection)
	}
	return n, nil
}

// buildWhere compiles a filter into a WHERE clause. The reserved IDField key
// matches the id column; remaining keys become one JSONB containment check.
func buildWhere(collection string, filter docstore.Filter) (string, []any) {
	conds := []string{"collection = $1"}
	args := []any{collection}

	body := make(map[string]any)
	for k, v := range filter {
		if k == docstore.IDField {
			args = append(args, v)
			conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
			continue
		}
		body[k] = v
	}
	if len(body) > 0 {
		patch, _ := json.Marshal(body)
		args = append(args, patch)
		conds = append(conds, fmt.Sprintf("doc @> $%d::jsonb", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

func scanDoc(row pgx.CollectableRow) (docstore.Doc, error) {
	var d docstore.Doc
	err := row.Scan(&d.ID, &d.Data)
	return d, err
}
