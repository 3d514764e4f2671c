// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// identPattern restricts collection and field names to safe SQL identifiers.
// Names are interpolated into queries (JSONB path operators cannot take
// placeholders for keys), so anything else is rejected outright.
var identPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// PostgresStore implements [Store] over JSONB tables, one table per
// collection: (id TEXT PRIMARY KEY, doc JSONB NOT NULL, timestamps).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Collection returns the named collection. The name must be a valid
// identifier matching a migrated table; an invalid name panics because it
// is always a programming error, never input.
func (store *PostgresStore) Collection(name string) Collection {
	if !identPattern.MatchString(name) {
		panic(fmt.Sprintf("docstore: invalid collection name %q", name))
	}
	return &postgresCollection{pool: store.pool, name: name}
}

// Commit applies the writes in one transaction via a pipelined batch.
func (store *PostgresStore) Commit(ctx context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	if len(writes) > MaxBatchOps {
		return fmt.Errorf("docstore: commit of %d writes exceeds the %d-op limit", len(writes), MaxBatchOps)
	}

	batch := &pgx.Batch{}
	for _, write := range writes {
		if !identPattern.MatchString(write.Collection) {
			return fmt.Errorf("docstore: invalid collection name %q in batch", write.Collection)
		}

		switch write.Kind {
		case WriteSet:
			query := fmt.Sprintf(`
				INSERT INTO %s (id, doc) VALUES ($1, $2)
				ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
				write.Collection)
			batch.Queue(query, write.ID, write.Data)
		case WriteDelete:
			query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, write.Collection)
			batch.Queue(query, write.ID)
		default:
			return fmt.Errorf("docstore: unknown write kind %d", write.Kind)
		}
	}

	tx, err := store.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("docstore: begin batch transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	results := tx.SendBatch(ctx, batch)
	for range writes {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("docstore: batch write failed: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("docstore: close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("docstore: commit batch transaction: %w", err)
	}

	return nil
}

type postgresCollection struct {
	pool *pgxpool.Pool
	name string
}

func (collection *postgresCollection) Name() string {
	return collection.name
}

func (collection *postgresCollection) Get(ctx context.Context, id string) (Document, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, collection.name)

	var data json.RawMessage
	err := collection.pool.QueryRow(ctx, query, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("docstore: get %s/%s: %w", collection.name, id, err)
	}

	return Document{ID: id, Data: data}, nil
}

func (collection *postgresCollection) All(ctx context.Context) ([]Document, error) {
	query := fmt.Sprintf(`SELECT id, doc FROM %s ORDER BY id`, collection.name)

	rows, err := collection.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection.name, err)
	}
	defer rows.Close()

	return scanDocuments(rows, collection.name)
}

func (collection *postgresCollection) Find(ctx context.Context, docQuery Query) ([]Document, error) {
	if docQuery.OrderField != "" && !identPattern.MatchString(docQuery.OrderField) {
		return nil, fmt.Errorf("docstore: invalid order field %q", docQuery.OrderField)
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, `SELECT id, doc FROM %s`, collection.name)

	args := make([]any, 0, len(docQuery.Predicates))
	conditions := make([]string, 0, len(docQuery.Predicates))

	for _, predicate := range docQuery.Predicates {
		if !identPattern.MatchString(predicate.Field) {
			return nil, fmt.Errorf("docstore: invalid field name %q", predicate.Field)
		}

		args = append(args, predicate.Value)
		placeholder := len(args)

		switch predicate.Op {
		case OpEqual:
			conditions = append(conditions, fmt.Sprintf(`doc->>'%s' = $%d`, predicate.Field, placeholder))
		case OpGreaterEqual:
			conditions = append(conditions, fmt.Sprintf(`doc->>'%s' >= $%d`, predicate.Field, placeholder))
		case OpLessEqual:
			conditions = append(conditions, fmt.Sprintf(`doc->>'%s' <= $%d`, predicate.Field, placeholder))
		case OpArrayContains:
			// JSONB "exists" operator: true when the array holds the string.
			conditions = append(conditions, fmt.Sprintf(`doc->'%s' ? $%d`, predicate.Field, placeholder))
		default:
			return nil, fmt.Errorf("docstore: unknown predicate op %q", predicate.Op)
		}
	}

	if docQuery.StartAfterID != "" {
		args = append(args, docQuery.StartAfterID)
		placeholder := len(args)

		if docQuery.OrderField != "" {
			// Row-value comparison against the cursor document's sort key.
			// An unknown cursor id makes the subquery empty, so the page is
			// empty rather than silently restarting from the top.
			comparison := ">"
			if docQuery.Descending {
				comparison = "<"
			}
			conditions = append(conditions, fmt.Sprintf(
				`(doc->'%[1]s', id) %[2]s (SELECT doc->'%[1]s', id FROM %[3]s WHERE id = $%[4]d)`,
				docQuery.OrderField, comparison, collection.name, placeholder))
		} else {
			conditions = append(conditions, fmt.Sprintf(`id > $%d`, placeholder))
		}
	}

	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}

	if docQuery.OrderField != "" {
		direction := "ASC"
		if docQuery.Descending {
			direction = "DESC"
		}
		// JSONB ordering ranks numbers numerically and strings lexically.
		// The id tiebreak follows the sort direction so the cursor's
		// row-value comparison sees the same total order.
		fmt.Fprintf(&builder, ` ORDER BY doc->'%s' %s, id %s`, docQuery.OrderField, direction, direction)
	} else {
		builder.WriteString(` ORDER BY id ASC`)
	}

	if docQuery.MaxResults > 0 {
		fmt.Fprintf(&builder, ` LIMIT %d`, docQuery.MaxResults)
	}

	rows, err := collection.pool.Query(ctx, builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("docstore: find in %s: %w", collection.name, err)
	}
	defer rows.Close()

	return scanDocuments(rows, collection.name)
}

func (collection *postgresCollection) Create(ctx context.Context, data json.RawMessage) (string, error) {
	// UUIDv7 ids are time-sortable, so "ORDER BY id" doubles as insertion order.
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("docstore: generate id: %w", err)
	}

	if err := collection.Set(ctx, id.String(), data); err != nil {
		return "", err
	}
	return id.String(), nil
}

func (collection *postgresCollection) Set(ctx context.Context, id string, data json.RawMessage) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		collection.name)

	if _, err := collection.pool.Exec(ctx, query, id, data); err != nil {
		return fmt.Errorf("docstore: set %s/%s: %w", collection.name, id, err)
	}
	return nil
}

func (collection *postgresCollection) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, collection.name)

	if _, err := collection.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection.name, id, err)
	}
	return nil
}

func scanDocuments(rows pgx.Rows, collectionName string) ([]Document, error) {
	documents := make([]Document, 0)
	for rows.Next() {
		var document Document
		if err := rows.Scan(&document.ID, &document.Data); err != nil {
			return nil, fmt.Errorf("docstore: scan %s row: %w", collectionName, err)
		}
		documents = append(documents, document)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: iterate %s rows: %w", collectionName, err)
	}
	return documents, nil
}
