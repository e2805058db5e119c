package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// MySQLStore maps each collection onto a table holding one JSON document per
// row. Equality filters and numeric sorting are evaluated by MySQL's JSON
// functions.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore wraps an open connection pool. The store takes ownership of
// db and closes it in Close.
func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{db: db} }

// EnsureSchema creates the tables backing the named collections.
func (s *MySQLStore) EnsureSchema(ctx context.Context, names ...string) error {
	for _, name := range names {
		if err := validField(name); err != nil {
			return err
		}
		q := "CREATE TABLE IF NOT EXISTS `" + name + "` (" +
			"id VARCHAR(36) NOT NULL PRIMARY KEY, " +
			"doc JSON NOT NULL, " +
			"created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)" +
			") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	}
	return nil
}

// Collection returns the named collection. It panics on a name that is not
// a plain identifier; collection names are compile-time constants.
func (s *MySQLStore) Collection(name string) Collection {
	if err := validField(name); err != nil {
		panic(err)
	}
	return &mysqlCollection{db: s.db, table: "`" + name + "`"}
}

// Close closes the connection pool.
func (s *MySQLStore) Close() error { return s.db.Close() }

type mysqlCollection struct {
	db    *sql.DB
	table string
}

// jsonPath renders the extraction expression for a validated field.
func jsonPath(field string) string {
	return "JSON_UNQUOTE(JSON_EXTRACT(doc, '$." + field + "'))"
}

func buildWhere(filter Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		if k == IDField {
			clauses = append(clauses, "id = ?")
			args = append(args, scalarText(filter[k]))
			continue
		}
		if err := validField(k); err != nil {
			return "", nil, err
		}
		clauses = append(clauses, jsonPath(k)+" = ?")
		args = append(args, scalarText(filter[k]))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func scanDocument(id string, raw []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	if d == nil {
		d = Document{}
	}
	d[IDField] = id
	return d, nil
}

func (c *mysqlCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}
	var (
		id  string
		raw []byte
	)
	q := "SELECT id, doc FROM " + c.table + where + " ORDER BY created_at, id LIMIT 1"
	err = c.db.QueryRowContext(ctx, q, args...).Scan(&id, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, err
	}
	return scanDocument(id, raw)
}

func (c *mysqlCollection) Find(ctx context.Context, filter Filter, opts FindOptions) ([]Document, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}
	order := " ORDER BY created_at, id"
	if opts.SortBy != "" {
		if err := validField(opts.SortBy); err != nil {
			return nil, err
		}
		dir := "ASC"
		if opts.Descending {
			dir = "DESC"
		}
		order = " ORDER BY CAST(JSON_EXTRACT(doc, '$." + opts.SortBy + "') AS DECIMAL(20,4)) " + dir + ", created_at, id"
	}
	q := "SELECT id, doc FROM " + c.table + where + order
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		d, err := scanDocument(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (c *mysqlCollection) InsertOne(ctx context.Context, doc Document) (InsertResult, error) {
	body := clone(doc)
	id := body.ID()
	if id == "" {
		id = uuid.NewString()
	}
	delete(body, IDField)
	raw, err := json.Marshal(body)
	if err != nil {
		return InsertResult{}, err
	}
	_, err = c.db.ExecContext(ctx, "INSERT INTO "+c.table+" (id, doc) VALUES (?, ?)", id, raw)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return InsertResult{}, ErrDuplicateKey
		}
		return InsertResult{}, err
	}
	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *mysqlCollection) UpdateOne(ctx context.Context, filter Filter, patch Patch) (UpdateResult, error) {
	if len(patch) == 0 {
		return UpdateResult{}, ErrEmptyPatch
	}
	keys := make([]string, 0, len(patch))
	for k := range patch {
		if k == IDField {
			return UpdateResult{}, ErrInvalidField
		}
		if err := validField(k); err != nil {
			return UpdateResult{}, err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	where, args, err := buildWhere(filter)
	if err != nil {
		return UpdateResult{}, err
	}
	var id string
	err = c.db.QueryRowContext(ctx, "SELECT id FROM "+c.table+where+" ORDER BY created_at, id LIMIT 1", args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return UpdateResult{Acknowledged: true}, nil
	}
	if err != nil {
		return UpdateResult{}, err
	}

	sets := make([]string, 0, len(keys))
	setArgs := make([]any, 0, len(keys)+1)
	for _, k := range keys {
		v, err := json.Marshal(patch[k])
		if err != nil {
			return UpdateResult{}, fmt.Errorf("encode %s: %w", k, err)
		}
		sets = append(sets, "'$."+k+"', CAST(? AS JSON)")
		setArgs = append(setArgs, string(v))
	}
	setArgs = append(setArgs, id)
	res, err := c.db.ExecContext(ctx,
		"UPDATE "+c.table+" SET doc = JSON_SET(doc, "+strings.Join(sets, ", ")+") WHERE id = ?",
		setArgs...)
	if err != nil {
		return UpdateResult{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: n}, nil
}
