package kernel

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/lib/pq"  // registers "postgres"
	_ "modernc.org/sqlite" // registers "sqlite"

	"nockchain/errors"
	"nockchain/log"
)

// keepCheckpoints is the number of rows a SQLStore retains.
const keepCheckpoints = 2

type dialect struct {
	create string
	insert string
	prune  string
}

var dialects = map[string]dialect{
	"postgres": {
		create: `CREATE TABLE IF NOT EXISTS nock_checkpoints (
			event BIGINT PRIMARY KEY,
			data  BYTEA NOT NULL
		)`,
		insert: `INSERT INTO nock_checkpoints (event, data) VALUES ($1, $2)
			ON CONFLICT (event) DO UPDATE SET data = excluded.data`,
		prune: `DELETE FROM nock_checkpoints WHERE event NOT IN
			(SELECT event FROM nock_checkpoints ORDER BY event DESC LIMIT $1)`,
	},
	"sqlite": {
		create: `CREATE TABLE IF NOT EXISTS nock_checkpoints (
			event INTEGER PRIMARY KEY,
			data  BLOB NOT NULL
		)`,
		insert: `INSERT INTO nock_checkpoints (event, data) VALUES (?, ?)
			ON CONFLICT (event) DO UPDATE SET data = excluded.data`,
		prune: `DELETE FROM nock_checkpoints WHERE event NOT IN
			(SELECT event FROM nock_checkpoints ORDER BY event DESC LIMIT ?)`,
	},
}

const latestQuery = `SELECT data FROM nock_checkpoints ORDER BY event DESC`

// SQLStore keeps checkpoints in a SQL database,
// Postgres or SQLite.
type SQLStore struct {
	db *sql.DB
	d  dialect
}

// OpenSQLStore opens the database named by url. URLs beginning with
// postgres:// or postgresql:// select Postgres; anything else is
// taken as a SQLite data source, with an optional sqlite:// prefix.
func OpenSQLStore(ctx context.Context, url string) (*SQLStore, error) {
	driver, dsn := "sqlite", strings.TrimPrefix(url, "sqlite://")
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		driver, dsn = "postgres", url
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open ", driver)
	}
	s, err := NewSQLStore(ctx, db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore returns a store using db, which was opened with the
// named driver, and creates its table if needed.
func NewSQLStore(ctx context.Context, db *sql.DB, driver string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, errors.WithDetailf(ErrDriver, "%q", driver)
	}
	if _, err := db.ExecContext(ctx, d.create); err != nil {
		return nil, errors.Wrap(err, "create checkpoint table")
	}
	return &SQLStore{db: db, d: d}, nil
}

// DB returns the underlying database.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLStore) Close() error { return s.db.Close() }

// Save inserts cp and removes all but the newest checkpoints,
// in one transaction.
func (s *SQLStore) Save(ctx context.Context, cp *Checkpoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, s.d.insert, int64(cp.Event), cp.Encode()); err != nil {
		return errors.Wrap(err, "insert checkpoint")
	}
	if _, err := tx.ExecContext(ctx, s.d.prune, keepCheckpoints); err != nil {
		return errors.Wrap(err, "prune checkpoints")
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	log.Printkv(ctx, "saved", "checkpoint", "event", cp.Event)
	return nil
}

// Latest returns the newest checkpoint that decodes. Invalid rows
// are logged and skipped.
func (s *SQLStore) Latest(ctx context.Context) (*Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx, latestQuery)
	if err != nil {
		return nil, errors.Wrap(err, "query checkpoints")
	}
	defer rows.Close()
	invalid := 0
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, errors.Wrap(err, "scan checkpoint")
		}
		cp, err := DecodeCheckpoint(b)
		if err != nil {
			invalid++
			log.Error(ctx, err)
			continue
		}
		return cp, nil
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err)
	}
	if invalid > 0 {
		return nil, errors.WithDetail(ErrBadCheckpoint, "no valid checkpoint")
	}
	return nil, ErrNoCheckpoint
}
