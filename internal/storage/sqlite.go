package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"

	"github.com/pixil98/go-cityquest/internal/game"
)

// SQLite constraint result codes (primary key, unique).
const (
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// SQLitePlayerStore keeps player rows in a single sqlite database. Owned
// transports and inventory are JSON-encoded here and nowhere else; the
// domain only ever sees the decoded structures.
type SQLitePlayerStore struct {
	db *sql.DB
}

func OpenSQLitePlayerStore(path string) (*SQLitePlayerStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLitePlayerStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL keeps interactive writes from stalling behind the sweeper batch.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS players (
		id               INTEGER PRIMARY KEY,
		nickname         TEXT NOT NULL UNIQUE,
		level            INTEGER NOT NULL DEFAULT 1,
		health           INTEGER NOT NULL DEFAULT 100,
		money            REAL NOT NULL DEFAULT 1000.0,
		location         TEXT NOT NULL DEFAULT 'LS',
		sub_location     TEXT NOT NULL DEFAULT '',
		transport        TEXT NOT NULL DEFAULT 'foot',
		owned_transports TEXT NOT NULL DEFAULT '["bike","foot"]',
		fuel             REAL NOT NULL DEFAULT 100.0,
		inventory        TEXT NOT NULL DEFAULT '{}',
		experience       INTEGER NOT NULL DEFAULT 0,
		is_afk           INTEGER NOT NULL DEFAULT 0,
		last_active      TEXT NOT NULL
	);`)
	return err
}

func (s *SQLitePlayerStore) Close() error {
	return s.db.Close()
}

func (s *SQLitePlayerStore) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM players WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying player %d: %w", id, err)
	}
	return true, nil
}

func (s *SQLitePlayerStore) Create(ctx context.Context, p *game.Player) error {
	owned, inv, err := encodeCollections(p)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO players (
			id, nickname, level, health, money, location, sub_location,
			transport, owned_transports, fuel, inventory, experience,
			is_afk, last_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Nickname, p.Level, p.Health, p.Money, p.Location,
		p.SubLocation, p.Transport, owned, p.Fuel, inv, p.Experience,
		boolToInt(p.AFK), p.LastActive.UTC().Format(time.RFC3339),
	)
	if isConstraintErr(err) {
		return fmt.Errorf("creating player %d: %w", p.ID, game.ErrNicknameTaken)
	}
	if err != nil {
		return fmt.Errorf("creating player %d: %w", p.ID, err)
	}
	return nil
}

func (s *SQLitePlayerStore) Read(ctx context.Context, id int64) (*game.Player, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reading player %d: %w", id, game.ErrPlayerNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading player %d: %w", id, err)
	}
	return p, nil
}

func (s *SQLitePlayerStore) Update(ctx context.Context, p *game.Player, fields ...Field) error {
	if len(fields) == 0 {
		return nil
	}

	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		val, err := fieldValue(p, f)
		if err != nil {
			return err
		}
		sets = append(sets, fmt.Sprintf("%s = ?", f))
		args = append(args, val)
	}
	args = append(args, p.ID)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE players SET %s WHERE id = ?`, strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return fmt.Errorf("updating player %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating player %d: %w", p.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("updating player %d: %w", p.ID, game.ErrPlayerNotFound)
	}
	return nil
}

func (s *SQLitePlayerStore) ListAll(ctx context.Context) ([]*game.Player, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var players []*game.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("listing players: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	return players, nil
}

const selectColumns = `SELECT
	id, nickname, level, health, money, location, sub_location,
	transport, owned_transports, fuel, inventory, experience,
	is_afk, last_active
FROM players`

type scannable interface {
	Scan(dest ...any) error
}

func scanPlayer(row scannable) (*game.Player, error) {
	var (
		p          game.Player
		owned, inv string
		afk        int
		lastActive string
	)
	err := row.Scan(
		&p.ID, &p.Nickname, &p.Level, &p.Health, &p.Money, &p.Location,
		&p.SubLocation, &p.Transport, &owned, &p.Fuel, &inv, &p.Experience,
		&afk, &lastActive,
	)
	if err != nil {
		return nil, err
	}

	var ownedList []string
	if err := json.Unmarshal([]byte(owned), &ownedList); err != nil {
		return nil, fmt.Errorf("decoding owned transports: %w", err)
	}
	p.OwnedTransports = make(map[string]bool, len(ownedList))
	for _, t := range ownedList {
		p.OwnedTransports[t] = true
	}

	if err := json.Unmarshal([]byte(inv), &p.Inventory); err != nil {
		return nil, fmt.Errorf("decoding inventory: %w", err)
	}

	p.AFK = afk != 0
	p.LastActive, err = time.Parse(time.RFC3339, lastActive)
	if err != nil {
		return nil, fmt.Errorf("decoding last_active: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validating player %d: %w", p.ID, err)
	}
	return &p, nil
}

func fieldValue(p *game.Player, f Field) (any, error) {
	switch f {
	case FieldNickname:
		return p.Nickname, nil
	case FieldLevel:
		return p.Level, nil
	case FieldHealth:
		return p.Health, nil
	case FieldMoney:
		return p.Money, nil
	case FieldLocation:
		return p.Location, nil
	case FieldSubLocation:
		return p.SubLocation, nil
	case FieldTransport:
		return p.Transport, nil
	case FieldOwnedTransports:
		owned, _, err := encodeCollections(p)
		return owned, err
	case FieldFuel:
		return p.Fuel, nil
	case FieldInventory:
		_, inv, err := encodeCollections(p)
		return inv, err
	case FieldExperience:
		return p.Experience, nil
	case FieldAFK:
		return boolToInt(p.AFK), nil
	case FieldLastActive:
		return p.LastActive.UTC().Format(time.RFC3339), nil
	default:
		return nil, fmt.Errorf("unknown player field %q", f)
	}
}

func encodeCollections(p *game.Player) (owned string, inv string, err error) {
	ownedList := make([]string, 0, len(p.OwnedTransports))
	for t := range p.OwnedTransports {
		ownedList = append(ownedList, t)
	}
	sort.Strings(ownedList)

	ownedData, err := json.Marshal(ownedList)
	if err != nil {
		return "", "", fmt.Errorf("encoding owned transports: %w", err)
	}
	invData, err := json.Marshal(p.Inventory)
	if err != nil {
		return "", "", fmt.Errorf("encoding inventory: %w", err)
	}
	return string(ownedData), string(invData), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isConstraintErr(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqliteConstraintUnique || se.Code() == sqliteConstraintPrimaryKey
}
