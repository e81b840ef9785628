package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"path/filepath"
	"strings"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
)

// MemoryPath opens a private in-memory archive, mostly for tests
const MemoryPath = ":memory:"

//go:embed schema.sql
var schema string

// Store persists archived records in SQLite
type Store struct {
	db *sql.DB
}

var _ Repository = (*Store)(nil)

// Open opens the archive at path and applies the schema
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.InvalidArgument("archive path is required")
	}

	dsn := path
	if path != MemoryPath {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite archive")
	}
	// one connection keeps an in-memory database shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to ping sqlite archive")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to apply archive schema")
	}

	return &Store{db: db}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveExpedition(ctx context.Context, input SaveExpeditionInput) (*SaveExpeditionOutput, error) {
	exp := input.Expedition
	if exp == nil || exp.ID == "" {
		return nil, errors.InvalidArgument("expedition is required")
	}
	if exp.IsActive() {
		return nil, errors.FailedPreconditionf("expedition %s is still active", exp.ID)
	}

	payload, err := json.Marshal(exp)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize expedition")
	}

	ended := exp.UpdatedAt
	if exp.EndedAt != nil {
		ended = *exp.EndedAt
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO expeditions (id, player_id, template_id, status, started_at, ended_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status = excluded.status,
		   ended_at = excluded.ended_at,
		   payload = excluded.payload`,
		exp.ID,
		exp.PlayerID,
		exp.TemplateID,
		string(exp.Status),
		exp.StartTime.UTC().UnixMilli(),
		ended.UTC().UnixMilli(),
		payload,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to archive expedition %s", exp.ID)
	}

	return &SaveExpeditionOutput{}, nil
}

func (s *Store) GetExpedition(ctx context.Context, input GetExpeditionInput) (*GetExpeditionOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("expedition ID is required")
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM expeditions WHERE id = ?`, input.ID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("archived expedition %s not found", input.ID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read archived expedition")
	}

	exp, err := restoreExpedition(payload)
	if err != nil {
		return nil, err
	}
	return &GetExpeditionOutput{Expedition: exp}, nil
}

func (s *Store) ListExpeditionsByPlayer(
	ctx context.Context,
	input ListExpeditionsByPlayerInput,
) (*ListExpeditionsByPlayerOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM expeditions WHERE player_id = ? ORDER BY started_at DESC LIMIT ?`,
		input.PlayerID, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list archived expeditions")
	}
	defer func() { _ = rows.Close() }()

	var out []*entities.Expedition
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrapf(err, "failed to scan archived expedition")
		}
		exp, err := restoreExpedition(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to iterate archived expeditions")
	}

	return &ListExpeditionsByPlayerOutput{Expeditions: out}, nil
}

func restoreExpedition(payload []byte) (*entities.Expedition, error) {
	var exp entities.Expedition
	if err := json.Unmarshal(payload, &exp); err != nil {
		return nil, errors.DataLossf("archived expedition payload is corrupt: %v", err)
	}
	return &exp, nil
}

func (s *Store) SaveEncounter(ctx context.Context, input SaveEncounterInput) (*SaveEncounterOutput, error) {
	enc := input.Encounter
	if enc == nil || enc.ID == "" {
		return nil, errors.InvalidArgument("encounter is required")
	}
	if enc.IsActive() || enc.EndedAt == nil {
		return nil, errors.FailedPreconditionf("encounter %s is still active", enc.ID)
	}

	payload, err := json.Marshal(enc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize encounter")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO encounters (id, player_id, expedition_id, animal_id, status, ended_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status = excluded.status,
		   ended_at = excluded.ended_at,
		   payload = excluded.payload`,
		enc.ID,
		enc.PlayerID,
		enc.ExpeditionID,
		enc.AnimalID,
		string(enc.Status),
		enc.EndedAt.UTC().UnixMilli(),
		payload,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to archive encounter %s", enc.ID)
	}

	return &SaveEncounterOutput{}, nil
}

func (s *Store) GetEncounter(ctx context.Context, input GetEncounterInput) (*GetEncounterOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM encounters WHERE id = ?`, input.ID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("archived encounter %s not found", input.ID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read archived encounter")
	}

	var enc entities.Encounter
	if err := json.Unmarshal(payload, &enc); err != nil {
		return nil, errors.DataLossf("archived encounter payload is corrupt: %v", err)
	}
	return &GetEncounterOutput{Encounter: &enc}, nil
}
