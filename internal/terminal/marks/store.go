package marks

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DBFileName is the name of the cross-session command-history database,
// kept alongside llm_history.db in the same config directory.
const DBFileName = "command_marks.db"

// Store persists CommandStart marks (the completed command line plus
// its exit code) across sessions, so SearchAll can find a command typed
// in a pane that has since closed. Schema and FTS5 wiring follow the
// same pattern as the LLM history store: a base table with supporting
// indexes, plus a contentless-adjacent FTS5 table created on first use
// (FTS5 has no CREATE VIRTUAL TABLE IF NOT EXISTS, so existence is
// checked against sqlite_master first) kept in sync via triggers.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if absent) the command-marks database in
// configDir.
func NewStore(configDir string) (*Store, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	dbPath := filepath.Join(configDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		project_dir TEXT,
		command_text TEXT NOT NULL,
		exit_code INTEGER,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_commands_session ON commands(session_id);
	CREATE INDEX IF NOT EXISTS idx_commands_time ON commands(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_commands_project ON commands(project_dir);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var tableName string
	err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='commands_fts'").Scan(&tableName)
	if err == sql.ErrNoRows {
		ftsSchema := `
		CREATE VIRTUAL TABLE commands_fts USING fts5(
			command_text,
			content='commands',
			content_rowid='id'
		);

		CREATE TRIGGER IF NOT EXISTS commands_ai AFTER INSERT ON commands BEGIN
			INSERT INTO commands_fts(rowid, command_text) VALUES (NEW.id, NEW.command_text);
		END;

		CREATE TRIGGER IF NOT EXISTS commands_ad AFTER DELETE ON commands BEGIN
			INSERT INTO commands_fts(commands_fts, rowid, command_text) VALUES('delete', OLD.id, OLD.command_text);
		END;

		CREATE TRIGGER IF NOT EXISTS commands_au AFTER UPDATE ON commands BEGIN
			INSERT INTO commands_fts(commands_fts, rowid, command_text) VALUES('delete', OLD.id, OLD.command_text);
			INSERT INTO commands_fts(rowid, command_text) VALUES (NEW.id, NEW.command_text);
		END;
		`
		if _, err := s.db.Exec(ftsSchema); err != nil {
			return fmt.Errorf("failed to create FTS schema: %w", err)
		}
	} else if err != nil {
		return err
	}

	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordCommand persists one completed command for cross-session search.
func (s *Store) RecordCommand(sessionID, projectDir, commandText string, exitCode *int, when time.Time) error {
	var code interface{}
	if exitCode != nil {
		code = *exitCode
	}
	_, err := s.db.Exec(`
		INSERT INTO commands (session_id, project_dir, command_text, exit_code, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		sessionID, projectDir, commandText, code, when.Unix())
	return err
}

// StoredCommand is one row previously recorded by RecordCommand.
type StoredCommand struct {
	SessionID   string
	ProjectDir  string
	CommandText string
	ExitCode    *int
	Timestamp   time.Time
}

// SearchAll runs a full-text search for query across every session's
// recorded commands, optionally scoped to one project directory, most
// relevant first.
func (s *Store) SearchAll(query, projectDir string, limit int) ([]StoredCommand, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows *sql.Rows
	var err error
	if projectDir != "" {
		rows, err = s.db.Query(`
			SELECT c.session_id, c.project_dir, c.command_text, c.exit_code, c.timestamp
			FROM commands c
			JOIN commands_fts fts ON c.id = fts.rowid
			WHERE commands_fts MATCH ? AND c.project_dir = ?
			ORDER BY bm25(commands_fts)
			LIMIT ?`, query, projectDir, limit)
	} else {
		rows, err = s.db.Query(`
			SELECT c.session_id, c.project_dir, c.command_text, c.exit_code, c.timestamp
			FROM commands c
			JOIN commands_fts fts ON c.id = fts.rowid
			WHERE commands_fts MATCH ?
			ORDER BY bm25(commands_fts)
			LIMIT ?`, query, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []StoredCommand
	for rows.Next() {
		var c StoredCommand
		var exitCode sql.NullInt64
		var ts int64
		var projDir sql.NullString
		if err := rows.Scan(&c.SessionID, &projDir, &c.CommandText, &exitCode, &ts); err != nil {
			return nil, err
		}
		if projDir.Valid {
			c.ProjectDir = projDir.String
		}
		if exitCode.Valid {
			code := int(exitCode.Int64)
			c.ExitCode = &code
		}
		c.Timestamp = time.Unix(ts, 0)
		results = append(results, c)
	}
	return results, rows.Err()
}
