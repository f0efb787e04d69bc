package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/threadlight/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
)

// DBFileName is the database file inside the data directory.
const DBFileName = "messages.db"

// Store is a unified SQLite-based storage that provides access to the
// message and attachment store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.threadlight/data/messages.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".threadlight", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)

	// Open database with WAL mode for concurrent readers.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// MessageStore returns a MessageStore interface backed by this store.
func (s *Store) MessageStore() driven.MessageStore {
	return &messageStore{store: s}
}

// AttachmentStore returns an AttachmentStore interface backed by this store.
func (s *Store) AttachmentStore() driven.AttachmentStore {
	return &attachmentStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_messages.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// ==================== Message Store ====================

// messageStore implements driven.MessageStore.
type messageStore struct {
	store *Store
}

var _ driven.MessageStore = (*messageStore)(nil)

// SaveMessage stores or updates a message.
func (s *messageStore) SaveMessage(ctx context.Context, msg *domain.Message) error {
	if msg == nil || msg.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, body, sent_at, is_from_me)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			conversation_id = excluded.conversation_id,
			body = excluded.body,
			sent_at = excluded.sent_at,
			is_from_me = excluded.is_from_me
	`, msg.ID, msg.ConversationID, nullString(msg.Text), unixNano(msg.Timestamp), msg.IsFromMe)
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// GetMessage retrieves a message by ID.
func (s *messageStore) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, body, sent_at, is_from_me
		FROM messages WHERE id = ?
	`, id)

	return scanMessage(row)
}

// ListConversation returns up to limit messages of a conversation, oldest first.
func (s *messageStore) ListConversation(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, conversation_id, body, sent_at, is_from_me
		FROM messages WHERE conversation_id = ?
		ORDER BY sent_at, id
		LIMIT ?
	`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message //nolint:prealloc // size unknown from query
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return msgs, nil
}

// DeleteMessage removes a message and its attachments.
func (s *messageStore) DeleteMessage(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM attachments WHERE message_id = ?", id); err != nil {
		return fmt.Errorf("deleting attachments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Attachment Store ====================

// attachmentStore implements driven.AttachmentStore.
type attachmentStore struct {
	store *Store
}

var _ driven.AttachmentStore = (*attachmentStore)(nil)

// SaveAttachment stores or updates an attachment record.
func (s *attachmentStore) SaveAttachment(ctx context.Context, att *domain.Attachment) error {
	if att == nil || att.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO attachments (id, message_id, path, mime_type, size)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			message_id = excluded.message_id,
			path = excluded.path,
			mime_type = excluded.mime_type,
			size = excluded.size
	`, att.ID, att.MessageID, att.Path, nullString(att.MIMEType), att.Size)
	if err != nil {
		return fmt.Errorf("saving attachment: %w", err)
	}
	return nil
}

// GetAttachment retrieves an attachment by ID.
func (s *attachmentStore) GetAttachment(ctx context.Context, id string) (*domain.Attachment, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, message_id, path, mime_type, size
		FROM attachments WHERE id = ?
	`, id)

	return scanAttachment(row)
}

// ListByMessage returns the attachments of a message ordered by ID.
func (s *attachmentStore) ListByMessage(ctx context.Context, messageID string) ([]domain.Attachment, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, message_id, path, mime_type, size
		FROM attachments WHERE message_id = ?
		ORDER BY id
	`, messageID)
	if err != nil {
		return nil, fmt.Errorf("querying attachments: %w", err)
	}
	defer rows.Close()

	var atts []domain.Attachment //nolint:prealloc // size unknown from query
	for rows.Next() {
		att, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		atts = append(atts, *att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attachments: %w", err)
	}

	return atts, nil
}

// ==================== Helpers ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (*domain.Message, error) {
	var msg domain.Message
	var body sql.NullString
	var sentAt int64

	if err := row.Scan(&msg.ID, &msg.ConversationID, &body, &sentAt, &msg.IsFromMe); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning message: %w", err)
	}

	if body.Valid {
		msg.Text = &body.String
	}
	msg.Timestamp = fromUnixNano(sentAt)

	return &msg, nil
}

func scanAttachment(row scanner) (*domain.Attachment, error) {
	var att domain.Attachment
	var mimeType sql.NullString

	if err := row.Scan(&att.ID, &att.MessageID, &att.Path, &mimeType, &att.Size); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning attachment: %w", err)
	}

	if mimeType.Valid {
		att.MIMEType = &mimeType.String
	}

	return &att, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// unixNano stores the zero time as 0; UnixNano is undefined for it.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
