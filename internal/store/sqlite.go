package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/timomath/backend/internal/domain/lesson"
	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/domain/userprofile"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    difficulty_level TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    subject TEXT NOT NULL,
    difficulty INTEGER NOT NULL,
    text TEXT NOT NULL,
    options TEXT NOT NULL,
    correct_label TEXT NOT NULL,
    image_ref TEXT
);

CREATE INDEX IF NOT EXISTS idx_questions_subject ON questions(subject, difficulty);

CREATE TABLE IF NOT EXISTS lessons (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    subject TEXT NOT NULL,
    difficulty INTEGER NOT NULL,
    status TEXT NOT NULL,
    started_at TEXT NOT NULL,
    completed_at TEXT,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_lessons_user ON lessons(user_id, status);

CREATE TABLE IF NOT EXISTS lesson_questions (
    lesson_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (lesson_id, question_id),
    FOREIGN KEY (lesson_id) REFERENCES lessons(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS responses (
    lesson_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    selected_label TEXT,
    is_correct INTEGER NOT NULL,
    response_time_seconds REAL NOT NULL,
    answered_at TEXT NOT NULL,
    PRIMARY KEY (lesson_id, question_id),
    FOREIGN KEY (lesson_id) REFERENCES lessons(id) ON DELETE CASCADE
);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens (creating if needed) the database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Timestamps are stored as RFC 3339 strings so reads are deterministic
// across drivers.
func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// ============================================================================
// Users
// ============================================================================

func (s *SQLiteStore) SaveUser(ctx context.Context, p *userprofile.Profile) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, difficulty_level, created_at) VALUES (?, ?, ?, ?)",
		p.ID, p.Name, string(p.DifficultyLevel), encodeTime(p.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*userprofile.Profile, error) {
	var (
		p         userprofile.Profile
		level     string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, difficulty_level, created_at FROM users WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &level, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.DifficultyLevel = userprofile.DifficultyLevel(level)
	if p.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, fmt.Errorf("user %s: bad created_at: %w", id, err)
	}

	// Completed lesson ids are derived from the lessons table, ordered by
	// completion time, so the profile stays append-only by construction.
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM lessons WHERE user_id = ? AND status = ? ORDER BY completed_at ASC",
		id, string(lesson.StatusCompleted),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var lessonID string
		if err := rows.Scan(&lessonID); err != nil {
			return nil, err
		}
		p.CompletedLessonIDs = append(p.CompletedLessonIDs, lessonID)
	}
	return &p, rows.Err()
}

func (s *SQLiteStore) UpdateDifficultyLevel(ctx context.Context, userID string, level userprofile.DifficultyLevel) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET difficulty_level = ? WHERE id = ?",
		string(level), userID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================================
// Lessons
// ============================================================================

func (s *SQLiteStore) SaveLesson(ctx context.Context, l *lesson.Lesson) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var completedAt any
	if l.CompletedAt != nil {
		completedAt = encodeTime(*l.CompletedAt)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO lessons (id, user_id, subject, difficulty, status, started_at, completed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET status = excluded.status, completed_at = excluded.completed_at`,
		l.ID, l.UserID, string(l.Subject), int(l.Difficulty), string(l.Status), encodeTime(l.StartedAt), completedAt,
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM lesson_questions WHERE lesson_id = ?", l.ID); err != nil {
		return err
	}
	for i, qid := range l.QuestionIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO lesson_questions (lesson_id, question_id, position) VALUES (?, ?, ?)",
			l.ID, qid, i,
		); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM responses WHERE lesson_id = ?", l.ID); err != nil {
		return err
	}
	for i, r := range l.Responses {
		var selected any
		if r.SelectedLabel != nil {
			selected = *r.SelectedLabel
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO responses (lesson_id, question_id, position, selected_label, is_correct, response_time_seconds, answered_at)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.ID, r.QuestionID, i, selected, r.IsCorrect, r.ResponseTimeSeconds, encodeTime(r.AnsweredAt),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetLesson(ctx context.Context, id string) (*lesson.Lesson, error) {
	l, err := s.scanLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *SQLiteStore) GetLessonsForUser(ctx context.Context, userID string) ([]*lesson.Lesson, error) {
	return s.lessonsByQuery(ctx,
		"SELECT id FROM lessons WHERE user_id = ? ORDER BY started_at DESC", userID)
}

func (s *SQLiteStore) GetCompletedLessons(ctx context.Context, userID string) ([]*lesson.Lesson, error) {
	return s.lessonsByQuery(ctx,
		"SELECT id FROM lessons WHERE user_id = ? AND status = ? ORDER BY completed_at DESC",
		userID, string(lesson.StatusCompleted))
}

func (s *SQLiteStore) lessonsByQuery(ctx context.Context, query string, args ...any) ([]*lesson.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lessons := make([]*lesson.Lesson, 0, len(ids))
	for _, id := range ids {
		l, err := s.scanLesson(ctx, id)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, nil
}

func (s *SQLiteStore) scanLesson(ctx context.Context, id string) (*lesson.Lesson, error) {
	var (
		l           lesson.Lesson
		subj        string
		difficulty  int
		status      string
		startedAt   string
		completedAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, subject, difficulty, status, started_at, completed_at FROM lessons WHERE id = ?", id,
	).Scan(&l.ID, &l.UserID, &subj, &difficulty, &status, &startedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	l.Subject = subject.Subject(subj)
	l.Difficulty = subject.Difficulty(difficulty)
	l.Status = lesson.Status(status)
	if l.StartedAt, err = decodeTime(startedAt); err != nil {
		return nil, fmt.Errorf("lesson %s: bad started_at: %w", id, err)
	}
	if completedAt.Valid {
		t, err := decodeTime(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("lesson %s: bad completed_at: %w", id, err)
		}
		l.CompletedAt = &t
	}

	qrows, err := s.db.QueryContext(ctx,
		"SELECT question_id FROM lesson_questions WHERE lesson_id = ? ORDER BY position", id)
	if err != nil {
		return nil, err
	}
	defer qrows.Close()
	for qrows.Next() {
		var qid string
		if err := qrows.Scan(&qid); err != nil {
			return nil, err
		}
		l.QuestionIDs = append(l.QuestionIDs, qid)
	}
	if err := qrows.Err(); err != nil {
		return nil, err
	}

	rrows, err := s.db.QueryContext(ctx, `
        SELECT question_id, selected_label, is_correct, response_time_seconds, answered_at
        FROM responses WHERE lesson_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rrows.Close()
	for rrows.Next() {
		var (
			r          lesson.ResponseRecord
			selected   sql.NullString
			answeredAt string
		)
		if err := rrows.Scan(&r.QuestionID, &selected, &r.IsCorrect, &r.ResponseTimeSeconds, &answeredAt); err != nil {
			return nil, err
		}
		if selected.Valid {
			label := selected.String
			r.SelectedLabel = &label
		}
		if r.AnsweredAt, err = decodeTime(answeredAt); err != nil {
			return nil, fmt.Errorf("lesson %s: bad answered_at: %w", id, err)
		}
		l.Responses = append(l.Responses, r)
	}
	if err := rrows.Err(); err != nil {
		return nil, err
	}

	return &l, nil
}
