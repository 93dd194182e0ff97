package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/timomath/backend/internal/domain/question"
	"github.com/timomath/backend/internal/domain/subject"
)

func (s *SQLiteStore) SaveQuestion(ctx context.Context, q *question.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	var imageRef any
	if q.ImageRef != nil {
		imageRef = *q.ImageRef
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO questions (id, subject, difficulty, text, options, correct_label, image_ref)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            subject = excluded.subject,
            difficulty = excluded.difficulty,
            text = excluded.text,
            options = excluded.options,
            correct_label = excluded.correct_label,
            image_ref = excluded.image_ref`,
		q.ID, string(q.Subject), int(q.Difficulty), q.Text, string(options), q.CorrectLabel, imageRef,
	)
	return err
}

func (s *SQLiteStore) GetQuestionByID(ctx context.Context, id string) (*question.Question, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, subject, difficulty, text, options, correct_label, image_ref FROM questions WHERE id = ?", id)

	q, err := scanQuestion(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SQLiteStore) GetQuestionsBySubject(ctx context.Context, subj subject.Subject, difficulty subject.Difficulty) ([]question.Question, error) {
	query := "SELECT id, subject, difficulty, text, options, correct_label, image_ref FROM questions WHERE subject = ?"
	args := []any{string(subj)}
	if difficulty != 0 {
		query += " AND difficulty = ?"
		args = append(args, int(difficulty))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []question.Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) CountQuestionsBySubject(ctx context.Context) (map[subject.Subject]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT subject, COUNT(*) FROM questions GROUP BY subject")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[subject.Subject]int)
	for rows.Next() {
		var (
			subj string
			n    int
		)
		if err := rows.Scan(&subj, &n); err != nil {
			return nil, err
		}
		counts[subject.Subject(subj)] = n
	}
	return counts, rows.Err()
}

func scanQuestion(scan func(dest ...any) error) (*question.Question, error) {
	var (
		q          question.Question
		subj       string
		difficulty int
		options    string
		imageRef   sql.NullString
	)
	if err := scan(&q.ID, &subj, &difficulty, &q.Text, &options, &q.CorrectLabel, &imageRef); err != nil {
		return nil, err
	}

	q.Subject = subject.Subject(subj)
	q.Difficulty = subject.Difficulty(difficulty)
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return nil, fmt.Errorf("question %s: bad options: %w", q.ID, err)
	}
	if imageRef.Valid {
		ref := imageRef.String
		q.ImageRef = &ref
	}
	return &q, nil
}
