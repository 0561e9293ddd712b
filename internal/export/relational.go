// Package export projects the content document into relational and
// tabular form. Both exports are offline tools; the serving path never
// touches them.
package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nabd-labs/quiz-api/internal/corpus"
)

const relationalSchema = `
CREATE TABLE IF NOT EXISTS categories (
	id          SERIAL PRIMARY KEY,
	arabic_name  TEXT NOT NULL,
	english_name TEXT NOT NULL,
	description TEXT,
	icons       TEXT
);

CREATE TABLE IF NOT EXISTS topics (
	id          SERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL,
	category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS questions (
	id            SERIAL PRIMARY KEY,
	question_text TEXT NOT NULL,
	link          TEXT,
	level         TEXT NOT NULL,
	topic_id      INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS answers (
	id          SERIAL PRIMARY KEY,
	answer_text TEXT NOT NULL,
	is_correct  BOOLEAN NOT NULL,
	question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE
);
`

// RelationalStats summarizes one relational export run.
type RelationalStats struct {
	Categories     int
	Topics         int
	Questions      int
	Answers        int
	SkippedAnswers int
}

// Relational writes the whole document into PostgreSQL in one transaction,
// assigning fresh surrogate keys top-down. An answer with an empty payload
// is skipped and counted, never fatal; every other failure rolls the whole
// export back.
func Relational(ctx context.Context, pool *pgxpool.Pool, doc *corpus.Document) (*RelationalStats, error) {
	if _, err := pool.Exec(ctx, relationalSchema); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stats := &RelationalStats{}
	for i := range doc.MainCategories {
		cat := &doc.MainCategories[i]

		var categoryID int
		err := tx.QueryRow(ctx,
			`INSERT INTO categories (arabic_name, english_name, description, icons)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			cat.ArabicName, cat.EnglishName, cat.Description, cat.Icons,
		).Scan(&categoryID)
		if err != nil {
			return nil, fmt.Errorf("insert category %d: %w", cat.ID, err)
		}
		stats.Categories++

		for j := range cat.Topics {
			topic := &cat.Topics[j]

			var topicID int
			err := tx.QueryRow(ctx,
				`INSERT INTO topics (name, slug, category_id)
				 VALUES ($1, $2, $3)
				 RETURNING id`,
				topic.Name, topic.Slug, categoryID,
			).Scan(&topicID)
			if err != nil {
				return nil, fmt.Errorf("insert topic %s: %w", topic.Slug, err)
			}
			stats.Topics++

			for k, questions := range topic.Levels.Ordered() {
				level := corpus.LevelNames[k]
				if err := insertQuestions(ctx, tx, topicID, level, questions, stats); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing export: %w", err)
	}

	slog.Info("relational export complete",
		"categories", stats.Categories,
		"topics", stats.Topics,
		"questions", stats.Questions,
		"answers", stats.Answers,
		"skipped_answers", stats.SkippedAnswers)
	return stats, nil
}

func insertQuestions(ctx context.Context, tx pgx.Tx, topicID int, level corpus.LevelName, questions []corpus.Question, stats *RelationalStats) error {
	for i := range questions {
		q := &questions[i]

		var questionID int
		err := tx.QueryRow(ctx,
			`INSERT INTO questions (question_text, link, level, topic_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			q.Text, q.Link, string(level), topicID,
		).Scan(&questionID)
		if err != nil {
			return fmt.Errorf("insert question %s/%d: %w", level, q.LocalID, err)
		}
		stats.Questions++

		for _, ans := range q.Answers {
			if ans.Text == "" {
				slog.Warn("skipping answer with empty payload", "level", level, "local_id", q.LocalID)
				stats.SkippedAnswers++
				continue
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO answers (answer_text, is_correct, question_id)
				 VALUES ($1, $2, $3)`,
				ans.Text, ans.Correct, questionID,
			); err != nil {
				return fmt.Errorf("insert answer for question %s/%d: %w", level, q.LocalID, err)
			}
			stats.Answers++
		}
	}
	return nil
}
