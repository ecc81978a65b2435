package question

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBank reads the question bank from the questions table.
type PostgresBank struct {
	pool *pgxpool.Pool
}

var _ Bank = (*PostgresBank)(nil)

func NewPostgresBank(pool *pgxpool.Pool) *PostgresBank {
	return &PostgresBank{pool: pool}
}

func (b *PostgresBank) AllQuestions(ctx context.Context) ([]Question, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT id, prompt, choices, correct_index FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Choices, &q.CorrectIndex); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	if err := Validate(questions); err != nil {
		return nil, err
	}
	return questions, nil
}
