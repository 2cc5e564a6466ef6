package database

import (
	"context"
	"fmt"

	"github.com/DevWisdom08/Football-Arena/internal/models"
)

// GetRandomQuestions samples count questions uniformly from the bank.
func GetRandomQuestions(ctx context.Context, count int) ([]models.Question, error) {
	q := `
	SELECT id, text, text_ar, options, options_ar, correct_answer, difficulty, image_url
	FROM questions
	ORDER BY RANDOM()
	LIMIT $1
	`
	rows, err := DB.Query(ctx, q, count)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var question models.Question
		err := rows.Scan(
			&question.ID, &question.Text, &question.TextAr,
			&question.Options, &question.OptionsAr,
			&question.CorrectAnswer, &question.Difficulty, &question.ImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(questions) < count {
		return nil, fmt.Errorf("question bank too small: wanted %d, got %d", count, len(questions))
	}
	return questions, nil
}

// QuestionBank adapts the questions table to the arena question source.
type QuestionBank struct{}

func (QuestionBank) SampleQuestions(ctx context.Context, count int) ([]models.Question, error) {
	return GetRandomQuestions(ctx, count)
}
