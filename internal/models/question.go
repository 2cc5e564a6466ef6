// internal/models/question.go
package models

import "github.com/google/uuid"

// Question is one entry from the question bank. A room fetches its sequence
// once at creation and serves the identical sequence to every participant.
type Question struct {
	ID            uuid.UUID `json:"id"`
	Text          string    `json:"text"`
	TextAr        string    `json:"textAr,omitempty"`
	Options       []string  `json:"options"`
	OptionsAr     []string  `json:"optionsAr,omitempty"`
	CorrectAnswer string    `json:"correctAnswer"`
	Difficulty    string    `json:"difficulty,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
}

// QuestionView is the client-safe projection of a Question. The correct
// answer is withheld until the verdict for that question is delivered.
type QuestionView struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	TextAr     string    `json:"textAr,omitempty"`
	Options    []string  `json:"options"`
	OptionsAr  []string  `json:"optionsAr,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
}

// View strips the correct answer for delivery to clients.
func (q *Question) View() QuestionView {
	return QuestionView{
		ID:         q.ID,
		Text:       q.Text,
		TextAr:     q.TextAr,
		Options:    q.Options,
		OptionsAr:  q.OptionsAr,
		Difficulty: q.Difficulty,
		ImageURL:   q.ImageURL,
	}
}
