// internal/arena/slot.go
package arena

import "github.com/google/uuid"

// Answer is one recorded submission. The full sequence is kept per slot so
// every verdict can be replayed from stored state alone.
type Answer struct {
	QuestionID uuid.UUID `json:"questionId"`
	Value      string    `json:"value"`
	Correct    bool      `json:"correct"`
	TimeMs     int       `json:"responseTimeMs"`
}

// Slot is one participant's seat in a room. Rooms own their slots
// exclusively; Score only ever grows.
type Slot struct {
	UserID   uuid.UUID
	Client   *Client
	Username string
	Score    int
	Answers  []Answer
	Ready    bool
}

// answerAt returns the slot's recorded answer for a question index, or nil
// if the slot has not reached that index yet.
func (s *Slot) answerAt(idx int) *Answer {
	if idx < 0 || idx >= len(s.Answers) {
		return nil
	}
	return &s.Answers[idx]
}

// correctCount tallies the slot's correct answers.
func (s *Slot) correctCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.Correct {
			n++
		}
	}
	return n
}
