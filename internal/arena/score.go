// internal/arena/score.go
package arena

// Point awards shared by both game modes.
const (
	// BasePoints is earned by any correct answer.
	BasePoints = 100
	// AttackBonus is added on top for attack and counter results (duels only).
	AttackBonus = 50
)

// Attack result tags carried in answer verdicts.
const (
	AttackNone    = ""
	AttackAttack  = "attack"
	AttackCounter = "counter"
)

// Verdict is the adjudication outcome for one submission.
type Verdict struct {
	Correct bool
	Points  int
	Attack  string
}

// Adjudicate scores a submission against the question's stored correct value
// and the opponent's already-recorded answer for the same question (nil if
// the opponent has not answered yet).
//
// A correct answer earns BasePoints. In duel mode it additionally earns an
// attack bonus when the opponent has not answered yet or answered wrong, or
// a counter bonus when the opponent answered correctly but strictly slower.
// Incorrect answers earn nothing regardless of timing. The function is pure:
// replaying the two slots' answer sequences reproduces every verdict.
func Adjudicate(correctValue, submitted string, timeMs int, opponent *Answer, duel bool) Verdict {
	if submitted != correctValue {
		return Verdict{}
	}

	v := Verdict{Correct: true, Points: BasePoints}
	if !duel {
		return v
	}

	switch {
	case opponent == nil:
		// First correct answer in: attack.
		v.Attack = AttackAttack
		v.Points += AttackBonus
	case !opponent.Correct:
		v.Attack = AttackAttack
		v.Points += AttackBonus
	case timeMs < opponent.TimeMs:
		// Both correct, submitter strictly faster: counter-attack.
		v.Attack = AttackCounter
		v.Points += AttackBonus
	}
	return v
}
