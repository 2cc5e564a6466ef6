// internal/arena/score_test.go
package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjudicateWrongAnswerScoresNothing(t *testing.T) {
	v := Adjudicate("A", "B", 100, nil, true)
	assert.False(t, v.Correct)
	assert.Equal(t, 0, v.Points)
	assert.Equal(t, AttackNone, v.Attack)

	// Timing never rescues a wrong answer.
	opp := &Answer{Value: "A", Correct: true, TimeMs: 900}
	v = Adjudicate("A", "B", 10, opp, true)
	assert.False(t, v.Correct)
	assert.Equal(t, 0, v.Points)
	assert.Equal(t, AttackNone, v.Attack)
}

func TestAdjudicateAttackWhenOpponentSilent(t *testing.T) {
	v := Adjudicate("A", "A", 250, nil, true)
	assert.True(t, v.Correct)
	assert.Equal(t, BasePoints+AttackBonus, v.Points)
	assert.Equal(t, AttackAttack, v.Attack)
}

func TestAdjudicateAttackWhenOpponentWrong(t *testing.T) {
	opp := &Answer{Value: "C", Correct: false, TimeMs: 50}
	v := Adjudicate("A", "A", 400, opp, true)
	assert.True(t, v.Correct)
	assert.Equal(t, BasePoints+AttackBonus, v.Points)
	assert.Equal(t, AttackAttack, v.Attack)
}

func TestAdjudicateCounterRequiresStrictlyFaster(t *testing.T) {
	opp := &Answer{Value: "A", Correct: true, TimeMs: 300}

	faster := Adjudicate("A", "A", 299, opp, true)
	assert.Equal(t, AttackCounter, faster.Attack)
	assert.Equal(t, BasePoints+AttackBonus, faster.Points)

	equal := Adjudicate("A", "A", 300, opp, true)
	assert.Equal(t, AttackNone, equal.Attack)
	assert.Equal(t, BasePoints, equal.Points)

	slower := Adjudicate("A", "A", 301, opp, true)
	assert.Equal(t, AttackNone, slower.Attack)
	assert.Equal(t, BasePoints, slower.Points)
}

// The faster player answers first and tags an attack; the slower player,
// arriving second against an already-correct answer, earns no bonus.
func TestAdjudicateSpeedTieBreakScenario(t *testing.T) {
	// Player B answers at 50ms; A has not answered yet.
	bVerdict := Adjudicate("A", "A", 50, nil, true)
	assert.Equal(t, AttackAttack, bVerdict.Attack)
	assert.Equal(t, BasePoints+AttackBonus, bVerdict.Points)

	// Player A answers at 100ms against B's recorded 50ms.
	bAnswer := &Answer{Value: "A", Correct: true, TimeMs: 50}
	aVerdict := Adjudicate("A", "A", 100, bAnswer, true)
	assert.Equal(t, AttackNone, aVerdict.Attack)
	assert.Equal(t, BasePoints, aVerdict.Points)
}

func TestAdjudicateTeamModeHasNoBonuses(t *testing.T) {
	v := Adjudicate("A", "A", 10, nil, false)
	assert.True(t, v.Correct)
	assert.Equal(t, BasePoints, v.Points)
	assert.Equal(t, AttackNone, v.Attack)

	opp := &Answer{Value: "C", Correct: false, TimeMs: 20}
	v = Adjudicate("A", "A", 10, opp, false)
	assert.Equal(t, BasePoints, v.Points)
	assert.Equal(t, AttackNone, v.Attack)
}
