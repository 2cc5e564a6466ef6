// internal/arena/codes.go
package arena

import "math/rand"

// codeAlphabet deliberately omits 0/O/1/I so codes survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// newJoinCode returns a random 6-character room code. Uniqueness among
// active rooms is enforced by the TeamStore, which regenerates on collision.
func newJoinCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
