package drag

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// TokenPrefix is prepended to every drag token.
var TokenPrefix = "drag-"

// tokenAlphabet keeps tokens valid as NATS key/value keys and file-store keys.
const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// tokenLength gives ~125 bits of randomness, so collisions between
// concurrent drags are negligible.
const tokenLength = 21

// NewToken returns a fresh drag token. Tokens correlate events, they are not secrets.
func NewToken() (string, error) {
	id, err := nanoid.Generate(tokenAlphabet, tokenLength)
	if err != nil {
		return "", fmt.Errorf("drag token: %w", err)
	}
	return TokenPrefix + id, nil
}
