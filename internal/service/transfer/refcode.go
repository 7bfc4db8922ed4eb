package transfer

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	referencePrefix    = "PC"
	referenceSuffixLen = 8
	refAlphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	maxReferenceAttempts = 5
)

// newReferenceCode builds the user-facing receipt number, e.g.
// PC-7QX04A9Z.
func newReferenceCode(prefix string) (string, error) {
	suffix := make([]byte, referenceSuffixLen)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(refAlphabet))))
		if err != nil {
			return "", fmt.Errorf("newReferenceCode: %w", err)
		}
		suffix[i] = refAlphabet[n.Int64()]
	}
	return prefix + "-" + string(suffix), nil
}
