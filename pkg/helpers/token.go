package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// InvitationTokenBytes is the entropy of an invitation token before hex encoding.
const InvitationTokenBytes = 32

// GenInvitationToken returns a random hex token suitable for single-use invitation links.
func GenInvitationToken() (string, error) {
	b := make([]byte, InvitationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
