// Package ops implements the trip operations shared by the HTTP API, the MCP
// tools and the CLI. Each operation validates its input before touching any
// state, so a rejected request has no partial effect.
package ops

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/indotrip/internal/errors"
	"github.com/hpungsan/indotrip/internal/trip"
)

// Defaults applied to empty inputs.
const (
	DefaultTripName   = "Indonesia Roadtrip"
	DefaultMemberName = "Traveler"
	DefaultCategory   = "Activity"
	DefaultLocation   = "Bali"
)

// InviteCodeLength is the length of a trip id.
const InviteCodeLength = 6

// inviteAlphabet leaves out 0/O and 1/I so codes survive being read aloud.
const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// maxInviteAttempts bounds retries when a generated code is already taken.
const maxInviteAttempts = 8

// newInviteCode returns a random uppercase trip id.
func newInviteCode() (string, error) {
	buf := make([]byte, InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.NewInternal(err)
	}
	for i, b := range buf {
		buf[i] = inviteAlphabet[int(b)%len(inviteAlphabet)]
	}
	return string(buf), nil
}

// newID returns a fresh ULID for members and proposals.
func newID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return id.String(), nil
}

// normalizeTripID validates and canonicalizes a trip id.
func normalizeTripID(id string) (string, error) {
	id = trip.NormalizeID(id)
	if id == "" {
		return "", errors.NewInvalidRequest("trip id is required")
	}
	return id, nil
}

// requireMember resolves memberID on t or fails with UNKNOWN_MEMBER.
func requireMember(t *trip.Trip, memberID string) (*trip.Member, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return nil, errors.NewInvalidRequest("member_id is required")
	}
	m, ok := t.Member(memberID)
	if !ok {
		return nil, errors.NewUnknownMember(memberID)
	}
	return m, nil
}

// orDefault returns def when s is empty.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
