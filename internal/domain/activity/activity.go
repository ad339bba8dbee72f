// Package activity holds the activity record, the seed catalog and the
// registry error kinds.
package activity

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Activity is a named extracurricular offering. The name is the registry key
// and is not part of the record.
type Activity struct {
	Description     string   `json:"description" koanf:"description"`
	Schedule        string   `json:"schedule" koanf:"schedule"`
	MaxParticipants int      `json:"max_participants" koanf:"max_participants"`
	Participants    []string `json:"participants" koanf:"participants"`
}

// Clone returns a copy that shares no memory with a. Participants is never nil
// so it always encodes as a JSON list.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

// HasParticipant reports whether email is signed up.
func (a Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// IsFull reports whether the participant list reached MaxParticipants.
// A non-positive capacity means unlimited.
func (a Activity) IsFull() bool {
	return a.MaxParticipants > 0 && len(a.Participants) >= a.MaxParticipants
}

// SpotsLeft returns the remaining capacity, never below zero.
func (a Activity) SpotsLeft() int {
	if a.MaxParticipants <= 0 {
		return 0
	}
	return max(a.MaxParticipants-len(a.Participants), 0)
}

// Catalog maps activity names to their records.
type Catalog map[string]Activity

// Clone deep-copies the catalog.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for name, a := range c {
		out[name] = a.Clone()
	}
	return out
}

// Names returns the activity names in lexical order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Participants returns the total number of sign-ups across all activities.
func (c Catalog) Participants() int {
	total := 0
	for _, a := range c {
		total += len(a.Participants)
	}
	return total
}

// Validate checks that every name is non-blank and that no activity lists
// the same participant twice.
func (c Catalog) Validate() error {
	for _, name := range c.Names() {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: blank activity name", ErrInvalidSeed)
		}
		a := c[name]
		if a.MaxParticipants < 0 {
			return fmt.Errorf("%w: %q has negative max_participants", ErrInvalidSeed, name)
		}
		seen := make(map[string]struct{}, len(a.Participants))
		for _, email := range a.Participants {
			if email == "" {
				return fmt.Errorf("%w: %q lists an empty participant", ErrInvalidSeed, name)
			}
			if _, dup := seen[email]; dup {
				return fmt.Errorf("%w: %q lists %s twice", ErrInvalidSeed, name, email)
			}
			seen[email] = struct{}{}
		}
	}
	return nil
}
