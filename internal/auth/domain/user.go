package domain

import "time"

type User struct {
	ID           string
	Email        string // lower-cased, unique
	Username     string // unique case-insensitively, stored as typed
	PasswordHash string // argon2id PHC string (legacy bcrypt hashes still verify)
	Phone        string // optional, empty when unset
	Metadata     map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate carries a partial profile change. Nil fields are left alone.
type UserUpdate struct {
	Email    *string
	Phone    *string
	Metadata map[string]any // shallow-merged; a nil value removes the key
}

// IsEmpty reports whether the update would change nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.Phone == nil && len(u.Metadata) == 0
}

// MergeMetadata applies a shallow patch on top of current and returns a new map.
func MergeMetadata(current, patch map[string]any) map[string]any {
	out := make(map[string]any, len(current)+len(patch))
	for k, v := range current {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
