package model

import (
	"strings"
	"time"
)

// Thought is the single persisted content record.
type Thought struct {
	ID      string   `json:"id" bson:"_id"`
	Message string   `json:"message" bson:"message"`
	Tags    []string `json:"tags" bson:"tags"`

	// Hearts is the like counter; Likes holds the IDs of authenticated users
	// that currently like the thought.
	Hearts int      `json:"hearts" bson:"hearts"`
	Likes  []string `json:"likes" bson:"likes"`

	// OwnerID is nil for anonymous thoughts.
	OwnerID  *string `json:"owner_id,omitempty" bson:"owner_id,omitempty"`
	Revision int     `json:"revision" bson:"revision"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsAnonymous reports whether the thought has no owner.
func (t *Thought) IsAnonymous() bool {
	return t.OwnerID == nil || NormalizeUserID(*t.OwnerID) == ""
}

// IsOwnedBy reports whether userID owns the thought. Anonymous thoughts are
// owned by nobody.
func (t *Thought) IsOwnedBy(userID string) bool {
	if t.IsAnonymous() {
		return false
	}
	return SameUser(*t.OwnerID, userID)
}

// HasTag reports whether the thought carries the case-folded tag.
func (t *Thought) HasTag(tag string) bool {
	tag = NormalizeTag(tag)
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// LikedBy reports whether userID is in the likes set.
func (t *Thought) LikedBy(userID string) bool {
	for _, id := range t.Likes {
		if SameUser(id, userID) {
			return true
		}
	}
	return false
}

// ToggleLike adds userID to the likes set or removes it when already present,
// moving Hearts by one in the same direction. It returns true when the
// thought is liked after the call.
func (t *Thought) ToggleLike(userID string) bool {
	userID = NormalizeUserID(userID)
	for i, id := range t.Likes {
		if SameUser(id, userID) {
			t.Likes = append(t.Likes[:i:i], t.Likes[i+1:]...)
			if t.Hearts > 0 {
				t.Hearts--
			}
			return false
		}
	}
	t.Likes = append(t.Likes, userID)
	t.Hearts++
	return true
}

// AddHeart increments Hearts for an anonymous like.
func (t *Thought) AddHeart() {
	t.Hearts++
}

// Touch records a mutation.
func (t *Thought) Touch(now time.Time) {
	t.Revision++
	t.UpdatedAt = now
}

// Clone returns a deep copy so callers can mutate it without touching shared
// state.
func (t *Thought) Clone() *Thought {
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Likes != nil {
		c.Likes = append([]string(nil), t.Likes...)
	}
	if t.OwnerID != nil {
		owner := *t.OwnerID
		c.OwnerID = &owner
	}
	return &c
}

// NormalizeUserID returns the canonical form of a user identifier.
func NormalizeUserID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// SameUser compares two user identifiers in canonical form. Empty identifiers
// never match.
func SameUser(a, b string) bool {
	a, b = NormalizeUserID(a), NormalizeUserID(b)
	return a != "" && a == b
}

// NormalizeTag trims and lower-cases a tag label.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes every tag, dropping empties and duplicates while
// keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = NormalizeTag(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
