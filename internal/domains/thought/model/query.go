package model

import (
	"sort"
)

// Pagination metadata for a listing page
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	Limit       int  `json:"limit"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPagination computes the metadata for page of size limit over total
// records. Callers validate page and limit first.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage: page,
		Limit:       limit,
		TotalCount:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// Offset returns the number of records before page.
func Offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}

// Window clamps [offset, offset+limit) to a collection of size n. A limit of
// zero or less means no upper bound. Out-of-range offsets yield an empty
// window.
func Window(n, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		return n, n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

// ThoughtPage is one page of a listing
type ThoughtPage struct {
	Items      []*Thought
	Pagination Pagination
}

// SortNewest orders thoughts by CreatedAt descending in place. Equal
// timestamps keep their relative order.
func SortNewest(thoughts []*Thought) {
	sort.SliceStable(thoughts, func(i, j int) bool {
		return thoughts[i].CreatedAt.After(thoughts[j].CreatedAt)
	})
}

// Trending returns a copy of thoughts ordered by Hearts descending. Ties keep
// the input order. A limit of zero or less returns every thought.
func Trending(thoughts []*Thought, limit int) []*Thought {
	out := make([]*Thought, len(thoughts))
	copy(out, thoughts)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Hearts > out[j].Hearts
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterByTag returns the thoughts carrying the case-folded tag, in input
// order.
func FilterByTag(thoughts []*Thought, tag string) []*Thought {
	tag = NormalizeTag(tag)
	out := make([]*Thought, 0)
	if tag == "" {
		return out
	}
	for _, t := range thoughts {
		if t.HasTag(tag) {
			out = append(out, t)
		}
	}
	return out
}

// CollectTags returns every tag present across thoughts, deduplicated and
// sorted.
func CollectTags(thoughts []*Thought) []string {
	seen := make(map[string]struct{})
	for _, t := range thoughts {
		for _, tag := range t.Tags {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Untagged returns the thoughts whose tag set is empty or missing.
func Untagged(thoughts []*Thought) []*Thought {
	out := make([]*Thought, 0)
	for _, t := range thoughts {
		if len(t.Tags) == 0 {
			out = append(out, t)
		}
	}
	return out
}
