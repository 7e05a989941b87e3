package db

// TagCondition restricts a TAG field to any of Values, or excludes them when Negate is set.
type TagCondition struct {
	Field  string
	Values []string
	Negate bool
}

// Filter is a conjunction of tag conditions. The zero Filter matches everything.
type Filter struct {
	Tags []TagCondition
}

// And returns a copy of f with an extra condition.
func (f Filter) And(field string, values ...string) Filter {
	tags := make([]TagCondition, len(f.Tags), len(f.Tags)+1)
	copy(tags, f.Tags)
	return Filter{Tags: append(tags, TagCondition{Field: field, Values: values})}
}

// IsEmpty reports whether f has no conditions.
func (f Filter) IsEmpty() bool { return len(f.Tags) == 0 }

// KNNQuery is the input for vector similarity search. Results are ordered by
// distance and paginated by the backend with Offset/Limit.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Filter       Filter
	Vector       []float32
	K            int
	Offset       int
	Limit        int
	ReturnFields []string
}

// ListQuery is the input for a filtered, sorted listing.
type ListQuery struct {
	IndexName    string
	Filter       Filter
	SortBy       string
	SortDesc     bool
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
