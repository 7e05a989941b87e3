package domain

// KeyPrefix namespaces every key the engine writes to the store.
const KeyPrefix = "match:"

// VectorConfig holds vectorization settings, not exposed to clients.
type VectorConfig struct {
	// Model is stored next to every vector; vectors from other models are ignored.
	Model       string
	Dimensions  int
	// Algorithm is "hnsw" (default) or "flat" for exact search.
	Algorithm   string
	M           int
	EFConstruct int
}

// DefaultVectorConfig returns defaults tuned for text-embedding-3-small.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:       "text-embedding-3-small",
		Dimensions:  1536,
		Algorithm:   "hnsw",
		M:           16,
		EFConstruct: 200,
	}
}
