package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the engine still serves lexical ranking but an
	// optional dependency is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckDatabase  = "database"
	CheckIndex     = "index"
	CheckEmbedding = "embedding"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	indexes   IndexChecker
	names     []string
	embedding EmbeddingChecker
}

// New creates a Service. indexes and embedding can be nil.
func New(db DBPinger, indexes IndexChecker, indexNames []string, embedding EmbeddingChecker) *Service {
	return &Service{db: db, indexes: indexes, names: indexNames, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks[CheckDatabase] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks[CheckDatabase] = CheckOK

	if s.indexes != nil && len(s.names) > 0 {
		checks[CheckIndex] = s.checkIndexes(ctx)
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks[CheckEmbedding] = CheckError
		} else {
			checks[CheckEmbedding] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) checkIndexes(ctx context.Context) CheckResult {
	for _, name := range s.names {
		ok, err := s.indexes.IndexExists(ctx, name)
		if err != nil || !ok {
			return CheckError
		}
	}
	return CheckOK
}
