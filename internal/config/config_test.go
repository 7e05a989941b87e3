package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_GenerationProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.Provider = "anthropic"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	expected := `generation.provider must be "gemini" or "openai", got "anthropic"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_GenerationRequiresKey(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled generation without api key")
	}

	cfg.Generation.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_IndexAlgorithm(t *testing.T) {
	cfg := validConfig()
	cfg.Index.Algorithm = "FLAT"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Index.Algorithm = "ivf"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestValidate_NegativeValues(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.RequestsPerSecond = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative requests_per_second")
	}

	cfg = validConfig()
	cfg.Embedding.Cache.TTLSec = -5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative cache ttl")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Index.Algorithm != "hnsw" || cfg.Index.HNSWM != 16 || cfg.Index.HNSWEFConstruct != 200 {
		t.Errorf("unexpected HNSW defaults: %+v", cfg.Index)
	}
	if cfg.Ranking.MaxPageSize != 100 || cfg.Ranking.MaxPool != 1000 {
		t.Errorf("unexpected ranking defaults: %+v", cfg.Ranking)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" || cfg.Embedding.Dimensions != 1536 {
		t.Errorf("unexpected embedding defaults: %+v", cfg.Embedding)
	}
	if cfg.Embedding.Concurrency != 1 || cfg.Embedding.ReindexMaxLimit != 5000 {
		t.Errorf("unexpected reindex defaults: %+v", cfg.Embedding)
	}
	if cfg.Generation.Provider != ProviderGemini || cfg.Generation.TimeoutSec != 20 || cfg.Generation.Concurrency != 4 {
		t.Errorf("unexpected generation defaults: %+v", cfg.Generation)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:       HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Index:      IndexConfig{HNSWM: 32, HNSWEFConstruct: 400},
		Ranking:    RankingConfig{MaxPageSize: 50, MaxPool: 200},
		Embedding:  EmbeddingConfig{Model: "custom", Dimensions: 768},
		Generation: GenerationConfig{Provider: ProviderOpenAI},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Index.HNSWM != 32 {
		t.Errorf("expected HNSWM=32, got %d", cfg.Index.HNSWM)
	}
	if cfg.Ranking.MaxPool != 200 {
		t.Errorf("expected MaxPool=200, got %d", cfg.Ranking.MaxPool)
	}
	if cfg.Embedding.Dimensions != 768 || cfg.Embedding.Model != "custom" {
		t.Errorf("embedding overridden: %+v", cfg.Embedding)
	}
	if cfg.Generation.Provider != ProviderOpenAI {
		t.Errorf("generation provider overridden: %q", cfg.Generation.Provider)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("MATCH_TEST_KEY", "sk-test")
	t.Setenv("MATCH_TEST_EMPTY", "")

	data := []byte(`
http:
  port: ${MATCH_TEST_PORT:-9090}
database:
  addrs: ["localhost:6379"]
embedding:
  api_key: ${MATCH_TEST_KEY}
  cache:
    enabled: true
    ttl_sec: 3600
generation:
  api_key: "${MATCH_TEST_EMPTY:-fallback}"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.Embedding.APIKey != "sk-test" {
		t.Errorf("api_key = %q", cfg.Embedding.APIKey)
	}
	if !cfg.Embedding.Cache.Enabled || cfg.Embedding.Cache.TTLSec != 3600 {
		t.Errorf("cache = %+v", cfg.Embedding.Cache)
	}
	if cfg.Generation.APIKey != "fallback" {
		t.Errorf("generation api_key = %q", cfg.Generation.APIKey)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("http:\n  port: 8080\n"))
	if err == nil || !strings.Contains(err.Error(), "database.addrs") {
		t.Fatalf("expected database.addrs error, got %v", err)
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.HTTP.Port <= 0 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
}
