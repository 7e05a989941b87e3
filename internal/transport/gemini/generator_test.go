package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
	prompt string
}

func (f *fakeModels) GenerateContent(
	_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGenerator_GenerateContent(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"reason":"r",`, ` "message":"m"}`)}
	g := newGenerator(models, "gemini-test")

	out, err := g.GenerateContent(context.Background(), "  explique  ")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if out != "{\"reason\":\"r\",\n\"message\":\"m\"}" {
		t.Errorf("unexpected output %q", out)
	}
	if models.model != "gemini-test" {
		t.Errorf("model = %q", models.model)
	}
	if models.prompt != "explique" {
		t.Errorf("prompt = %q", models.prompt)
	}
	if models.config == nil || models.config.ResponseMIMEType != "application/json" {
		t.Errorf("expected JSON response config, got %+v", models.config)
	}
}

func TestGenerator_DefaultModel(t *testing.T) {
	g := newGenerator(&fakeModels{}, " ")
	if g.Model() != defaultModel {
		t.Errorf("Model() = %q, want %q", g.Model(), defaultModel)
	}
}

func TestGenerator_EmptyResponse(t *testing.T) {
	g := newGenerator(&fakeModels{resp: textResponse("  ")}, "")

	_, err := g.GenerateContent(context.Background(), "explique")
	if !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Fatalf("expected ErrGenerationProviderError, got %v", err)
	}
}

func TestGenerator_RateLimited(t *testing.T) {
	apiErr := genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}
	g := newGenerator(&fakeModels{err: apiErr}, "")

	_, err := g.GenerateContent(context.Background(), "explique")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	if !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Errorf("expected ErrGenerationProviderError, got %v", err)
	}
}

func TestGenerator_TransportError(t *testing.T) {
	g := newGenerator(&fakeModels{err: errors.New("dial tcp")}, "")

	_, err := g.GenerateContent(context.Background(), "explique")
	if !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Fatalf("expected ErrGenerationProviderError, got %v", err)
	}
}

func TestGenerator_Validation(t *testing.T) {
	if _, err := NewGenerator(context.Background(), " ", ""); err == nil {
		t.Error("expected error for missing api key")
	}

	var nilGen *Generator
	if _, err := nilGen.GenerateContent(context.Background(), "x"); err == nil {
		t.Error("expected error for nil generator")
	}

	g := newGenerator(&fakeModels{}, "")
	if _, err := g.GenerateContent(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
