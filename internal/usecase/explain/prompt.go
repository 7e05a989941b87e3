package explain

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/textnorm"
)

//go:embed prompt.md
var promptTemplate string

// Prompt size caps keep provider calls small and predictable.
const (
	maxPromptSkills = 20
	maxPromptText   = 400
)

var audiences = map[Perspective]string{
	PerspectiveEmployer:  "the employer who published the posting, evaluating this candidate",
	PerspectiveCandidate: "the candidate, evaluating this posting",
}

type postingSummary struct {
	Title          string   `json:"title,omitempty"`
	Area           string   `json:"area,omitempty"`
	Level          string   `json:"level,omitempty"`
	Modality       string   `json:"modality,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	DesiredSkills  []string `json:"desired_skills,omitempty"`
	Languages      []string `json:"languages,omitempty"`
	Requirements   string   `json:"requirements,omitempty"`
}

type profileSummary struct {
	Area           string   `json:"area,omitempty"`
	Level          string   `json:"level,omitempty"`
	Modality       string   `json:"modality,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Languages      []string `json:"languages,omitempty"`
	Summary        string   `json:"summary,omitempty"`
}

func summarizePosting(p *domain.Posting) postingSummary {
	return postingSummary{
		Title:          p.Title,
		Area:           p.Area,
		Level:          p.Level,
		Modality:       p.Modality,
		RequiredSkills: head(p.RequiredSkills, maxPromptSkills),
		DesiredSkills:  head(p.DesiredSkills, maxPromptSkills),
		Languages:      p.Languages,
		Requirements:   textnorm.Truncate(strings.TrimSpace(p.Requirements), maxPromptText),
	}
}

func summarizeProfile(p *domain.Profile) profileSummary {
	return profileSummary{
		Area:           p.Area,
		Level:          p.Level,
		Modality:       p.Modality,
		Skills:         head(p.Skills, maxPromptSkills),
		Certifications: head(p.Certifications, maxPromptSkills),
		Languages:      p.Languages,
		Summary:        textnorm.Truncate(strings.TrimSpace(p.Summary), maxPromptText),
	}
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// buildPrompt fills the embedded template. Only non-identifying fields are sent.
func buildPrompt(posting *domain.Posting, profile *domain.Profile, score int, p Perspective) (string, error) {
	postingJSON, err := json.Marshal(summarizePosting(posting))
	if err != nil {
		return "", fmt.Errorf("marshal posting summary: %w", err)
	}
	profileJSON, err := json.Marshal(summarizeProfile(profile))
	if err != nil {
		return "", fmt.Errorf("marshal profile summary: %w", err)
	}

	r := strings.NewReplacer(
		"{{AUDIENCE}}", audiences[p],
		"{{SCORE}}", strconv.Itoa(score),
		"{{POSTING_JSON}}", string(postingJSON),
		"{{PROFILE_JSON}}", string(profileJSON),
	)
	return r.Replace(promptTemplate), nil
}
