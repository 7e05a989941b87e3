package chi

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/match"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type filtersDTO struct {
	Area     string `json:"area" validate:"max=100"`
	Level    string `json:"level" validate:"max=50"`
	Modality string `json:"modality" validate:"max=50"`
	MinScore int    `json:"min_score" validate:"gte=0,lte=100"`
}

func (f filtersDTO) toDomain() (match.Filters, error) {
	out, err := match.NewFilters(f.Area, f.Level, f.Modality, f.MinScore)
	if err != nil {
		return match.Filters{}, fmt.Errorf("filters: %w", err)
	}
	return out, nil
}

type pageDTO struct {
	Page     int `json:"page" validate:"gte=0"`
	PageSize int `json:"page_size" validate:"gte=0"`
}

// RankCandidatesRequest is the body of POST /v1/matches/candidates.
type RankCandidatesRequest struct {
	PostingIDs []string `json:"posting_ids" validate:"max=50,dive,required,max=128"`
	pageDTO
	Filters filtersDTO `json:"filters"`
	Explain bool       `json:"explain"`
}

// RankPostingsRequest is the body of POST /v1/matches/postings.
type RankPostingsRequest struct {
	ProfileID string `json:"profile_id" validate:"max=128"`
	pageDTO
	Filters filtersDTO `json:"filters"`
	Explain bool       `json:"explain"`
}

// ProfileRequest is the body of PUT /v1/profile/{id}.
type ProfileRequest struct {
	OwnerID        string   `json:"owner_id" validate:"max=128"`
	Name           string   `json:"name" validate:"max=200"`
	Area           string   `json:"area" validate:"max=100"`
	Level          string   `json:"level" validate:"max=50"`
	Modality       string   `json:"modality" validate:"max=50"`
	Status         string   `json:"status" validate:"required,max=50"`
	Skills         []string `json:"skills" validate:"max=200,dive,max=100"`
	Certifications []string `json:"certifications" validate:"max=100,dive,max=200"`
	Languages      []string `json:"languages" validate:"max=20,dive,max=50"`
	Summary        string   `json:"summary" validate:"max=20000"`
	Experience     string   `json:"experience" validate:"max=20000"`
}

func (r ProfileRequest) toDomain(id string) *domain.Profile {
	return &domain.Profile{
		ID: id, OwnerID: r.OwnerID, Name: r.Name,
		Area: r.Area, Level: r.Level, Modality: r.Modality, Status: r.Status,
		Skills: r.Skills, Certifications: r.Certifications, Languages: r.Languages,
		Summary: r.Summary, Experience: r.Experience,
	}
}

// PostingRequest is the body of PUT /v1/posting/{id}.
type PostingRequest struct {
	OwnerID        string   `json:"owner_id" validate:"max=128"`
	Title          string   `json:"title" validate:"required,max=200"`
	Area           string   `json:"area" validate:"max=100"`
	Level          string   `json:"level" validate:"max=50"`
	Modality       string   `json:"modality" validate:"max=50"`
	Status         string   `json:"status" validate:"required,max=50"`
	RequiredSkills []string `json:"required_skills" validate:"max=200,dive,max=100"`
	DesiredSkills  []string `json:"desired_skills" validate:"max=200,dive,max=100"`
	Languages      []string `json:"languages" validate:"max=20,dive,max=50"`
	Requirements   string   `json:"requirements" validate:"max=20000"`
	Description    string   `json:"description" validate:"max=20000"`
}

func (r PostingRequest) toDomain(id string) *domain.Posting {
	return &domain.Posting{
		ID: id, OwnerID: r.OwnerID, Title: r.Title,
		Area: r.Area, Level: r.Level, Modality: r.Modality, Status: r.Status,
		RequiredSkills: r.RequiredSkills, DesiredSkills: r.DesiredSkills, Languages: r.Languages,
		Requirements: r.Requirements, Description: r.Description,
	}
}

// validateStruct runs the struct validator and maps failures to ErrInvalidInput.
func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s failed %q", domain.ErrInvalidInput, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	return nil
}

// ReindexResponse is the data of POST /v1/reindex/{kind}.
type ReindexResponse struct {
	Kind    string `json:"kind"`
	OK      int    `json:"ok"`
	Fail    int    `json:"fail"`
	Skipped int    `json:"skipped"`
	Total   int    `json:"total"`
}

// HealthResponse is the data of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
