package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
)

// SimilarParams are the query parameters of GET /v1/{kind}/{id}/similar.
type SimilarParams struct {
	Page     *int
	PageSize *int
	Explain  *bool
}

// ReindexParams are the query parameters of POST /v1/reindex/{kind}.
type ReindexParams struct {
	Limit *int
}

// ExplainParams are the query parameters of GET /v1/explain.
type ExplainParams struct {
	PostingID   string
	ProfileID   string
	Perspective *string
}

func bindPath(r *http.Request, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return fmt.Errorf("%w: invalid path parameter %s: %s", domain.ErrInvalidInput, name, err.Error())
	}
	return nil
}

func bindQuery(r *http.Request, name string, required bool, dest any) error {
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("%w: invalid query parameter %s: %s", domain.ErrInvalidInput, name, err.Error())
	}
	return nil
}

func bindSimilarParams(r *http.Request) (SimilarParams, error) {
	var p SimilarParams
	if err := bindQuery(r, "page", false, &p.Page); err != nil {
		return p, err
	}
	if err := bindQuery(r, "page_size", false, &p.PageSize); err != nil {
		return p, err
	}
	if err := bindQuery(r, "explain", false, &p.Explain); err != nil {
		return p, err
	}
	return p, nil
}

func bindReindexParams(r *http.Request) (ReindexParams, error) {
	var p ReindexParams
	if err := bindQuery(r, "limit", false, &p.Limit); err != nil {
		return p, err
	}
	return p, nil
}

func bindExplainParams(r *http.Request) (ExplainParams, error) {
	var p ExplainParams
	if err := bindQuery(r, "posting_id", true, &p.PostingID); err != nil {
		return p, err
	}
	if err := bindQuery(r, "profile_id", true, &p.ProfileID); err != nil {
		return p, err
	}
	if err := bindQuery(r, "perspective", false, &p.Perspective); err != nil {
		return p, err
	}
	return p, nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool) bool {
	return p != nil && *p
}
