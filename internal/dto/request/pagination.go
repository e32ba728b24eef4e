package request

import (
	"fmt"

	"movie-catalog/pkg/utils"
)

// MoviePageRequest is the query of GET /movies
type MoviePageRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Validate returns nil for page >= 1 and 1 <= per_page <= utils.MaxPerPage
func (p MoviePageRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if p.Page < 1 {
		errs["page"] = "Page must be at least 1"
	}
	if p.PerPage < 1 || p.PerPage > utils.MaxPerPage {
		errs["per_page"] = fmt.Sprintf("Per page must be between 1 and %d", utils.MaxPerPage)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p MoviePageRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.PerPage)
}

func (p MoviePageRequest) Limit() int {
	return p.PerPage
}
