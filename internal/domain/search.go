package domain

import "strings"

type ExecutionMode string

const (
	ModeConcurrent ExecutionMode = "concurrent"
	ModeSequential ExecutionMode = "sequential"
)

func (m ExecutionMode) IsValid() bool {
	switch m {
	case ModeConcurrent, ModeSequential:
		return true
	}
	return false
}

func (m ExecutionMode) String() string { return string(m) }

// Criteria - что ищем: бренд, модель, потолок цены (включительно)
type Criteria struct {
	Brand    string
	Model    string
	MaxPrice float64
}

func (c Criteria) Query() string {
	return strings.TrimSpace(c.Brand + " " + c.Model)
}

type SearchRequest struct {
	Criteria
	Platforms      []string
	MaxPerPlatform int
	Mode           ExecutionMode
}

func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Brand) == "" {
		return ErrEmptyBrand
	}
	if strings.TrimSpace(r.Model) == "" {
		return ErrEmptyModel
	}
	if r.MaxPrice <= 0 {
		return ErrInvalidMaxPrice
	}
	if len(r.Platforms) == 0 {
		return ErrNoPlatforms
	}
	if r.MaxPerPlatform <= 0 {
		return ErrInvalidLimit
	}
	if !r.Mode.IsValid() {
		return ErrInvalidMode
	}
	return nil
}

func (r *SearchRequest) Sanitize() {
	r.Brand = normalizeSpaces(r.Brand)
	r.Model = normalizeSpaces(r.Model)
	for i, p := range r.Platforms {
		r.Platforms[i] = strings.ToLower(strings.TrimSpace(p))
	}
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
