package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrCustomTemplateNotFound = errors.New("custom template not found")
	ErrTeamNotFound           = errors.New("team not found")
	ErrTeamNameExists         = errors.New("team name already exists")
	ErrSettingKeyRequired     = errors.New("setting key is required")
	ErrUserIDRequired         = errors.New("user_id is required")
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"

	defaultListLimit = 50
	maxListLimit     = 500
)

// clampPage normalises limit/offset to the repository defaults.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
