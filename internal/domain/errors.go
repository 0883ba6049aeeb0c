package domain

import "errors"

// Error kinds shared by every catalog operation. Entity-specific sentinels in
// the repository and storage packages wrap one of these.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrAssetUnresolvable = errors.New("asset unresolvable")
	ErrInvalidInput      = errors.New("invalid input")
)
