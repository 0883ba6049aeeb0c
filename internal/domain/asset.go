package domain

import "time"

// UploadLocation is a one-time upload target issued by the asset store.
// AssetID is set only when the store assigns the identifier up front.
type UploadLocation struct {
	URL       string    `json:"uploadUrl"`
	Method    string    `json:"method"`
	AssetID   string    `json:"storageId,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadResult is returned after content is written to an upload location
type UploadResult struct {
	AssetID string `json:"storageId"`
}
