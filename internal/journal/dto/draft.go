package dto

// CreateDraftResponse returns the server-assigned draft session ID.
type CreateDraftResponse struct {
	SessionID string `json:"session_id"`
}

// SetFieldRequest sets a single draft field.
type SetFieldRequest struct {
	Value string `json:"value"`
}

// RestoreDraftRequest replaces the draft's fields with the ones encoded
// in a query string.
type RestoreDraftRequest struct {
	Query string `json:"query"`
}

// DraftStateResponse is the full state of an in-progress draft.
// ShowAdditionalSMA mirrors the form's visibility rule for the sma100
// and sma200 inputs; Query is the draft encoded as a query string.
type DraftStateResponse struct {
	SessionID         string            `json:"session_id"`
	Fields            map[string]string `json:"fields"`
	ImageURL          string            `json:"image_url,omitempty"`
	Uploading         bool              `json:"uploading"`
	ShowAdditionalSMA bool              `json:"show_additional_sma"`
	Query             string            `json:"query"`
}

// UploadImageResponse returns the media store URL of an uploaded chart
// screenshot.
type UploadImageResponse struct {
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
}
