package service

// CreateCaseRequest body of POST /cases. The uid fields are client-side list keys kept by the
// creation form (and its drafts); they never reach storage.
type CreateCaseRequest struct {
	Identifier string                  `json:"identifier"`
	Specimens  []CreateSpecimenRequest `json:"specimens"`
}

type CreateSpecimenRequest struct {
	UID    string               `json:"uid,omitempty"`
	Blocks []CreateBlockRequest `json:"blocks"`
}

type CreateBlockRequest struct {
	UID    string               `json:"uid,omitempty"`
	Slides []CreateSlideRequest `json:"slides"`
}

type CreateSlideRequest struct {
	UID      string `json:"uid,omitempty"`
	Staining string `json:"staining"`
}

// CaseResponse transport shape of a stored case. Timestamps are ISO-8601 UTC with milliseconds.
type CaseResponse struct {
	ID         int64              `json:"id"`
	Identifier string             `json:"identifier"`
	CreatedAt  string             `json:"createdAt"`
	UpdatedAt  string             `json:"updatedAt"`
	Specimens  []SpecimenResponse `json:"specimens"`
}

type SpecimenResponse struct {
	ID        int64           `json:"id"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
	Blocks    []BlockResponse `json:"blocks"`
}

type BlockResponse struct {
	ID        int64           `json:"id"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
	Slides    []SlideResponse `json:"slides"`
}

type SlideResponse struct {
	ID        int64  `json:"id"`
	Staining  string `json:"staining"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
