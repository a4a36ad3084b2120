package types

// ErrorResponse is the uniform error envelope. Every failure maps to
// exactly one of these with a status from the boundary mapping table.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthResponse carries a freshly issued access token.
type AuthResponse struct {
	Token string `json:"token"`
}

// MessageResponse acknowledges a successful write operation.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateResponse acknowledges a successful record creation.
type CreateResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// PageResult is the browse envelope: one page of records plus the
// pagination summary.
//
// Invariants: TotalPages = ceil(TotalElements/Size) and 0 when there are
// no elements; First holds on page 1; Last holds on the final page and on
// any page of an empty result; Empty mirrors NumberOfElements == 0.
type PageResult struct {
	Content          []Record `json:"content"`
	TotalElements    int64    `json:"totalElements"`
	TotalPages       int      `json:"totalPages"`
	Last             bool     `json:"last"`
	First            bool     `json:"first"`
	NumberOfElements int      `json:"numberOfElements"`
	Size             int      `json:"size"`
	Number           int      `json:"number"`
	Sort             string   `json:"sort"`
	Empty            bool     `json:"empty"`
}
