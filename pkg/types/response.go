package types

// SuccessEnvelope is the JSON shape for every successful response:
// a status string plus a data object, with optional token and result count.
type SuccessEnvelope struct {
	Status  string `json:"status"`
	Token   string `json:"token,omitempty"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data"`
}

// ErrorEnvelope carries a "fail" (4xx) or "error" (5xx) status and a message.
// Cause and Stack are populated outside production only.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Cause   string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
}
