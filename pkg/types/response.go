package types

// ErrorEnvelope is the uniform failure shape: HTTP 4xx/5xx with
// success=false and a human-readable message.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
