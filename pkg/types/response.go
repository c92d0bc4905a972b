// Package types holds the JSON envelopes every HTTP response uses.
package types

// SuccessEnvelope wraps a successful response body under a "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a failure: a stable machine-readable
// code, a human-readable message, and optional structured details
// (for example per-field validation errors).
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under an "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
