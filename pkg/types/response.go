// Package types holds the wire envelopes shared by every API response.
package types

// SuccessEnvelope wraps successful payloads as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Details is only populated for
// codes that are safe to expose.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError as {"error": ...}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
