// Package gemini provides a minimal Gemini API client for credential
// verification.
//
// The bootstrapper never generates content; it only needs to answer "is the
// configured API key usable?". HealthCheck lists models with the key attached
// and maps 400/401/403 responses to ErrInvalidKey so callers can distinguish
// a bad key from an unreachable API.
package gemini
