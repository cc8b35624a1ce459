// Package protocol owns the jsontp document contract.
//
// Ownership boundary:
// - request/response/body/language value types
// - semantic validation entry points
// - document encode/decode over length-prefixed frames
// - accept-language negotiation
package protocol
