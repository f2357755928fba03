// Package extraction turns free text into validated structured records by
// driving the model gateway's function-calling mechanism against a
// declarative JSON schema. One Extract call is one stateless exchange:
// no conversation state is read or written.
package extraction
