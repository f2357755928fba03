// Package types defines the shared data model: conversation roles and
// messages, tool/function-calling schemas, the declarative JSONSchema
// descriptor used by extraction, and the structured Error type with its
// module-wide error codes.
//
// This package deliberately depends on nothing else in the repository.
package types
