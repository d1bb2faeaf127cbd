// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, HTTP client initialization, JWT token generation
// and validation, and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the caller identifier in the context.
// Used together with GetUserIDFromContext for type-safe retrieval
// of the user ID from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.UserIDCtxKey, "user-42")
var UserIDCtxKey = contextKey("userID")

// ScopeIDCtxKey is the key used to store the owner scope granted by the
// caller's token in the context. Used together with GetScopeIDFromContext
// for type-safe retrieval of the scope ID from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.ScopeIDCtxKey, "household-1")
var ScopeIDCtxKey = contextKey("scopeID")

// GetUserIDFromContext retrieves the caller identifier from the context.
//
// Returns the user ID and an ok flag:
//   - ok == true  — value is found and has the correct string type
//   - ok == false — value is missing or has an unexpected type
//
// Example usage:
//
//	userID, ok := utils.GetUserIDFromContext(ctx)
//	if !ok {
//	    // handle missing user in context
//	}
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// GetScopeIDFromContext retrieves the owner scope from the context.
//
// Returns the scope ID and an ok flag:
//   - ok == true  — value is found and has the correct string type
//   - ok == false — value is missing or has an unexpected type
//
// Example usage:
//
//	scopeID, ok := utils.GetScopeIDFromContext(ctx)
//	if !ok {
//	    // handle missing scope in context
//	}
func GetScopeIDFromContext(ctx context.Context) (string, bool) {
	scopeID, ok := ctx.Value(ScopeIDCtxKey).(string)
	return scopeID, ok
}
