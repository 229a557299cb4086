// Package models defines the value records shared by repositories, services
// and the CLI: users, movies and the metadata candidates fetched for them.
package models

// User is a library owner. PasswordHash is empty for users created implicitly
// by adding a movie on their behalf; such users cannot log in.
type User struct {
	ID           int64
	UserName     string
	PasswordHash string
}

// CanLogin reports whether the user has a usable password hash.
func (u *User) CanLogin() bool {
	return u.PasswordHash != ""
}

// Scope selects the movies an operation sees. A nil UserID addresses the
// whole table (single-user mode).
type Scope struct {
	UserID *int64
}

// Unscoped is the single-user scope.
var Unscoped = Scope{}

// ScopeOf returns the scope of a single user.
func ScopeOf(u *User) Scope {
	id := u.ID
	return Scope{UserID: &id}
}
