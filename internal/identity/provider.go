package identity

import (
	"context"
	"fmt"
)

// UserRecord is the provider-side view of an authentication subject.
type UserRecord struct {
	UID            string
	Email          string
	DisplayName    string
	PhotoURL       string
	PhoneNumber    string
	EmailVerified  bool
	CreationTime   string
	LastSignInTime string
}

// CreateParams carries the fields sent on subject creation. Password is
// always set by the caller (synthesized when the client omitted one).
type CreateParams struct {
	Email       string
	DisplayName string
	PhotoURL    string
	Password    string
}

// UpdateParams carries the subject fields to mirror on update. Empty fields
// are left unchanged on the provider side.
type UpdateParams struct {
	Email       string
	DisplayName string
	PhotoURL    string
	Password    string
}

// IsZero reports whether the update would be a no-op.
func (p UpdateParams) IsZero() bool {
	return p.Email == "" && p.DisplayName == "" && p.PhotoURL == "" && p.Password == ""
}

// Provider is the identity-provider contract consumed by the user lifecycle.
type Provider interface {
	CreateUser(ctx context.Context, p CreateParams) (*UserRecord, error)
	UpdateUser(ctx context.Context, uid string, p UpdateParams) error
	DeleteUser(ctx context.Context, uid string) error
}

// ProviderError wraps a failed provider call with the operation that failed.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
