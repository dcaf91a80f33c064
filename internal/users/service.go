package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rollahub/rolla-admin/internal/identity"
	"github.com/rollahub/rolla-admin/internal/store"
	"github.com/rollahub/rolla-admin/pkg/logger"
	"github.com/rollahub/rolla-admin/pkg/metrics"
)

const Collection = "users"

// ValidationError marks caller mistakes detected before any side effect.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuthProviderError marks an identity-provider failure on the create path,
// where the whole operation aborts before any store write.
type AuthProviderError struct {
	Err error
}

func (e *AuthProviderError) Error() string {
	return fmt.Sprintf("Failed to create authentication user: %v", e.Err)
}

func (e *AuthProviderError) Unwrap() error { return e.Err }

// SyncStatus reports how the best-effort identity-provider mirror call went
// for an operation whose store side succeeded.
type SyncStatus int

const (
	// SyncSkipped: no provider call was needed (no uid, or nothing changed).
	SyncSkipped SyncStatus = iota
	// SyncOK: provider and store both updated.
	SyncOK
	// SyncFailed: store updated, provider call failed and was swallowed.
	SyncFailed
)

func (s SyncStatus) String() string {
	switch s {
	case SyncOK:
		return "ok"
	case SyncFailed:
		return "failed"
	}
	return "skipped"
}

// Result is the outcome of a user lifecycle operation. AuthSync makes
// "store succeeded, provider failed" distinguishable from full success.
type Result struct {
	Doc      store.Document
	AuthUID  string
	AuthSync SyncStatus
}

// Service keeps a users document and its identity-provider subject in
// lockstep. Creation is provider-first and aborts on provider failure;
// update and delete treat the provider as a best-effort mirror and never
// block the store write on a provider error.
type Service struct {
	st       store.Store
	provider identity.Provider
	now      func() time.Time
}

func NewService(st store.Store, provider identity.Provider) *Service {
	return &Service{st: st, provider: provider, now: time.Now}
}

// WithClock overrides the service clock. Tests use it to pin the
// synthesized-password timestamp.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func str(v interface{}) string {
	sv, _ := v.(string)
	return sv
}

// firstNonEmpty of the snake_case and camelCase spellings clients send.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Create provisions the provider subject first, then mirrors it into the
// store. A provider failure aborts with no document written; a store
// failure after provider success leaves a provider-only subject, which is
// reported but not auto-reconciled.
func (s *Service) Create(ctx context.Context, fields store.Document) (*Result, error) {
	email := str(fields["email"])
	if email == "" {
		return nil, &ValidationError{Msg: "Email is required"}
	}

	displayName := firstNonEmpty(str(fields["display_name"]), str(fields["displayName"]))
	photoURL := firstNonEmpty(str(fields["photoURL"]), str(fields["company_logo"]))
	password := str(fields["password"])
	if password == "" {
		password = fmt.Sprintf("TempPass%d!", s.now().UnixMilli())
	}

	rec, err := s.provider.CreateUser(ctx, identity.CreateParams{
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		Password:    password,
	})
	if err != nil {
		return nil, &AuthProviderError{Err: err}
	}

	isSupplier, _ := fields["is_supplier"].(bool)
	now := s.now().UTC()
	doc := store.Document{
		"uid":           rec.UID,
		"email":         email,
		"displayName":   displayName,
		"is_supplier":   isSupplier,
		"createdAt":     now,
		"updatedAt":     now,
		"emailVerified": false,
		"providerId":    "firebase",
		"isAnonymous":   false,
		"metadata": map[string]interface{}{
			"creationTime":   rec.CreationTime,
			"lastSignInTime": rec.LastSignInTime,
		},
	}
	if rec.PhoneNumber != "" {
		doc["phoneNumber"] = rec.PhoneNumber
	} else {
		doc["phoneNumber"] = nil
	}
	if photoURL != "" {
		doc["photoURL"] = photoURL
	} else {
		doc["photoURL"] = nil
	}
	if isSupplier {
		doc["company_name"] = str(fields["company_name"])
		doc["company_logo"] = str(fields["company_logo"])
	}
	for _, k := range []string{"firstName", "lastName", "fullName"} {
		if v := str(fields[k]); v != "" {
			doc[k] = v
		}
	}

	id, err := s.st.Create(ctx, Collection, doc)
	if err != nil {
		logger.Errorf("user create: subject %s provisioned but store write failed: %v", rec.UID, err)
		return nil, fmt.Errorf("store user document: %w", err)
	}
	created, err := s.st.Get(ctx, Collection, id)
	if err != nil {
		return nil, err
	}
	return &Result{Doc: created, AuthUID: rec.UID, AuthSync: SyncOK}, nil
}

// Update mirrors the changed subset of provider-owned fields when the
// document carries a uid, swallowing provider failures, then writes the
// remaining fields to the store with a fresh updatedAt.
func (s *Service) Update(ctx context.Context, id string, fields store.Document) (*Result, error) {
	existing, err := s.st.Get(ctx, Collection, id)
	if err != nil {
		return nil, err
	}

	sync := SyncSkipped
	if uid := str(existing["uid"]); uid != "" {
		params := identity.UpdateParams{
			DisplayName: firstNonEmpty(str(fields["display_name"]), str(fields["displayName"])),
			PhotoURL:    firstNonEmpty(str(fields["photoURL"]), str(fields["company_logo"])),
			Password:    str(fields["password"]),
		}
		if email := str(fields["email"]); email != "" && email != str(existing["email"]) {
			params.Email = email
		}
		if !params.IsZero() {
			if perr := s.provider.UpdateUser(ctx, uid, params); perr != nil {
				logger.Warnf("user update %s: identity provider not updated: %v", id, perr)
				metrics.AuthSyncFailures.WithLabelValues("update").Inc()
				sync = SyncFailed
			} else {
				sync = SyncOK
			}
		}
	}

	doc := make(store.Document, len(fields)+1)
	for k, v := range fields {
		switch k {
		case "id", "createdAt", "created_time", "uid":
			// immutable after creation
			continue
		}
		doc[k] = v
	}
	doc["updatedAt"] = s.now().UTC()
	if err := s.st.Update(ctx, Collection, id, doc); err != nil {
		return nil, err
	}
	updated, err := s.st.Get(ctx, Collection, id)
	if err != nil {
		return nil, err
	}
	return &Result{Doc: updated, AuthUID: str(updated["uid"]), AuthSync: sync}, nil
}

// Delete removes the subject best-effort, then the document
// unconditionally. Deleting an id with no document succeeds.
func (s *Service) Delete(ctx context.Context, id string) (*Result, error) {
	existing, err := s.st.Get(ctx, Collection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &Result{AuthSync: SyncSkipped}, nil
		}
		return nil, err
	}

	sync := SyncSkipped
	if uid := str(existing["uid"]); uid != "" {
		if perr := s.provider.DeleteUser(ctx, uid); perr != nil {
			logger.Warnf("user delete %s: identity provider subject %s not deleted: %v", id, uid, perr)
			metrics.AuthSyncFailures.WithLabelValues("delete").Inc()
			sync = SyncFailed
		} else {
			sync = SyncOK
		}
	}

	if err := s.st.Delete(ctx, Collection, id); err != nil {
		return nil, err
	}
	return &Result{AuthUID: str(existing["uid"]), AuthSync: sync}, nil
}
