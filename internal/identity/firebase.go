package identity

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseProvider implements Provider on the Firebase Admin SDK.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider initializes the Admin SDK from a service-account JSON
// blob (credentialsJSON) or a credentials file path, whichever is set.
// With neither set the SDK falls back to application default credentials.
func NewFirebaseProvider(ctx context.Context, credentialsJSON, credentialsFile string) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	switch {
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

func (f *FirebaseProvider) CreateUser(ctx context.Context, p CreateParams) (*UserRecord, error) {
	params := (&auth.UserToCreate{}).
		Email(p.Email).
		Password(p.Password)
	if p.DisplayName != "" {
		params = params.DisplayName(p.DisplayName)
	}
	if p.PhotoURL != "" {
		params = params.PhotoURL(p.PhotoURL)
	}
	rec, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return nil, &ProviderError{Op: "createUser", Err: err}
	}
	return fromAuthRecord(rec), nil
}

func (f *FirebaseProvider) UpdateUser(ctx context.Context, uid string, p UpdateParams) error {
	if p.IsZero() {
		return nil
	}
	params := &auth.UserToUpdate{}
	if p.Email != "" {
		params = params.Email(p.Email)
	}
	if p.DisplayName != "" {
		params = params.DisplayName(p.DisplayName)
	}
	if p.PhotoURL != "" {
		params = params.PhotoURL(p.PhotoURL)
	}
	if p.Password != "" {
		params = params.Password(p.Password)
	}
	if _, err := f.client.UpdateUser(ctx, uid, params); err != nil {
		return &ProviderError{Op: "updateUser", Err: err}
	}
	return nil
}

func (f *FirebaseProvider) DeleteUser(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil {
		return &ProviderError{Op: "deleteUser", Err: err}
	}
	return nil
}

func fromAuthRecord(rec *auth.UserRecord) *UserRecord {
	out := &UserRecord{
		UID:           rec.UID,
		Email:         rec.Email,
		DisplayName:   rec.DisplayName,
		PhotoURL:      rec.PhotoURL,
		PhoneNumber:   rec.PhoneNumber,
		EmailVerified: rec.EmailVerified,
	}
	if rec.UserMetadata != nil {
		if rec.UserMetadata.CreationTimestamp > 0 {
			out.CreationTime = time.UnixMilli(rec.UserMetadata.CreationTimestamp).UTC().Format(time.RFC3339)
		}
		if rec.UserMetadata.LastLogInTimestamp > 0 {
			out.LastSignInTime = time.UnixMilli(rec.UserMetadata.LastLogInTimestamp).UTC().Format(time.RFC3339)
		}
	}
	return out
}
