// Package auth gates the owner-only admin API with Firebase ID tokens.
package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/dsfolio/dsfolio/config"
)

// InitializeFirebase initializes the Firebase Admin SDK and returns an Auth
// client for verifying the owner's ID tokens.
func InitializeFirebase(cfg config.AdminConfig) (*auth.Client, error) {
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_FILE is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return authClient, nil
}
