// Package firebase adapts Firebase Authentication and Cloud Firestore to the
// backend collaborator contract.
package firebase

import (
	"context"
	"fmt"

	"docapp/config"

	firebase "firebase.google.com/go/v4"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

func clientOptions(cfg config.FirebaseConfig) []option.ClientOption {
	if cfg.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
}

// NewApp initializes the Firebase app. Without a credentials file the
// application default credentials are used.
func NewApp(ctx context.Context, cfg config.FirebaseConfig, log *logrus.Logger) (*firebase.App, error) {
	if cfg.CredentialsFile == "" {
		log.Info("FIREBASE_CREDENTIALS_FILE not set, using application default credentials")
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	log.Info("Firebase app initialized")
	return app, nil
}
