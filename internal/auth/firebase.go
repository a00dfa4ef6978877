// Package auth provides the identity boundary: Firebase ID-token
// verification and a current-user signal that scopes every store operation.
// Nothing else about authentication is this module's concern.
package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sync"

	fs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"bizhub/internal/log"
)

// App wraps the Firebase app as an injected, lazily-initialized resource
// with explicit teardown rather than a package-level global.
type App struct {
	logger *log.Logger

	initOnce sync.Once
	initErr  error
	app      *firebase.App
	verifier *fbauth.Client

	mu        sync.Mutex
	firestore *fs.Client
}

func NewApp(logger *log.Logger) *App {
	return &App{logger: logger.WithComponent(log.ComponentAuth)}
}

// init builds the underlying Firebase app on first use. Credentials come
// from FIREBASE_SERVICE_ACCOUNT_JSON, FIREBASE_SERVICE_ACCOUNT_BASE64 or
// GOOGLE_APPLICATION_CREDENTIALS, in that order.
func (a *App) init(ctx context.Context) error {
	a.initOnce.Do(func() {
		opts, err := credentialOptions()
		if err != nil {
			a.initErr = err
			return
		}

		config := &firebase.Config{ProjectID: os.Getenv("FIREBASE_PROJECT_ID")}
		app, err := firebase.NewApp(ctx, config, opts...)
		if err != nil {
			a.initErr = fmt.Errorf("initialize firebase app: %w", err)
			return
		}
		verifier, err := app.Auth(ctx)
		if err != nil {
			a.initErr = fmt.Errorf("firebase auth client: %w", err)
			return
		}

		a.app = app
		a.verifier = verifier
		a.logger.Info("firebase app initialized")
	})
	return a.initErr
}

func credentialOptions() ([]option.ClientOption, error) {
	if raw := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); raw != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(raw))}, nil
	}
	if encoded := os.Getenv("FIREBASE_SERVICE_ACCOUNT_BASE64"); encoded != "" {
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode FIREBASE_SERVICE_ACCOUNT_BASE64: %w", err)
		}
		return []option.ClientOption{option.WithCredentialsJSON(raw)}, nil
	}
	// Fall back to application default credentials.
	return nil, nil
}

// VerifyToken validates a Firebase ID token and returns the user id.
func (a *App) VerifyToken(ctx context.Context, idToken string) (string, error) {
	if err := a.init(ctx); err != nil {
		return "", err
	}
	token, err := a.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("verify id token: %w", err)
	}
	return token.UID, nil
}

// Firestore returns the document-store client backed by the same app,
// created on first use.
func (a *App) Firestore(ctx context.Context) (*fs.Client, error) {
	if err := a.init(ctx); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.firestore == nil {
		client, err := a.app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		a.firestore = client
	}
	return a.firestore, nil
}

// Close releases held clients. Safe to call whether or not init ever ran.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.firestore != nil {
		err := a.firestore.Close()
		a.firestore = nil
		if err != nil {
			return fmt.Errorf("close firestore client: %w", err)
		}
	}
	return nil
}
