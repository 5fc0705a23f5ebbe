package gcs

import (
	"context"
	"fmt"
	"os"

	"github.com/angelmondragon/prodeel-backend/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const scope = "https://www.googleapis.com/auth/devstorage.read_write"

// tokenSourceFor resolves credentials in order: inline service account JSON,
// a credentials file, then application default credentials (metadata server
// on GCP).
func tokenSourceFor(ctx context.Context, gcp config.GCPConfig) (oauth2.TokenSource, error) {
	raw := []byte(gcp.CredentialsJSON)
	if len(raw) == 0 && gcp.ApplicationCredentials != "" {
		b, err := os.ReadFile(gcp.ApplicationCredentials)
		if err != nil {
			return nil, fmt.Errorf("reading gcp credentials: %w", err)
		}
		raw = b
	}

	var (
		creds *google.Credentials
		err   error
	)
	if len(raw) > 0 {
		creds, err = google.CredentialsFromJSON(ctx, raw, scope)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, scope)
	}
	if err != nil {
		return nil, fmt.Errorf("gcp credentials: %w", err)
	}
	return creds.TokenSource, nil
}
