package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// Impersonator builds per-user HTTP clients from a single service account
// with domain-wide delegation. Each delegated client acts as one Workspace
// mailbox owner.
type Impersonator struct {
	conf *jwt.Config
}

// NewImpersonator parses service-account credentials and prepares them for
// delegation with the Gmail read-only scope.
//
// The credentials argument is either the service-account JSON document itself
// or a path to a file containing it. CI pipelines typically inject the
// document inline through an environment variable, while local runs point at
// a key file.
func NewImpersonator(credentials string) (*Impersonator, error) {
	if strings.TrimSpace(credentials) == "" {
		return nil, fmt.Errorf("service-account credentials are empty")
	}

	data := []byte(credentials)
	if !json.Valid(data) {
		// Not a JSON document, treat it as a file path.
		slurp, err := os.ReadFile(credentials)
		if err != nil {
			return nil, fmt.Errorf("failed to read service-account file: %w", err)
		}
		data = slurp
	}

	conf, err := google.JWTConfigFromJSON(data, DelegatedScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service-account credentials: %w", err)
	}

	return &Impersonator{conf: conf}, nil
}

// Email returns the service account's client email, useful for log output
// and for verifying the delegation grant.
func (i *Impersonator) Email() string {
	return i.conf.Email
}

// Delegated returns an HTTP client whose tokens impersonate the given
// mailbox owner. Token fetch errors surface on the first request made with
// the client, so callers should treat early Gmail API failures as possible
// delegation problems.
func (i *Impersonator) Delegated(ctx context.Context, userEmail string) (*http.Client, error) {
	if userEmail == "" {
		return nil, fmt.Errorf("user email is required for delegation")
	}

	// Copy the config so concurrent delegations don't race on Subject.
	conf := *i.conf
	conf.Subject = userEmail
	return conf.Client(ctx), nil
}
