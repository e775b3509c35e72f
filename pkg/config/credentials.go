// Package config loads the operator credentials that every pipeline run
// depends on. Credentials live in a single line-oriented KEY=VALUE file
// under the user's config directory and are read exactly once per run;
// the resulting value is threaded through the rest of the pipeline.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/launchpad/pkg/errors"
	"github.com/arthur-debert/launchpad/pkg/logging"
)

// Credential file keys recognized by the loader.
const (
	KeyStripeSecret      = "STRIPE_SECRET"
	KeyStripePublishable = "STRIPE_PUBLISHABLE_KEY"
	KeyGithubOwner       = "GITHUB_OWNER"
)

// Credentials holds the values loaded from the credentials file.
// StripeSecret and StripePublishable are mandatory; GithubOwner is
// optional and only enables wiring a git remote for the new project.
type Credentials struct {
	StripeSecret      string
	StripePublishable string
	GithubOwner       string
}

// Path returns the well-known credentials file location,
// $XDG_CONFIG_HOME/launchpad/credentials by default.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "launchpad", "credentials")
}

// Load reads credentials from the well-known path.
func Load() (*Credentials, error) {
	return LoadFrom(Path())
}

// LoadFrom reads and validates a credentials file at an explicit path.
// A missing file is CONFIG_MISSING; a file missing either mandatory
// Stripe key is CONFIG_INCOMPLETE.
func LoadFrom(path string) (*Credentials, error) {
	logger := logging.GetLogger("config")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrConfigMissing,
				"credentials file %s not found; create it with STRIPE_SECRET and STRIPE_PUBLISHABLE_KEY", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigMissing, "cannot read credentials file %s", path)
	}

	values := parse(string(data))

	creds := &Credentials{
		StripeSecret:      values[KeyStripeSecret],
		StripePublishable: values[KeyStripePublishable],
		GithubOwner:       values[KeyGithubOwner],
	}

	if creds.StripeSecret == "" || creds.StripePublishable == "" {
		return nil, errors.Newf(errors.ErrConfigIncomplete,
			"credentials file %s must define %s and %s", path, KeyStripeSecret, KeyStripePublishable)
	}

	logger.Debug().
		Str("path", path).
		Bool("githubOwner", creds.GithubOwner != "").
		Msg("Credentials loaded")

	return creds, nil
}

// parse splits line-oriented KEY=VALUE content into a map. The first
// '=' delimits key from value; lines without '=' or with an empty key
// or value are skipped. No quoting, escaping, or comments.
func parse(content string) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, "=")
		if !found || key == "" || value == "" {
			continue
		}
		values[key] = value
	}
	return values
}
