// Test Type: Unit Test
// Description: Tests for the config package - credentials file loading

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/launchpad/pkg/config"
	"github.com/arthur-debert/launchpad/pkg/errors"
)

func writeCredentials(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeCredentials(t, "STRIPE_SECRET=sk_x\nSTRIPE_PUBLISHABLE_KEY=pk_x\nGITHUB_OWNER=acme\n")

	creds, err := config.LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "sk_x", creds.StripeSecret)
	assert.Equal(t, "pk_x", creds.StripePublishable)
	assert.Equal(t, "acme", creds.GithubOwner)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := config.LoadFrom(filepath.Join(t.TempDir(), "nope"))

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigMissing))
}

func TestLoadFrom_MissingMandatoryKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"secret only", "STRIPE_SECRET=sk_x\n"},
		{"publishable only", "STRIPE_PUBLISHABLE_KEY=pk_x\n"},
		{"empty values ignored", "STRIPE_SECRET=\nSTRIPE_PUBLISHABLE_KEY=pk_x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCredentials(t, tt.content)

			_, err := config.LoadFrom(path)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigIncomplete))
		})
	}
}

func TestLoadFrom_GithubOwnerOptional(t *testing.T) {
	path := writeCredentials(t, "STRIPE_SECRET=sk_x\nSTRIPE_PUBLISHABLE_KEY=pk_x\n")

	creds, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Empty(t, creds.GithubOwner)
}

func TestLoadFrom_SkipsMalformedLines(t *testing.T) {
	content := "garbage line\n" +
		"=nokey\n" +
		"NOVALUE=\n" +
		"STRIPE_SECRET=sk_x\n" +
		"STRIPE_PUBLISHABLE_KEY=pk_with=equals\n"
	path := writeCredentials(t, content)

	creds, err := config.LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "sk_x", creds.StripeSecret)
	// First '=' delimits; the rest of the line is the value.
	assert.Equal(t, "pk_with=equals", creds.StripePublishable)
}

func TestPath_UnderConfigHome(t *testing.T) {
	assert.Contains(t, filepath.ToSlash(config.Path()), "launchpad/credentials")
}
