// Test Type: Integration Test
// Description: Tests for the pipeline package - full run sequencing

package pipeline_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/launchpad/pkg/billing"
	"github.com/arthur-debert/launchpad/pkg/config"
	"github.com/arthur-debert/launchpad/pkg/errors"
	"github.com/arthur-debert/launchpad/pkg/params"
	"github.com/arthur-debert/launchpad/pkg/pipeline"
	"github.com/arthur-debert/launchpad/pkg/testutil"
)

// newStripeServer serves successful canned responses for every
// provisioning endpoint.
func newStripeServer(t *testing.T) *billing.Client {
	t.Helper()
	responses := map[string]string{
		"/products":          `{"id":"prod_123"}`,
		"/prices":            `{"id":"price_123"}`,
		"/payment_links":     `{"id":"plink_123","url":"https://buy.stripe.com/test_123"}`,
		"/webhook_endpoints": `{"id":"we_123","secret":"whsec_123"}`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Path]
		require.True(t, ok, "unexpected call to %s", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client := billing.New("sk_x")
	client.BaseURL = server.URL
	client.HTTPClient = server.Client()
	return client
}

func testCredentials(owner string) *config.Credentials {
	return &config.Credentials{
		StripeSecret:      "sk_x",
		StripePublishable: "pk_x",
		GithubOwner:       owner,
	}
}

func testParams() *params.ProjectParameters {
	return &params.ProjectParameters{
		Name:   "myapp",
		Domain: "myapp.example.com",
		Title:  "My App",
	}
}

func newTestPipeline(t *testing.T, owner string) (*pipeline.Pipeline, *testutil.RecordingRunner) {
	t.Helper()
	workDir := t.TempDir()
	templateRoot := filepath.Join(workDir, "template")
	testutil.WriteTree(t, templateRoot, map[string]string{
		"greeting.txt": "Hello {{name}} at {{domain}}",
		"src/index.ts": "// {{title}}",
	})

	runner := &testutil.RecordingRunner{}
	return &pipeline.Pipeline{
		Credentials:  testCredentials(owner),
		Billing:      newStripeServer(t),
		Runner:       runner,
		TemplateRoot: templateRoot,
		WorkDir:      workDir,
	}, runner
}

func TestRun_EndToEnd(t *testing.T) {
	pl, runner := newTestPipeline(t, "acme")

	result, err := pl.Run(context.Background(), testParams())
	require.NoError(t, err)

	assert.Empty(t, result.Warnings)
	assert.Equal(t, "https://buy.stripe.com/test_123", result.PaymentLinkURL)

	// Tokens substituted in the materialized tree.
	data, err := os.ReadFile(filepath.Join(result.ProjectRoot, "greeting.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Hello myapp at myapp.example.com", string(data))

	// Secrets file has the five fixed keys, credentials untouched.
	data, err = os.ReadFile(filepath.Join(result.ProjectRoot, ".dev.vars"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "STRIPE_SECRET=sk_x", lines[0])
	assert.Equal(t, "STRIPE_PUBLISHABLE_KEY=pk_x", lines[1])
	assert.Equal(t, "STRIPE_PAYMENT_LINK=https://buy.stripe.com/test_123", lines[2])
	assert.Equal(t, "STRIPE_WEBHOOK_SECRET=whsec_123", lines[3])

	// External commands in strict order.
	assert.Equal(t, []string{
		"git init",
		"git remote add origin git@github.com:acme/myapp.git",
		"npm install",
		"npx wrangler secret bulk .dev.vars",
		"npx wrangler deploy",
	}, runner.CommandLines())

	for _, call := range runner.Calls {
		assert.Equal(t, result.ProjectRoot, call.Dir)
	}
}

func TestRun_NoRemoteWithoutOwner(t *testing.T) {
	pl, runner := newTestPipeline(t, "")

	_, err := pl.Run(context.Background(), testParams())
	require.NoError(t, err)

	for _, line := range runner.CommandLines() {
		assert.NotContains(t, line, "remote add")
	}
}

func TestRun_TargetExistsFailsBeforeSideEffects(t *testing.T) {
	pl, runner := newTestPipeline(t, "acme")
	require.NoError(t, os.MkdirAll(filepath.Join(pl.WorkDir, "myapp"), 0755))

	_, err := pl.Run(context.Background(), testParams())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetExists))
	assert.Empty(t, runner.Calls, "no external command may run after a precondition failure")
}

func TestRun_InstallFailureIsFatal(t *testing.T) {
	pl, runner := newTestPipeline(t, "acme")
	runner.FailOn = map[string]error{
		"npm install": errors.New(errors.ErrCommandFailed, "npm failed"),
	}

	_, err := pl.Run(context.Background(), testParams())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))

	// The billing chain and secrets file must not be reached.
	_, statErr := os.Stat(filepath.Join(pl.WorkDir, "myapp", ".dev.vars"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_DeployFailureIsWarning(t *testing.T) {
	pl, runner := newTestPipeline(t, "acme")
	runner.FailOn = map[string]error{
		"npx wrangler deploy": errors.New(errors.ErrCommandFailed, "deploy failed"),
	}

	result, err := pl.Run(context.Background(), testParams())
	require.NoError(t, err, "deploy failure must not fail the run")

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "deploy failed", result.Warnings[0].Message)
	// The warning names both manual follow-up commands.
	assert.Equal(t, "npx wrangler secret bulk .dev.vars && npx wrangler deploy", result.Warnings[0].Remedy)
}

func TestRun_UploadAndDeployFailuresBothWarn(t *testing.T) {
	pl, runner := newTestPipeline(t, "acme")
	runner.FailOn = map[string]error{
		"npx wrangler": errors.New(errors.ErrCommandFailed, "wrangler failed"),
	}

	result, err := pl.Run(context.Background(), testParams())
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "secret upload and deploy failed", result.Warnings[0].Message)
	assert.Equal(t, "npx wrangler secret bulk .dev.vars && npx wrangler deploy", result.Warnings[0].Remedy)
}

func TestRun_GitFailuresAreWarnings(t *testing.T) {
	pl, runner := newTestPipeline(t, "acme")
	runner.FailOn = map[string]error{
		"git init": errors.New(errors.ErrCommandFailed, "git missing"),
	}

	result, err := pl.Run(context.Background(), testParams())
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "git init", result.Warnings[0].Remedy)
	// remote add is skipped once init failed
	for _, line := range runner.CommandLines() {
		assert.NotContains(t, line, "remote add")
	}
}

func TestRun_BillingFailureStopsBeforeSecrets(t *testing.T) {
	workDir := t.TempDir()
	templateRoot := filepath.Join(workDir, "template")
	testutil.WriteTree(t, templateRoot, map[string]string{"file.txt": "x"})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"account not activated"}}`))
	}))
	t.Cleanup(server.Close)

	client := billing.New("sk_x")
	client.BaseURL = server.URL
	client.HTTPClient = server.Client()

	runner := &testutil.RecordingRunner{}
	pl := &pipeline.Pipeline{
		Credentials:  testCredentials(""),
		Billing:      client,
		Runner:       runner,
		TemplateRoot: templateRoot,
		WorkDir:      workDir,
	}

	_, err := pl.Run(context.Background(), testParams())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBillingAPI))
	assert.Equal(t, "create product", errors.GetErrorDetails(err)["step"])

	_, statErr := os.Stat(filepath.Join(workDir, "myapp", ".dev.vars"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_ManifestTokensAndSkip(t *testing.T) {
	workDir := t.TempDir()
	templateRoot := filepath.Join(workDir, "template")
	testutil.WriteTree(t, templateRoot, map[string]string{
		"launchpad.toml": "skip = [\"dist\"]\n\n[tokens]\nregion = \"us-east-1\"\ntitle = \"Placeholder\"\n",
		"config.txt":     "{{region}} {{title}}",
		"dist/bundle.js": "// {{name}}",
	})

	runner := &testutil.RecordingRunner{}
	pl := &pipeline.Pipeline{
		Credentials:  testCredentials(""),
		Billing:      newStripeServer(t),
		Runner:       runner,
		TemplateRoot: templateRoot,
		WorkDir:      workDir,
	}

	result, err := pl.Run(context.Background(), testParams())
	require.NoError(t, err)

	// Manifest defaults apply, collected parameters win.
	data, err := os.ReadFile(filepath.Join(result.ProjectRoot, "config.txt"))
	require.NoError(t, err)
	assert.Equal(t, "us-east-1 My App", string(data))

	// Skipped directory keeps its tokens; manifest itself not copied.
	data, err = os.ReadFile(filepath.Join(result.ProjectRoot, "dist", "bundle.js"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "{{name}}")
	_, statErr := os.Stat(filepath.Join(result.ProjectRoot, "launchpad.toml"))
	assert.True(t, os.IsNotExist(statErr))
}
