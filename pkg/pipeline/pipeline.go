// Package pipeline sequences a full project creation run: materialize
// the template, initialize version control, substitute tokens, install
// dependencies, provision billing, write secrets, and deploy.
//
// The pipeline is strictly sequential; every step consumes the output
// of the one before it, and the first fatal error short-circuits the
// run. Nothing is rolled back: directories and billing resources
// created before a failure are left in place. Non-fatal failures
// accumulate as Warnings on the Result with remedial instructions.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/launchpad/pkg/billing"
	"github.com/arthur-debert/launchpad/pkg/config"
	"github.com/arthur-debert/launchpad/pkg/logging"
	"github.com/arthur-debert/launchpad/pkg/params"
	"github.com/arthur-debert/launchpad/pkg/secrets"
	"github.com/arthur-debert/launchpad/pkg/shell"
	"github.com/arthur-debert/launchpad/pkg/template"
)

// Provisioner creates the external billing resources. Satisfied by
// *billing.Client; injected so runs can be tested without Stripe.
type Provisioner interface {
	CreatePaymentLink(ctx context.Context, p *params.ProjectParameters) (*billing.PaymentLink, error)
	CreateWebhook(ctx context.Context, domain string) (*billing.WebhookEndpoint, error)
}

// Warning is a non-fatal condition surfaced at the end of a run.
type Warning struct {
	// Message describes what went wrong.
	Message string

	// Remedy is the command or action that finishes the step manually.
	Remedy string
}

// Result is the outcome of a successful run.
type Result struct {
	ProjectRoot    string
	PaymentLinkURL string
	Warnings       []Warning
}

// Pipeline holds the collaborators for one run. Credentials are loaded
// once by the caller and threaded through; the pipeline never reads
// the credentials file itself.
type Pipeline struct {
	Credentials  *config.Credentials
	Billing      Provisioner
	Runner       shell.Runner
	TemplateRoot string

	// WorkDir is the directory the project is created under.
	// Defaults to the current directory.
	WorkDir string
}

// Run executes every step in order for the given parameters.
func (pl *Pipeline) Run(ctx context.Context, p *params.ProjectParameters) (*Result, error) {
	logger := logging.GetLogger("pipeline")

	projectRoot := filepath.Join(pl.WorkDir, p.Name)
	result := &Result{ProjectRoot: projectRoot}

	manifest, err := template.LoadManifest(pl.TemplateRoot)
	if err != nil {
		return nil, err
	}

	if err := template.Materialize(pl.TemplateRoot, projectRoot); err != nil {
		return nil, err
	}
	logger.Debug().Str("state", "DirectoryMaterialized").Msg("Pipeline step complete")

	pl.initVersionControl(projectRoot, p, result)
	logger.Debug().Str("state", "VersionControlInitialized").Msg("Pipeline step complete")

	tokens := manifest.MergeTokens(map[string]string{
		"name":   p.Name,
		"domain": p.Domain,
		"title":  p.Title,
	})
	subWarnings, err := template.Substitute(projectRoot, tokens, manifest.Skip)
	if err != nil {
		return nil, err
	}
	for _, w := range subWarnings {
		result.Warnings = append(result.Warnings, Warning{
			Message: fmt.Sprintf("could not substitute tokens in %s: %s", w.Path, w.Reason),
		})
	}
	logger.Debug().Str("state", "TokensSubstituted").Msg("Pipeline step complete")

	// Without dependencies the project is unusable, so install
	// failure is fatal, unlike the later wrangler steps.
	if _, err := pl.run(projectRoot, shell.Fatal, "npm", "install"); err != nil {
		return nil, err
	}
	logger.Debug().Str("state", "DependenciesInstalled").Msg("Pipeline step complete")

	link, err := pl.Billing.CreatePaymentLink(ctx, p)
	if err != nil {
		return nil, err
	}
	result.PaymentLinkURL = link.URL
	logger.Debug().Str("state", "PaymentLinkCreated").Msg("Pipeline step complete")

	webhook, err := pl.Billing.CreateWebhook(ctx, p.Domain)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("state", "WebhookCreated").Msg("Pipeline step complete")

	res := &secrets.Resources{PaymentLink: link, Webhook: webhook}
	if err := secrets.Write(projectRoot, pl.Credentials, res); err != nil {
		return nil, err
	}
	logger.Debug().Str("state", "SecretsWritten").Msg("Pipeline step complete")

	// Upload and deploy are best-effort: the project is complete and
	// the user can finish both by hand, so either failure downgrades
	// to one warning naming the two follow-up commands.
	var failed []string
	if failedStep, _ := pl.run(projectRoot, shell.WarnAndContinue, "npx", "wrangler", "secret", "bulk", secrets.FileName); failedStep {
		failed = append(failed, "secret upload")
	}
	if failedStep, _ := pl.run(projectRoot, shell.WarnAndContinue, "npx", "wrangler", "deploy"); failedStep {
		failed = append(failed, "deploy")
	}
	if len(failed) > 0 {
		result.Warnings = append(result.Warnings, Warning{
			Message: fmt.Sprintf("%s failed", strings.Join(failed, " and ")),
			Remedy:  fmt.Sprintf("npx wrangler secret bulk %s && npx wrangler deploy", secrets.FileName),
		})
	}
	logger.Debug().Str("state", "Deployed").Int("warnings", len(result.Warnings)).Msg("Pipeline step complete")

	return result, nil
}

// run executes one external command under its declared failure
// policy. A Fatal failure comes back as the error; a WarnAndContinue
// failure only reports failed=true so the caller can aggregate a
// warning with remedial instructions.
func (pl *Pipeline) run(dir string, policy shell.Policy, name string, args ...string) (failed bool, err error) {
	runErr := pl.Runner.Run(dir, name, args...)
	if runErr == nil {
		return false, nil
	}
	if policy == shell.Fatal {
		return true, runErr
	}
	return true, nil
}

// initVersionControl runs git init and, when an owner is configured,
// adds the origin remote. Both are best-effort: a project without git
// history is still a usable project.
func (pl *Pipeline) initVersionControl(projectRoot string, p *params.ProjectParameters, result *Result) {
	if failed, _ := pl.run(projectRoot, shell.WarnAndContinue, "git", "init"); failed {
		result.Warnings = append(result.Warnings, Warning{
			Message: "git init failed",
			Remedy:  "git init",
		})
		return
	}

	if pl.Credentials.GithubOwner == "" {
		return
	}

	remote := fmt.Sprintf("git@github.com:%s/%s.git", pl.Credentials.GithubOwner, p.Name)
	if failed, _ := pl.run(projectRoot, shell.WarnAndContinue, "git", "remote", "add", "origin", remote); failed {
		result.Warnings = append(result.Warnings, Warning{
			Message: "adding git remote failed",
			Remedy:  fmt.Sprintf("git remote add origin %s", remote),
		})
	}
}
