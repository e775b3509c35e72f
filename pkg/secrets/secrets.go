// Package secrets assembles the project's .dev.vars file: Stripe keys
// from the operator credentials, the freshly provisioned payment link
// and webhook secret, and one generated database secret. The file is
// plain KEY=value text and is later uploaded verbatim by the deploy
// tooling, so nothing here is encrypted or redacted.
package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/launchpad/pkg/billing"
	"github.com/arthur-debert/launchpad/pkg/config"
	"github.com/arthur-debert/launchpad/pkg/errors"
	"github.com/arthur-debert/launchpad/pkg/logging"
)

// FileName is the secrets file written at the project root.
const FileName = ".dev.vars"

// Resources gathers the billing identifiers the secrets file needs.
type Resources struct {
	PaymentLink *billing.PaymentLink
	Webhook     *billing.WebhookEndpoint
}

// Write generates a fresh database secret and writes the five-line
// secrets file to <projectRoot>/.dev.vars in a single write,
// overwriting any existing file. Line order is fixed.
func Write(projectRoot string, creds *config.Credentials, res *Resources) error {
	logger := logging.GetLogger("secrets")

	dbSecret, err := GenerateSecret()
	if err != nil {
		return err
	}

	content := fmt.Sprintf(
		"STRIPE_SECRET=%s\nSTRIPE_PUBLISHABLE_KEY=%s\nSTRIPE_PAYMENT_LINK=%s\nSTRIPE_WEBHOOK_SECRET=%s\nDATABASE_SECRET=%s\n",
		creds.StripeSecret,
		creds.StripePublishable,
		res.PaymentLink.URL,
		res.Webhook.Secret,
		dbSecret,
	)

	path := filepath.Join(projectRoot, FileName)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}

	logger.Info().Str("path", path).Msg("Secrets file written")
	return nil
}

// GenerateSecret returns 16 cryptographically random bytes hex-encoded,
// i.e. a 32-character secret.
func GenerateSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "generating random secret failed")
	}
	return hex.EncodeToString(buf), nil
}
