package template

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/launchpad/pkg/errors"
)

// ManifestName is the optional per-template configuration file at the
// template root. It never gets copied into the project.
const ManifestName = "launchpad.toml"

// Manifest carries per-template materialization settings.
type Manifest struct {
	// Tokens holds default token values. Caller-supplied tokens win
	// over manifest defaults.
	Tokens map[string]string `toml:"tokens"`

	// Skip lists extra directory names the substitution pass leaves
	// alone, on top of the built-in version-control and dependency
	// directories.
	Skip []string `toml:"skip"`
}

// LoadManifest reads launchpad.toml from the template root. A missing
// manifest is not an error and yields an empty Manifest.
func LoadManifest(templateRoot string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(templateRoot, ManifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "cannot read %s", ManifestName)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "cannot parse %s", ManifestName)
	}
	return &m, nil
}

// MergeTokens layers caller tokens over the manifest defaults.
func (m *Manifest) MergeTokens(tokens map[string]string) map[string]string {
	merged := make(map[string]string, len(m.Tokens)+len(tokens))
	for key, value := range m.Tokens {
		merged[key] = value
	}
	for key, value := range tokens {
		merged[key] = value
	}
	return merged
}
