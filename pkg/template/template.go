// Package template materializes a template tree into a new project
// directory and rewrites placeholder tokens in place.
//
// Materialization is a strict two-phase operation: a structural copy
// that either fully succeeds or fails before touching anything, then a
// best-effort substitution pass where individual unreadable files are
// skipped with a warning instead of aborting the run.
package template

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/launchpad/pkg/errors"
	"github.com/arthur-debert/launchpad/pkg/logging"
)

// Directories never descended into during substitution. These hold
// version-control or dependency-manager state, not template content.
var skipDirNames = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// Warning records a file the substitution pass had to skip.
type Warning struct {
	Path   string
	Reason string
}

// Materialize recursively copies the template tree at templateRoot to
// targetPath. The target must not exist; an existing entry fails with
// TARGET_EXISTS and is left untouched. File contents, relative paths,
// and permission bits are preserved exactly; no token rewriting
// happens at this stage.
func Materialize(templateRoot, targetPath string) error {
	logger := logging.GetLogger("template")

	info, err := os.Stat(templateRoot)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrTemplateMissing, "template directory %s does not exist", templateRoot)
	}

	if _, err := os.Lstat(targetPath); err == nil {
		return errors.Newf(errors.ErrTargetExists, "target %s already exists", targetPath)
	}

	err = filepath.WalkDir(templateRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(templateRoot, path)
		if err != nil {
			return err
		}
		if rel == ManifestName {
			// The manifest configures materialization; it is not
			// part of the project.
			return nil
		}
		dest := filepath.Join(targetPath, rel)

		fi, err := d.Info()
		if err != nil {
			return err
		}

		if d.IsDir() {
			if err := os.MkdirAll(dest, fi.Mode().Perm()); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory %s", dest)
			}
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, fi.Mode().Perm()); err != nil {
			return errors.Wrapf(err, errors.ErrFileCreate, "cannot create file %s", dest)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info().Str("template", templateRoot).Str("target", targetPath).Msg("Template materialized")
	return nil
}

// Substitute walks the materialized tree and replaces every literal
// {{key}} token from tokens with its value, in every regular file.
// Version-control and dependency directories are skipped by name, as
// are any extra directory names given in skipDirs.
//
// Substitution is best-effort per file: a file that cannot be read, or
// that holds binary content, is recorded as a Warning and left alone.
// Only the walk itself can fail.
func Substitute(root string, tokens map[string]string, skipDirs []string) ([]Warning, error) {
	logger := logging.GetLogger("template")

	skip := make(map[string]bool, len(skipDirNames)+len(skipDirs))
	for name := range skipDirNames {
		skip[name] = true
	}
	for _, name := range skipDirs {
		skip[name] = true
	}

	var warnings []Warning

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skip[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		warning := substituteFile(path, tokens)
		if warning != nil {
			logger.Warn().Str("path", warning.Path).Str("reason", warning.Reason).Msg("Skipping file during substitution")
			warnings = append(warnings, *warning)
		}
		return nil
	})
	if err != nil {
		return warnings, errors.Wrapf(err, errors.ErrInternal, "walking %s failed", root)
	}

	return warnings, nil
}

// substituteFile rewrites one file in place. A nil return means the
// file was handled; a non-nil Warning means it was skipped.
func substituteFile(path string, tokens map[string]string) *Warning {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Warning{Path: path, Reason: err.Error()}
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return &Warning{Path: path, Reason: "binary content"}
	}

	content := string(data)
	replaced := content
	for key, value := range tokens {
		replaced = strings.ReplaceAll(replaced, "{{"+key+"}}", value)
	}
	if replaced == content {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return &Warning{Path: path, Reason: err.Error()}
	}
	if err := os.WriteFile(path, []byte(replaced), info.Mode().Perm()); err != nil {
		return &Warning{Path: path, Reason: err.Error()}
	}
	return nil
}
