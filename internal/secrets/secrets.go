// Package secrets resolves credentials (account passwords, telemetry DSNs) from
// literal values, ${VAR} environment references or owner-only secret files.
// Secret values are never logged.
package secrets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

const (
	// maxSecretFileSize limits secret file reads; secrets are tokens, not documents
	maxSecretFileSize = 64 * 1024

	// groupOtherPerms are permission bits that should not be set on a secret file
	groupOtherPerms = 0o077
)

// Resolver reads secrets through a file system and environment lookup.
type Resolver struct {
	fs     afero.Fs
	lookup func(string) string
}

// NewResolver creates a Resolver. A nil fs uses the OS file system and a nil
// lookup uses os.Getenv.
func NewResolver(fs afero.Fs, lookup func(string) string) *Resolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if lookup == nil {
		lookup = os.Getenv
	}
	return &Resolver{fs: fs, lookup: lookup}
}

var defaultResolver = NewResolver(nil, nil)

// ExpandString expands ${VAR} and ${VAR:-default} references using the process environment.
func ExpandString(s string) (string, error) { return defaultResolver.ExpandString(s) }

// ReadFile reads a secret file using the OS file system.
func ReadFile(path string) (string, error) { return defaultResolver.ReadFile(path) }

// Resolve picks a secret from filePath, falling back to value.
func Resolve(filePath, value string) (string, error) { return defaultResolver.Resolve(filePath, value) }

// ExpandString expands ${VAR} and ${VAR:-default} references.
//
//   - "literal" -> "literal"
//   - "${TOKEN}" -> value of TOKEN
//   - "${TOKEN:-fallback}" -> value of TOKEN, or "fallback" when unset
//
// A reference without a fallback to an unset variable is an error.
func (r *Resolver) ExpandString(s string) (string, error) {
	if s == "" {
		return "", nil
	}

	var missing []string
	expanded := os.Expand(s, func(key string) string {
		name, fallback, hasFallback := strings.Cut(key, ":-")
		if value := r.lookup(name); value != "" {
			return value
		}
		if hasFallback {
			return fallback
		}
		missing = append(missing, name)
		return ""
	})

	if len(missing) > 0 {
		return "", errors.Newf("missing required environment variable(s): %s", strings.Join(missing, ", ")).
			Component("secrets").
			Category(errors.CategoryConfiguration).
			Context("variables", strings.Join(missing, ",")).
			Build()
	}
	return expanded, nil
}

// ReadFile reads a secret from path. Trailing newlines are trimmed, files over
// 64 KiB or that are empty are rejected, and group/other permissions produce a warning.
func (r *Resolver) ReadFile(path string) (string, error) {
	if path == "" {
		return "", errors.Newf("secret file path is empty").
			Component("secrets").
			Category(errors.CategoryValidation).
			Build()
	}

	cleanPath := filepath.Clean(path)

	info, err := r.fs.Stat(cleanPath)
	if err != nil {
		category := errors.CategoryFileIO
		if os.IsNotExist(err) {
			category = errors.CategoryNotFound
		}
		return "", errors.New(err).
			Component("secrets").
			Category(category).
			FileContext(cleanPath, 0).
			Context("operation", "stat_secret_file").
			Build()
	}

	if !info.Mode().IsRegular() {
		return "", errors.Newf("secret path is not a regular file: %s", cleanPath).
			Component("secrets").
			Category(errors.CategoryValidation).
			Build()
	}

	if info.Size() > maxSecretFileSize {
		return "", errors.Newf("secret file too large (max %d bytes): %s", maxSecretFileSize, cleanPath).
			Component("secrets").
			Category(errors.CategoryValidation).
			FileContext(cleanPath, info.Size()).
			Build()
	}

	if perm := info.Mode().Perm(); perm&groupOtherPerms != 0 {
		logger.Global().Module("secrets").Warn("secret file is readable by group or others",
			logger.String("path", cleanPath),
			logger.String("perms", perm.String()))
	}

	data, err := afero.ReadFile(r.fs, cleanPath)
	if err != nil {
		return "", errors.New(err).
			Component("secrets").
			Category(errors.CategoryFileIO).
			FileContext(cleanPath, info.Size()).
			Context("operation", "read_secret_file").
			Build()
	}

	secret := strings.TrimRight(string(data), "\r\n")
	if secret == "" {
		return "", errors.Newf("secret file is empty: %s", cleanPath).
			Component("secrets").
			Category(errors.CategoryValidation).
			Build()
	}

	return secret, nil
}

// Resolve determines a secret value. A non-empty filePath wins; otherwise value
// is expanded. Both empty yields "" with no error.
func (r *Resolver) Resolve(filePath, value string) (string, error) {
	if filePath != "" {
		return r.ReadFile(filePath)
	}
	return r.ExpandString(value)
}

// MustResolve is like Resolve but fails when no secret is provided.
func (r *Resolver) MustResolve(fieldName, filePath, value string) (string, error) {
	secret, err := r.Resolve(filePath, value)
	if err != nil {
		return "", err
	}
	if secret == "" {
		return "", errors.Newf("%s is required but not provided", fieldName).
			Component("secrets").
			Category(errors.CategoryValidation).
			Build()
	}
	return secret, nil
}
