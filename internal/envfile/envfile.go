// Package envfile provisions the .env file the sibling applications read
// their tracing credentials from.
package envfile

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

const header = `# Tracing stack credentials. Generated by tracegate; safe to edit.
#
# Each project gets one public/secret key pair. After the first login to the
# tracing server UI, create the matching projects there and replace these
# generated keys with the server-issued ones if you prefer.
`

// KeyPair returns a freshly generated public/secret credential pair using
// the server's pk-lf-/sk-lf- key scheme.
func KeyPair() (public, secret string, err error) {
	pk := make([]byte, 16)
	sk := make([]byte, 16)
	if _, err = rand.Read(pk); err != nil {
		return "", "", err
	}
	if _, err = rand.Read(sk); err != nil {
		return "", "", err
	}
	return "pk-lf-" + hex.EncodeToString(pk), "sk-lf-" + hex.EncodeToString(sk), nil
}

// Render produces the full env file body: the tracing host plus one
// credential pair per project.
func Render(host string, projects []string) (string, error) {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\nLANGFUSE_HOST=" + host + "\n")

	for _, p := range projects {
		pub, sec, err := KeyPair()
		if err != nil {
			return "", fmt.Errorf("generate keys for %s: %w", p, err)
		}
		name := VarPrefix(p)
		b.WriteString("\n# project: " + p + "\n")
		b.WriteString(name + "_PUBLIC_KEY=" + pub + "\n")
		b.WriteString(name + "_SECRET_KEY=" + sec + "\n")
	}
	return b.String(), nil
}

// Materialize writes a rendered env file at path unless one already exists.
// Existing files are never touched: they may hold operator-issued keys.
// Reports whether it created the file.
func Materialize(path, host string, projects []string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	body, err := Render(host, projects)
	if err != nil {
		return false, err
	}
	// 0600: the file holds secrets.
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// Parse reads KEY=VALUE lines from an env file body. Blank lines and #
// comments are skipped; values keep everything after the first '='.
func Parse(body string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = v
	}
	return out
}

// VarPrefix maps a project name to its env var prefix: upper-cased, with
// anything outside [A-Z0-9] folded to underscores.
func VarPrefix(project string) string {
	up := strings.ToUpper(project)
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, up)
}
