// Package auth keeps the optional bearer tokens sent to todo API endpoints.
//
// Tokens are saved per endpoint in ~/.tada/credentials.json (mode 0600), so
// pointing the app at a dev server never leaks the production token to it.
// TADA_TOKEN overrides whatever is saved.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// EnvVar overrides any saved token, for every endpoint.
const EnvVar = "TADA_TOKEN"

const credFileName = "credentials.json"

// ErrExpired is returned with a saved token whose expiry has passed.
var ErrExpired = errors.New("token expired")

// Token is the credential in effect for one endpoint.
type Token struct {
	Value     string
	Source    string // "env" | "file"
	Endpoint  string
	SavedAt   time.Time
	ExpiresAt *time.Time
}

type credential struct {
	Token     string     `json:"token"`
	SavedAt   time.Time  `json:"saved_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type credentialFile struct {
	Endpoints map[string]credential `json:"endpoints"`
}

// Dir is where credentials live. Tests point it at a temp dir.
var Dir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tada"), nil
}

var now = time.Now

// Endpoint is the key a token for apiURL is stored under: scheme and host
// lower-cased, path without its trailing slash.
func Endpoint(apiURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(apiURL))
	if err != nil {
		return "", fmt.Errorf("api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("api url %q must be absolute", apiURL)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + strings.TrimRight(u.Path, "/"), nil
}

// Lookup returns the token for apiURL, or nil when none is configured.
// An expired saved token comes back together with ErrExpired.
func Lookup(apiURL string) (*Token, error) {
	key, err := Endpoint(apiURL)
	if err != nil {
		return nil, err
	}
	if env := stripBearer(os.Getenv(EnvVar)); env != "" {
		return &Token{Value: env, Source: "env", Endpoint: key}, nil
	}

	f, err := load()
	if err != nil {
		return nil, err
	}
	c, ok := f.Endpoints[key]
	if !ok || c.Token == "" {
		return nil, nil
	}
	t := &Token{Value: c.Token, Source: "file", Endpoint: key, SavedAt: c.SavedAt, ExpiresAt: c.ExpiresAt}
	if c.ExpiresAt != nil && !now().Before(*c.ExpiresAt) {
		return t, ErrExpired
	}
	return t, nil
}

// Bearer returns the usable token for apiURL, or "".
func Bearer(apiURL string) string {
	t, err := Lookup(apiURL)
	if err != nil || t == nil {
		return ""
	}
	return t.Value
}

// Save stores token for apiURL, replacing the previous one. A zero ttl never expires.
func Save(apiURL, token string, ttl time.Duration) error {
	key, err := Endpoint(apiURL)
	if err != nil {
		return err
	}
	token = stripBearer(token)
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if ttl < 0 {
		return fmt.Errorf("negative ttl %s", ttl)
	}

	f, err := load()
	if err != nil {
		return err
	}
	c := credential{Token: token, SavedAt: now().UTC()}
	if ttl > 0 {
		exp := c.SavedAt.Add(ttl)
		c.ExpiresAt = &exp
	}
	f.Endpoints[key] = c
	return store(f)
}

// Forget removes the token for apiURL; other endpoints keep theirs.
func Forget(apiURL string) error {
	key, err := Endpoint(apiURL)
	if err != nil {
		return err
	}
	f, err := load()
	if err != nil {
		return err
	}
	if _, ok := f.Endpoints[key]; !ok {
		return nil
	}
	delete(f.Endpoints, key)
	return store(f)
}

// Endpoints lists the endpoints that have a saved token.
func Endpoints() ([]string, error) {
	f, err := load()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(f.Endpoints))
	for k := range f.Endpoints {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func credFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

func load() (credentialFile, error) {
	f := credentialFile{Endpoints: map[string]credential{}}
	p, err := credFilePath()
	if err != nil {
		return f, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return f, fmt.Errorf("read credentials: %w", err)
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("parse credentials: %w", err)
	}
	if f.Endpoints == nil {
		f.Endpoints = map[string]credential{}
	}
	return f, nil
}

// store rewrites the file atomically, or removes it once nothing is saved.
func store(f credentialFile) error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if len(f.Endpoints) == 0 {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove credentials: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 7 && strings.EqualFold(s[:7], "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
