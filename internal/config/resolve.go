package config

import (
	"errors"
	"fmt"
	"strings"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	BaseURL   string
	Token     string
	PathStyle string
	OpenAPI   string
}

// Overrides are command-line values that win over the environment and the
// stored profile. Empty fields are ignored.
type Overrides struct {
	BaseURL   string
	Token     string
	Profile   string
	PathStyle string
	OpenAPI   string
}

// ResolveClientConfig merges the stored profile, the environment and the
// overrides, in increasing order of precedence.
func ResolveClientConfig(o Overrides) (ClientConfig, error) {
	var creds Credentials
	var err error
	if o.Profile != "" {
		creds, err = LoadProfile(o.Profile)
	} else {
		creds, err = LoadCredentials()
	}
	if err != nil && !(errors.Is(err, ErrNotConfigured) && o.BaseURL != "") {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		BaseURL:   creds.BaseURL,
		Token:     creds.Token,
		PathStyle: creds.PathStyle,
		OpenAPI:   creds.OpenAPI,
	}
	if v := firstNonBlankEnv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := firstNonBlankEnv(EnvPathStyle); v != "" {
		cfg.PathStyle = v
	}
	if v := firstNonBlankEnv(EnvOpenAPI); v != "" {
		cfg.OpenAPI = v
	}

	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.Token != "" {
		cfg.Token = o.Token
	}
	if o.PathStyle != "" {
		cfg.PathStyle = o.PathStyle
	}
	if o.OpenAPI != "" {
		cfg.OpenAPI = o.OpenAPI
	}
	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")

	if cfg.BaseURL == "" {
		return ClientConfig{}, fmt.Errorf("base URL not configured (set %s, run 'remsfal auth login', or pass --base-url)", EnvBaseURL)
	}
	return cfg, nil
}
