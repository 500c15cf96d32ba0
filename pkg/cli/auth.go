package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/trustscore/pkg/net"
	"github.com/mchmarny/trustscore/pkg/remote"
	"github.com/zalando/go-keyring"
)

const (
	tokenEnvVar    = "GITHUB_TOKEN"
	tokenFileName  = "github_token"
	keyringService = "trustscore"
	keyringUser    = "github_token"
)

// newRemoteClient returns a metadata client, authenticated when a token is
// available.
func newRemoteClient(ctx context.Context) *remote.Client {
	token, err := getGitHubToken()
	if err != nil {
		slog.Debug("no github token, using unauthenticated client", "error", err)
	}
	if token == "" {
		return remote.NewClient(net.GetHTTPClient())
	}
	return remote.NewClient(net.GetOAuthClient(ctx, token))
}

// getGitHubToken looks up the token in the environment, then the OS
// keychain, then the token file. No token is not an error.
func getGitHubToken() (string, error) {
	if token := strings.TrimSpace(os.Getenv(tokenEnvVar)); token != "" {
		return token, nil
	}

	token, err := keyring.Get(keyringService, keyringUser)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		slog.Debug("keychain lookup failed", "error", err)
	}

	token, err = getGitHubTokenFile()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

func getGitHubTokenFile() (string, error) {
	tokenPath := filepath.Join(getHomeDir(), tokenFileName)
	b, err := os.ReadFile(tokenPath)
	if err != nil {
		return "", fmt.Errorf("reading token file %s: %w", tokenPath, err)
	}
	return strings.TrimSpace(string(b)), nil
}
