package main

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poc3/api-backend/internal/crypto"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSecretCommand(t *testing.T) {
	out, err := run(t, "secret")
	require.NoError(t, err)

	match := regexp.MustCompile(`ADMIN_JWT_SECRET=(\S+)`).FindStringSubmatch(out)
	require.Len(t, match, 2)
	assert.NoError(t, crypto.ValidateSecret(match[1]))
}

func TestTokenCommand(t *testing.T) {
	secret, err := crypto.GenerateSecret()
	require.NoError(t, err)
	t.Setenv("ADMIN_JWT_SECRET", secret)

	out, err := run(t, "token", "--subject", "ops", "--ttl", "1h", "--env-file", t.TempDir()+"/missing.env")
	require.NoError(t, err)

	var token string
	for _, line := range strings.Split(out, "\n") {
		if strings.Count(line, ".") == 2 && !strings.Contains(line, " ") {
			token = line
		}
	}
	require.NotEmpty(t, token, out)

	claims, err := crypto.VerifyAdminJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
}

func TestTokenCommandNeedsSecret(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")

	_, err := run(t, "token", "--env-file", t.TempDir()+"/missing.env")
	assert.ErrorContains(t, err, "ADMIN_JWT_SECRET is not set")
}
