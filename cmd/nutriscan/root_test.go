package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"nutriscan-backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "migrate")
	assert.Contains(t, out, "goals")
}

func TestGoalsCalc(t *testing.T) {
	out, err := run(t, "goals", "calc", "--age", "30", "--gender", "male", "--height", "175", "--weight", "70",
		"--activity", "moderately_active", "--goal", "maintain")
	require.NoError(t, err)

	assert.Contains(t, out, "Goal: maintain")
	assert.Contains(t, out, "BMR: 1648.75")
	assert.Contains(t, out, "Calories: 2556")
	assert.Contains(t, out, "Protein: 160g")
	assert.Contains(t, out, "Carbs: 319g")
	assert.Contains(t, out, "Fat: 71g")
}

func TestGoalsCalcRejectsUnknownGoal(t *testing.T) {
	_, err := run(t, "goals", "calc", "--age", "30", "--gender", "male", "--height", "175", "--weight", "70", "--goal", "bulk")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	out, err := run(t, "token", "--uid", "uid-1", "--email", "ana@example.com")
	require.NoError(t, err)

	identity, err := jwt.NewLocalJWTService("test-secret").VerifyToken(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "uid-1", identity.UID)
	assert.Equal(t, "ana@example.com", identity.Email)
}
