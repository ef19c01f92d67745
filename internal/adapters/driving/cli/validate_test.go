package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

func TestValidateCmd_Use(t *testing.T) {
	assert.Equal(t, "validate [document]", validateCmd.Use)
}

func TestValidateCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"validate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestValidateCmd_HasFlags(t *testing.T) {
	for _, name := range []string{"framework", "json", "output", "watch"} {
		assert.NotNil(t, validateCmd.Flags().Lookup(name), "flag %s should exist", name)
	}
}

func TestValidateCmd_CompleteDocument(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeDocument(t, completeDocument())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"validate", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "COMPLETE")
	assert.NotContains(t, buf.String(), "NOT COMPLETE")
}

func TestValidateCmd_MissingCriticalSection(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeDocument(t, dropSection(completeDocument(), "risk-benefit-analysis"))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"validate", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, buf.String(), "NOT COMPLETE")
	assert.Contains(t, buf.String(), "risk-benefit-analysis")
	assert.Contains(t, buf.String(), "CRITICAL")
}

func TestValidateCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeDocument(t, completeDocument())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"validate", path, "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		validateJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	var result domain.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.True(t, result.Complete)
	assert.Zero(t, result.Checklist.Failed)
}

func TestValidateCmd_UnsupportedFramework(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeDocument(t, completeDocument())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"validate", path, "--framework", "imaginary"})
	defer func() {
		rootCmd.SetArgs(nil)
		validateFramework = ""
	}()

	err := rootCmd.Execute()

	require.ErrorIs(t, err, domain.ErrFrameworkNotSupported)
}

func TestValidateCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"validate", "/nonexistent/document.json"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrIncomplete)
}
