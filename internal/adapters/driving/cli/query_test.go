package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

func TestQueryCmd_Use(t *testing.T) {
	assert.Equal(t, "query [text]", queryCmd.Use)
}

func TestQueryCmd_Short(t *testing.T) {
	assert.Equal(t, "Query the knowledge base", queryCmd.Short)
}

func TestQueryCmd_HasLimitFlag(t *testing.T) {
	flag := queryCmd.Flags().Lookup("limit")

	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestQueryCmd_HasJSONFlag(t *testing.T) {
	flag := queryCmd.Flags().Lookup("json")

	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestQueryCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestQueryCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "how do we rotate credentials?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Results:")
	assert.Contains(t, output, "[1] Security Runbook, engineering-docs, section 2 (0.91)")
	assert.Contains(t, output, "Rotate credentials every 90 days")
	assert.Contains(t, output, "confidence 0.91")
}

func TestQueryCmd_FallsBackToPreviewWithoutSnippet(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "key revocation"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Expired keys are revoked by the nightly janitor job.")
}

func TestQueryCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	knowledgeService = &mockKnowledgeServiceEmpty{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "nothing matches this"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestQueryCmd_MarksLexicalFallback(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	knowledgeService = &mockKnowledgeServiceFallback{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "rotate credentials"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Results (lexical fallback):")
}

func TestQueryCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "rotate credentials", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		queryJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)

	var results []domain.QueryResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "chunk-1", results[0].ChunkID)
	assert.Equal(t, "Security Runbook", results[0].Citation.DocumentTitle)
	assert.InDelta(t, 0.91, results[0].RelevanceScore, 0.001)
}

func TestQueryCmd_ServiceNotConfigured(t *testing.T) {
	oldService := knowledgeService
	knowledgeService = nil
	defer func() {
		knowledgeService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "knowledge service not configured")
}

func TestQueryCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	knowledgeService = &mockKnowledgeServiceError{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}

func TestOutputQueryText_Empty(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputQueryText(rootCmd, nil)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}
