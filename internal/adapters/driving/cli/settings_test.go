package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			defaultVal: 1000,
			expected:   1000,
		},
		{
			name:       "Valid count",
			input:      "250",
			defaultVal: 1000,
			expected:   250,
		},
		{
			name:       "Zero is valid",
			input:      "0",
			defaultVal: 200,
			expected:   0,
		},
		{
			name:       "Negative returns default",
			input:      "-5",
			defaultVal: 50,
			expected:   50,
		},
		{
			name:       "Invalid input returns default",
			input:      "lots",
			defaultVal: 50,
			expected:   50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseCount(tt.input, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseRatio(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultVal float64
		expected   float64
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			defaultVal: 0.3,
			expected:   0.3,
		},
		{
			name:       "Valid ratio",
			input:      "0.5",
			defaultVal: 0.3,
			expected:   0.5,
		},
		{
			name:       "Zero is valid",
			input:      "0",
			defaultVal: 0.3,
			expected:   0,
		},
		{
			name:       "One is valid",
			input:      "1",
			defaultVal: 0.3,
			expected:   1,
		},
		{
			name:       "Above one returns default",
			input:      "1.5",
			defaultVal: 0.3,
			expected:   0.3,
		},
		{
			name:       "Negative returns default",
			input:      "-0.2",
			defaultVal: 0.3,
			expected:   0.3,
		},
		{
			name:       "Invalid input returns default",
			input:      "high",
			defaultVal: 0.3,
			expected:   0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseRatio(tt.input, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Settings Command Tests

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsCmd_Short(t *testing.T) {
	assert.Equal(t, "Manage application settings", settingsCmd.Short)
}

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	commands := settingsCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "wizard")
	assert.Contains(t, commandNames, "embedding")
	assert.Contains(t, commandNames, "chunking")
}

func TestSettingsShowCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Current Settings")
	assert.Contains(t, output, "[Embedding]")
	assert.Contains(t, output, "Provider: OpenAI (cloud)")
	assert.Contains(t, output, "Model: text-embedding-3-small")
	assert.Contains(t, output, "[Chunking]")
	assert.Contains(t, output, "Chunk size: 1000 tokens")
	assert.Contains(t, output, "Overlap: 200 tokens")
	assert.Contains(t, output, "[Query]")
	assert.Contains(t, output, "Default tenant: default")
	assert.Contains(t, output, "Similarity floor: 0.30")
	assert.Contains(t, output, "Configuration is valid.")
}

func TestSettingsShowCmd_MasksAPIKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "API Key: sk-c...0042")
	assert.NotContains(t, output, "sk-corpora-test-0042")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Current Settings")
}

func TestSettingsShowCmd_WarnsWhenInvalid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	settingsService = &mockSettingsServiceInvalid{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "API Key: (not set)")
	assert.Contains(t, output, "Status: not configured")
	assert.Contains(t, output, "Warning:")
	assert.Contains(t, output, "corpora settings wizard")
}

func TestSettingsShowCmd_ServiceNotConfigured(t *testing.T) {
	oldService := settingsService
	settingsService = nil
	defer func() {
		settingsService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestSettingsShowCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	settingsService = &mockSettingsServiceError{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get settings")
}

func TestSettingsWizardCmd_ServiceNotConfigured(t *testing.T) {
	oldService := settingsService
	settingsService = nil
	defer func() {
		settingsService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "wizard"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
