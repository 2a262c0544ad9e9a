package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"Low", "Medium", "High", "Critical"}, c.Urgency)
	assert.Len(t, c.Skills, 13)
	assert.Contains(t, c.Skills, "First Aid")
	assert.True(t, c.HasUrgency("High"))
	assert.False(t, c.HasUrgency("high"))
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Urgency, 4)
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := "skills:\n  - \" Cooking \"\n  - Driving\nurgency:\n  - Normal\n  - Urgent\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Cooking", "Driving"}, c.Skills)
	assert.Equal(t, []string{"Normal", "Urgent"}, c.Urgency)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"invalid yaml", "skills: [", "failed to parse catalog"},
		{"missing urgency", "skills:\n  - Cooking\n", "catalog validation failed"},
		{"duplicate skill", "skills:\n  - Cooking\n  - Cooking\nurgency:\n  - Low\n", "catalog validation failed"},
		{"blank level", "skills:\n  - Cooking\nurgency:\n  - \"  \"\n", "catalog validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog file")
}
