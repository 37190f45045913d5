package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("BASE_API_KEY", " base-token ")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("EMAIL", "hr@example.com")
	t.Setenv("PASSWORD", "app-password")
	t.Setenv("EMAIL_TO", "boss@example.com, team@example.com")
}

func TestGetConfigFromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	config, err := getConfig(true)
	require.NoError(t, err)

	assert.Equal(t, "base-token", config.Base.AccessToken)
	assert.Equal(t, "https://hiring.base.vn", config.Base.URL)
	assert.Equal(t, 10000, config.Base.PageSize)
	assert.Equal(t, 8, config.Base.WindowEndHour)
	assert.Equal(t, 1, config.Base.WindowDays)
	assert.Equal(t, "google-key", config.AI.Gemini.APIKey)
	assert.Equal(t, "gemini-1.5-flash-latest", config.AI.Gemini.Model)
	assert.Equal(t, "smtp.gmail.com", config.Mail.Host)
	assert.Equal(t, 587, config.Mail.Port)
	assert.Equal(t, "hr@example.com", config.Mail.From)
	assert.Equal(t, []string{"boss@example.com", "team@example.com"}, config.Mail.To)
	assert.Equal(t, "cv_evaluations.csv", config.Report.Path)
	require.NotNil(t, config.Filters.MinDescriptionLength)
	assert.Equal(t, 10, *config.Filters.MinDescriptionLength)
	assert.Equal(t, "Asia/Ho_Chi_Minh", config.Timezone)
	assert.Equal(t, 3*time.Second, config.Delay)
	assert.Equal(t, "0 8 * * *", config.Schedule)
}

func TestGetConfigSecretFromFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))
	t.Setenv("BASE_API_KEY_FILE", path)

	config, err := getConfig(true)
	require.NoError(t, err)
	assert.Equal(t, "from-file", config.Base.AccessToken)
}

func TestGetConfigMissingSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := getConfig(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Gemini API key")
}

func TestGetConfigInvalidRecipient(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMAIL_TO", "not-an-address")

	_, err := getConfig(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Mail.To[0]")
}

func TestGetConfigDryRunSkipsMail(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMAIL", "")
	t.Setenv("PASSWORD", "")
	t.Setenv("EMAIL_TO", "")

	_, err := getConfig(true)
	require.Error(t, err)

	config, err := getConfig(false)
	require.NoError(t, err)
	assert.Empty(t, config.Mail.From)
}

func TestGetConfigZeroMinimumDescriptionLength(t *testing.T) {
	setRequiredEnv(t)
	viper.Set("filters.min-description-length", 0)
	viper.Set("filters.disable", []string{"description"})
	t.Cleanup(func() {
		viper.Set("filters.min-description-length", nil)
		viper.Set("filters.disable", nil)
	})

	config, err := getConfig(true)
	require.NoError(t, err)

	require.NotNil(t, config.Filters.MinDescriptionLength)
	assert.Equal(t, 0, *config.Filters.MinDescriptionLength)
	assert.Equal(t, []string{"description"}, config.Filters.Disable)
}

func TestSplitRecipients(t *testing.T) {
	got := splitRecipients([]string{"a@example.com,b@example.com", " ", " c@example.com "})
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, got)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Equal(t, "cv-scoring version: unknown\n", out.String())
}
