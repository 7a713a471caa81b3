package commands

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/rossum/internal/constants"
)

const testConfigFile = "/cfg/config.yml"

func readStoredConfig(t *testing.T, fs afero.Fs) Config {
	t.Helper()

	data, err := afero.ReadFile(fs, testConfigFile)
	require.NoError(t, err)

	var config Config
	require.NoError(t, yaml.Unmarshal(data, &config))

	return config
}

func TestConfigure_NoPrompt(t *testing.T) {
	fs := useMemFs(t)

	output, err := runCommand(t, "", "configure", "--no-prompt", "--config", testConfigFile,
		"--url", "https://api.test", "--username", "jane", "--password", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Profile default saved to /cfg/config.yml.\n", output)

	config := readStoredConfig(t, fs)
	assert.Equal(t, constants.DefaultProfile, config.CurrentProfile)
	require.Contains(t, config.Profiles, constants.DefaultProfile)
	assert.Equal(t, Profile{URL: "https://api.test", Username: "jane", Password: "secret"}, *config.Profiles["default"])

	info, err := fs.Stat(testConfigFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())
}

func TestConfigure_Prompts(t *testing.T) {
	fs := useMemFs(t)

	_, err := runCommand(t, "\njane\nsecret\n", "configure", "--config", testConfigFile, "--profile", "work")
	require.NoError(t, err)

	config := readStoredConfig(t, fs)
	assert.Equal(t, "work", config.CurrentProfile)
	assert.Equal(t, Profile{URL: constants.DefaultAPIURL, Username: "jane", Password: "secret"}, *config.Profiles["work"])
}

func TestConfigure_KeepsOtherProfiles(t *testing.T) {
	fs := useMemFs(t)

	require.NoError(t, afero.WriteFile(fs, testConfigFile, []byte(`current_profile: work
profiles:
  work:
    url: https://work.test
    token: abc
`), constants.ConfigFilePerm))

	_, err := runCommand(t, "", "configure", "--no-prompt", "--config", testConfigFile,
		"--profile", "home", "--url", "https://home.test", "--token", "xyz")
	require.NoError(t, err)

	config := readStoredConfig(t, fs)
	assert.Equal(t, "home", config.CurrentProfile)
	assert.Equal(t, "abc", config.Profiles["work"].Token)
	assert.Equal(t, "xyz", config.Profiles["home"].Token)
}

func TestClientConfig_Errors(t *testing.T) {
	t.Run("no url", func(t *testing.T) {
		useMemFs(t)

		_, err := runCommand(t, "", "queue", "list", "--config", testConfigFile, "--token", "t")
		require.ErrorIs(t, err, constants.ErrNoURLConfigured)
	})

	t.Run("no credentials", func(t *testing.T) {
		useMemFs(t)

		_, err := runCommand(t, "", "queue", "list", "--config", testConfigFile, "--url", "https://api.test")
		require.ErrorIs(t, err, constants.ErrNoUsernameConfigured)
	})

	t.Run("unknown profile", func(t *testing.T) {
		useMemFs(t)

		_, err := runCommand(t, "", "queue", "list", "--config", testConfigFile, "--profile", "missing")
		require.ErrorIs(t, err, constants.ErrProfileNotFound)
	})
}
