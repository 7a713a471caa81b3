package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/rossum/internal/constants"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// appFs backs the profile store and every file the commands read.
var appFs = afero.NewOsFs()

// Config is the profile store.
type Config struct {
	CurrentProfile string              `json:"current_profile,omitempty" mapstructure:"current_profile" yaml:"current_profile,omitempty"`
	Profiles       map[string]*Profile `json:"profiles,omitempty"        mapstructure:"profiles"        yaml:"profiles,omitempty"`
}

// Profile holds the credentials of one account.
type Profile struct {
	URL      string `json:"url"                mapstructure:"url"      yaml:"url"`
	Username string `json:"username,omitempty" mapstructure:"username" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" mapstructure:"password" yaml:"password,omitempty"`
	Token    string `json:"token,omitempty"    mapstructure:"token"    yaml:"token,omitempty"`
}

// InitConfig points viper at the profile store and the ROSSUM_ environment.
func InitConfig() error {
	viper.SetFs(appFs)

	cfgFile := viper.GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := defaultConfigDir()
		if err != nil {
			return err
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType(constants.ConfigFileType)
		viper.SetConfigName(constants.ConfigFileName)
	}

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	return nil
}

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName), nil
}

// configFilePath returns the file the profile store is written to.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	configDir, err := defaultConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, constants.ConfigFileName+"."+constants.ConfigFileType), nil
}

func loadConfig() (*Config, error) {
	config := &Config{}

	err := viper.Unmarshal(config)
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config.Profiles == nil {
		config.Profiles = map[string]*Profile{}
	}

	return config, nil
}

func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = appFs.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = afero.WriteFile(appFs, configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// profileName returns the selected profile: --profile, then the stored
// current profile, then "default".
func profileName(config *Config) string {
	if name := viper.GetString("profile"); name != "" {
		return name
	}

	if config.CurrentProfile != "" {
		return config.CurrentProfile
	}

	return constants.DefaultProfile
}

// currentProfile resolves the selected profile with flag and environment
// overrides applied.
func currentProfile() (*Profile, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	name := profileName(config)

	profile := &Profile{}
	if stored, ok := config.Profiles[name]; ok && stored != nil {
		*profile = *stored
	} else if viper.GetString("profile") != "" {
		return nil, fmt.Errorf("%w: %s", constants.ErrProfileNotFound, name)
	}

	override(&profile.URL, "url")
	override(&profile.Username, "username")
	override(&profile.Password, "password")
	override(&profile.Token, "token")

	return profile, nil
}

func override(target *string, key string) {
	if value := viper.GetString(key); value != "" {
		*target = value
	}
}

// clientConfig builds the client settings of the current profile.
func clientConfig(cmd *cobra.Command) (*rossum.Config, error) {
	profile, err := currentProfile()
	if err != nil {
		return nil, err
	}

	if profile.URL == "" {
		return nil, constants.ErrNoURLConfigured
	}

	if profile.Token == "" && profile.Username == "" {
		return nil, constants.ErrNoUsernameConfigured
	}

	debug := viper.GetBool("debug")

	return &rossum.Config{
		URL:      profile.URL,
		Username: profile.Username,
		Password: profile.Password,
		Token:    profile.Token,
		Debug:    debug,
		Logger:   newLogger(cmd.ErrOrStderr(), verbosity(), debug),
	}, nil
}
