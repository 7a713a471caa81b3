package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/rossum/internal/constants"
)

// NewConfigureCommand creates the configure command.
func NewConfigureCommand() *cobra.Command {
	var noPrompt bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure API credentials",
		Long: `Store the API URL and credentials of a profile in the config file.

Values given by --url, --username, --password or --token are stored as is.
Missing values are asked for unless --no-prompt is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigureCommand(cmd, noPrompt)
		},
	}

	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "do not ask for missing values")

	return cmd
}

func runConfigureCommand(cmd *cobra.Command, noPrompt bool) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	name := profileName(config)

	profile, ok := config.Profiles[name]
	if !ok || profile == nil {
		profile = &Profile{URL: constants.DefaultAPIURL}
	}

	override(&profile.URL, "url")
	override(&profile.Username, "username")
	override(&profile.Password, "password")
	override(&profile.Token, "token")

	if !noPrompt && viper.GetString("token") == "" {
		err = promptProfile(cmd, profile)
		if err != nil {
			return err
		}
	}

	config.Profiles[name] = profile
	config.CurrentProfile = name

	err = saveConfig(config)
	if err != nil {
		return err
	}

	path, _ := configFilePath()
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %s saved to %s.\n", name, path)

	return nil
}

func promptProfile(cmd *cobra.Command, profile *Profile) error {
	prompt := newPrompter(cmd)

	var err error

	if viper.GetString("url") == "" {
		profile.URL, err = prompt.line("API URL", profile.URL)
		if err != nil {
			return err
		}
	}

	if viper.GetString("username") == "" {
		profile.Username, err = prompt.line("Username", profile.Username)
		if err != nil {
			return err
		}
	}

	if viper.GetString("password") == "" {
		profile.Password, err = prompt.secret("Password")
		if err != nil {
			return err
		}
	}

	return nil
}
