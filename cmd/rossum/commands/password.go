package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// NewPasswordCommand creates the password command group.
func NewPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage passwords",
		Long:  "Change the password of the current user or reset the password of another user",
	}

	cmd.AddCommand(newPasswordChangeCommand())
	cmd.AddCommand(newPasswordResetCommand())

	return cmd
}

func newPasswordChangeCommand() *cobra.Command {
	var newPassword string

	cmd := &cobra.Command{
		Use:   "change",
		Short: "Change password of the current user",
		Long:  "Change the password of the current user. The new password is asked for twice unless --new-password is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if newPassword == "" {
				var err error

				newPassword, err = newPrompter(cmd).newPassword()
				if err != nil {
					return err
				}
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				result, err := client.ChangePassword(ctx, newPassword)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintln(out, result.String("detail"))
				_, _ = fmt.Fprintln(out, `Run "rossum configure" to update existing credentials.`)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&newPassword, "new-password", "", "new password")

	return cmd
}

func newPasswordResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset EMAIL",
		Short: "Reset password for other user",
		Long:  "Send a password reset email to the user with the given email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				result, err := client.ResetPassword(ctx, args[0])
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.String("detail"))

				return nil
			})
		},
	}
}
