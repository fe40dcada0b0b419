package main

import (
	"github.com/spf13/cobra"

	"github.com/lowkey/studybuddy/core/account"
)

func (cli *commandLine) resetPasswordCmd() *cobra.Command {
	var role, uname string
	cmd := &cobra.Command{
		Use:   "resetpassword",
		Short: "Reset the password of a student, an educator or the owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if uname == "" {
				_ = cmd.Usage()
				return errHelp
			}
			r, err := account.ParseRole(role)
			if err != nil {
				return err
			}
			pwd, err := cli.readPassword("Enter password:")
			if err != nil {
				return err
			}
			if pwd == "" {
				_ = cmd.Usage()
				return errHelp
			}
			return cli.resetPassword(r, uname, pwd)
		},
	}
	cmd.Flags().StringVar(&role, "role", account.RoleStudent.String(), "student, educator or owner")
	cmd.Flags().StringVar(&uname, "username", "", "The account's username. The password will be prompted next.")
	return cmd
}

func (cli *commandLine) resetPassword(role account.Role, uname, pwd string) error {
	pr := account.PasswordReset{Username: uname, Password: pwd}
	if role == account.RoleOwner {
		return cli.org.ResetOwnerPassword(pr)
	}
	return cli.accounts.ResetPassword(role, pr)
}
