package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lowkey/studybuddy/core/account"
)

func (cli *commandLine) addUserCmd() *cobra.Command {
	var role, uname, subject string
	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Enroll a student or an educator without going through the owner menu",
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
			if err := cli.addUser(r, uname, pwd, subject); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s added.\n", r, uname)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", account.RoleStudent.String(), "student or educator")
	cmd.Flags().StringVar(&uname, "username", "", "The account's username. The password will be prompted next.")
	cmd.Flags().StringVar(&subject, "subject", "", "The educator's subject")
	return cmd
}

// addUser creates a student or an educator account.
func (cli *commandLine) addUser(role account.Role, uname, pwd, subject string) error {
	switch role {
	case account.RoleStudent:
		return cli.accounts.AddStudent(account.NewStudent{Username: uname, Password: pwd})
	case account.RoleEducator:
		return cli.accounts.AddEducator(account.NewEducator{Username: uname, Password: pwd, Subject: subject})
	default:
		return account.ErrUnsupportedRole
	}
}
