package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pocketbook/internal/services"
)

// PasswordEnv can supply the password so it stays out of shell history.
const PasswordEnv = "POCKETCTL_PASSWORD"

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().StringP("username", "u", "", "Login name (required)")
	userCreateCmd.Flags().StringP("password", "p", "", "Password, at least 8 characters (or set "+PasswordEnv+")")
	userCreateCmd.Flags().StringP("display-name", "n", "", "Name shown in the app")
	_ = userCreateCmd.MarkFlagRequired("username")
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user who can log in",
	Args:  cobra.NoArgs,
	RunE:  runUserCreate,
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	displayName, _ := cmd.Flags().GetString("display-name")
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}
	if password == "" {
		return errors.New("a password is required: pass --password or set " + PasswordEnv)
	}

	_, mgr, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(mgr)

	user, err := services.NewUserService(mgr.DB()).CreateUser(username, password, displayName)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.Username, user.ID)
	return nil
}
