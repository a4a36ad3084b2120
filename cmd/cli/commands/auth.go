package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/restbridge/restbridge/internal/auth"
)

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(renewCmd)

	loginCmd.Flags().StringP("database", "d", "", "database the server is bound to")
	loginCmd.Flags().StringP("username", "u", "", "login of the user")
	loginCmd.Flags().StringP("password", "p", "", "password of the user")
	_ = loginCmd.MarkFlagRequired("database")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")

	renewCmd.Flags().StringP("database", "d", "", "database the server is bound to")
	_ = renewCmd.MarkFlagRequired("database")
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Obtain and renew access tokens",
}

// GetAuthCmd returns the auth command
func GetAuthCmd() *cobra.Command {
	return authCmd
}

// loginCmd exchanges credentials for an access token
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with credentials",
	Long:  `Exchange a username and password for an access token. The token is printed to stdout.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, _ := cmd.Flags().GetString("database")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		token, err := apiClient.Authenticate(context.Background(), auth.Request{
			Method:   auth.MethodCredentials,
			Database: database,
			Username: username,
			Password: password,
		})
		if err != nil {
			return fmt.Errorf("error authenticating: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

// renewCmd exchanges a still-valid token for a fresh one
var renewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Renew the current token",
	Long:  `Exchange a still-valid access token (from --token or the environment) for a fresh one.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, _ := cmd.Flags().GetString("database")

		if authToken == "" {
			return fmt.Errorf("no token to renew, pass --%s or set %s", flagToken, envToken)
		}

		token, err := apiClient.Authenticate(context.Background(), auth.Request{
			Method:   auth.MethodToken,
			Database: database,
			Token:    authToken,
		})
		if err != nil {
			return fmt.Errorf("error renewing token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}
