// Package commands implements the CLI subcommands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/restbridge/restbridge/pkg/api/v1/client"
	"github.com/restbridge/restbridge/pkg/api/v1/routes"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagToken         = "token"
)

// environment variable names
const (
	envServerAddress = "RESTBRIDGE_SERVER_ADDRESS"
	envToken         = "RESTBRIDGE_TOKEN"
)

var (
	// apiClient is the shared API client instance
	apiClient *client.APIClient
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// authToken is the bearer token sent on model requests.
	authToken string
)

// initClient initializes the API client
func initClient() error {
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress

	var err error
	apiClient, err = client.NewClient(opts)
	if err != nil {
		return err
	}

	apiClient.AuthToken = authToken
	return nil
}

func init() {
	// Defaults here; PersistentPreRunE applies the env var overrides.
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL,
		"Address of the API server (env: "+envServerAddress+")")
	RootCmd.PersistentFlags().StringVarP(&authToken, flagToken, "t", "",
		"Access token for model commands (env: "+envToken+")")

	RootCmd.AddCommand(GetAuthCmd())
	RootCmd.AddCommand(GetModelsCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "restbridge",
	Short: "restbridge CLI - A command line interface for the restbridge API",
	Long:  `restbridge CLI is a command line tool for browsing and editing records through the restbridge gateway.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Precedence: flag > env var > default.
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}
		if !cmd.Flags().Changed(flagToken) {
			if envTok := os.Getenv(envToken); envTok != "" {
				authToken = envTok
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
