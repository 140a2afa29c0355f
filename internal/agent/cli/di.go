package cli

import (
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/agent/api"
)

// для тестов
var (
	NewAPIClient = api.NewClient
	ReadPassword = func(cmd *cobra.Command, fromStdin bool, prompt string) (string, error) {
		return readPassword(cmd, fromStdin, prompt)
	}
)
