package cli

import (
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-users/internal/agent/api"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/agent/config"
)

// для тестов
var (
	NewAPIClient = api.NewClient
	ReadPassword = func(cmd *cobra.Command, fromStdin bool) (string, error) {
		return readPassword(cmd, fromStdin)
	}
	SaveSettings = config.Save
)
