package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewServerCmd создаёт команду для адреса сервера по умолчанию.
//
// Без аргументов печатает текущий адрес, с аргументом сохраняет его в конфиг.
//
// Пример использования:
//
//	usersctl server https://users.example.com
func NewServerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "server [url]",
		Short: "Показать или сохранить адрес сервера по умолчанию",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), app.ServerURL)
				return nil
			}

			url := strings.TrimRight(strings.TrimSpace(args[0]), "/")
			if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
				return fmt.Errorf("server url must start with http:// or https://")
			}

			app.Settings.Server = url
			if cmd.Flags().Changed("insecure") {
				app.Settings.Insecure = app.Insecure
			}
			if err := SaveSettings(app.ConfigPath, app.Settings); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "default server set to %s\n", url)
			return nil
		},
	}
}
