// Package cli реализует командный интерфейс (CLI) клиента usersctl.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных настроек (адрес сервера) из конфигурационного файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета: функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-users/internal/agent/api"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/agent/config"
)

// DefaultServerURL: адрес сервера, если он не задан ни флагом, ни в конфиге.
const DefaultServerURL = "http://127.0.0.1:8080"

// App содержит состояние CLI-приложения, разделяемое между командами.
type App struct {
	// ServerURL: базовый URL сервера (например, "http://127.0.0.1:8080").
	ServerURL string
	// Insecure: не проверять TLS-сертификат сервера.
	Insecure bool

	// ConfigPath: путь к файлу с настройками клиента.
	ConfigPath string
	// Settings: загруженные настройки.
	// Может быть nil, если загрузка не выполнялась или завершилась ошибкой.
	Settings *config.Settings
}

// Client создаёт API-клиент по текущим настройкам.
func (app *App) Client() *api.Client {
	return NewAPIClient(app.ServerURL, app.Insecure)
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
// В PersistentPreRunE загружаются настройки: адрес сервера из конфига
// используется, если флаг --server не передан.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "usersctl",
		Short: "usersctl: клиент сервера управления пользователями",
		Long: `usersctl.

Команды:
  create    Создать пользователя
  update    Обновить поля пользователя
  delete    Удалить пользователя
  auth      Проверить email и пароль
  search    Найти пользователя по id, имени или email
  health    Проверить доступность сервера
  server    Показать или сохранить адрес сервера по умолчанию
  version   Версия и дата сборки

Примеры:

Создание:
  usersctl create --name Ann --email ann@x.com --password secret

Поиск:
  usersctl search --email ann@x.com

Сервер по умолчанию:
  usersctl server http://127.0.0.1:8080
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.ConfigPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.ConfigPath = p
			}

			settings, err := config.Load(app.ConfigPath)
			if err != nil {
				return fmt.Errorf("load %s: %w", app.ConfigPath, err)
			}
			app.Settings = settings

			if !cmd.Flags().Changed("server") && settings.Server != "" {
				app.ServerURL = settings.Server
			}
			if !cmd.Flags().Changed("insecure") && settings.Insecure {
				app.Insecure = true
			}
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", DefaultServerURL, "server base URL")
	cmd.PersistentFlags().BoolVar(&app.Insecure, "insecure", false, "skip TLS certificate verification (dev only)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "path to config file (default ~/.usersctl/config.json)")

	cmd.AddCommand(NewCreateCmd(app))
	cmd.AddCommand(NewUpdateCmd(app))
	cmd.AddCommand(NewDeleteCmd(app))
	cmd.AddCommand(NewAuthCmd(app))
	cmd.AddCommand(NewSearchCmd(app))
	cmd.AddCommand(NewHealthCmd(app))
	cmd.AddCommand(NewServerCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1 (os.Exit(1)).
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
