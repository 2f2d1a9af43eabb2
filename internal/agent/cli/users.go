package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-users/internal/agent/api"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/shared/models"
)

// NewCreateCmd создаёт команду создания пользователя.
//
// Пароль берётся из --password, --password-stdin или запрашивается интерактивно.
//
// Пример использования:
//
//	usersctl create --name Ann --email ann@x.com --password secret
func NewCreateCmd(app *App) *cobra.Command {
	var name, email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFromFlags(cmd, password, passwordStdin)
			if err != nil {
				return err
			}

			resp, err := app.Client().CreateUser(cmd.Context(), models.CreateUserRequest{
				Name:     name,
				Email:    email,
				Password: pw,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "user name")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&password, "password", "", "user password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")

	return cmd
}

// NewUpdateCmd создаёт команду частичного обновления пользователя.
//
// Отправляются только явно переданные флаги.
//
// Пример использования:
//
//	usersctl update 7 --name Anna
func NewUpdateCmd(app *App) *cobra.Command {
	var name, email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Обновить поля пользователя",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req models.UpdateUserRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("email") {
				req.Email = &email
			}
			switch {
			case cmd.Flags().Changed("password"):
				req.Password = &password
			case passwordStdin:
				pw, err := ReadPassword(cmd, true)
				if err != nil {
					return err
				}
				req.Password = &pw
			}

			resp, err := app.Client().UpdateUser(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new user name")
	cmd.Flags().StringVar(&email, "email", "", "new user email")
	cmd.Flags().StringVar(&password, "password", "", "new user password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read new password from stdin")

	return cmd
}

// NewDeleteCmd создаёт команду удаления пользователя.
//
// Пример использования:
//
//	usersctl delete 7
func NewDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить пользователя",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			resp, err := app.Client().DeleteUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
			return nil
		},
	}
}

// NewAuthCmd создаёт команду проверки учётных данных.
//
// Пример использования:
//
//	echo secret | usersctl auth --email ann@x.com --password-stdin
func NewAuthCmd(app *App) *cobra.Command {
	var email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Проверить email и пароль",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFromFlags(cmd, password, passwordStdin)
			if err != nil {
				return err
			}

			resp, err := app.Client().Authenticate(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&password, "password", "", "user password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	cmd.MarkFlagRequired("email")

	return cmd
}

// NewSearchCmd создаёт команду поиска пользователя.
//
// Сервер использует первый заданный ключ в порядке id, name, email.
//
// Пример использования:
//
//	usersctl search --name Ann
func NewSearchCmd(app *App) *cobra.Command {
	var id int64
	var name, email string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Найти пользователя по id, имени или email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := api.SearchParams{Name: name, Email: email}
			if cmd.Flags().Changed("id") {
				p.ID = &id
			}
			if p.ID == nil && p.Name == "" && p.Email == "" {
				return fmt.Errorf("one of --id, --name or --email is required")
			}

			resp, err := app.Client().Search(cmd.Context(), p)
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "user id")
	cmd.Flags().StringVar(&name, "name", "", "user name")
	cmd.Flags().StringVar(&email, "email", "", "user email")

	return cmd
}

// NewHealthCmd создаёт команду проверки сервера.
func NewHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Проверить доступность сервера и базы",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Client().Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

func printUser(w io.Writer, u models.UserResponse) {
	fmt.Fprintf(w, "id=%d\nname=%s\nemail=%s\n", u.ID, u.Name, u.Email)
}
