package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/agent/config"
)

// NewLoginCmd создаёт CLI-команду для входа пользователя.
//
// Команда получает токен на сервере и сохраняет его в локальный
// конфигурационный файл вместе с email и адресом сервера.
//
// Пример использования:
//
//	useraccounts login --email test@example.com --password-stdin
func NewLoginCmd(app *App) *cobra.Command {
	var (
		email, password string
		passwordStdin   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Войти и сохранить токен",
		Long: `Логин пользователя.

Пример:
  useraccounts login --email test@example.com --password StrongPass123
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFromFlags(cmd, password, passwordStdin, "Password: ")
			if err != nil {
				return err
			}

			// выполняем логин пользователя
			resp, err := app.Client().Login(email, pw)
			if err != nil {
				return err
			}

			// сохраняем токен в локальный конфигурационный файл
			app.Creds = &config.Credentials{
				Token:     resp.Token,
				Email:     email,
				ServerURL: app.ServerURL,
			}
			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "login ok (token saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for login")
	cmd.Flags().StringVar(&password, "password", "", "password (visible in shell history, prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// NewLogoutCmd создаёт CLI-команду, удаляющую сохранённый токен.
//
// Сервер не уведомляется: токен просто забывается клиентом.
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Удалить сохранённый токен",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Remove(app.CredsPath); err != nil {
				return err
			}
			app.Creds = &config.Credentials{}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
