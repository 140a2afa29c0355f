package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRegisterCmd создаёт CLI-команду для создания учётной записи.
//
// Обязательный флаг --email. Пароль берётся из --password, из stdin
// (--password-stdin) или спрашивается в терминале.
//
// Пример использования:
//
//	useraccounts register --email test@example.com --name "Test User"
func NewRegisterCmd(app *App) *cobra.Command {
	var (
		email, name, password string
		passwordStdin         bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Создать учётную запись",
		Long: `Создание учётной записи на сервере.

Пример:
  useraccounts register --email test@example.com --name "Test User"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFromFlags(cmd, password, passwordStdin, "Password: ")
			if err != nil {
				return err
			}

			// создаём учётную запись на сервере
			u, err := app.Client().CreateUser(email, pw, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registration successful: %s\n", u.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for registration")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password (visible in shell history, prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
