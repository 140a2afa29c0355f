package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/agent/api"
)

// NewMeCmd создаёт CLI-команду, которая показывает профиль владельца токена.
//
// Пример использования:
//
//	useraccounts me
func NewMeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Показать профиль",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Token()
			if err != nil {
				return err
			}

			u, err := app.Client().Me(token)
			if err != nil {
				return sessionError(err)
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

// NewUpdateCmd создаёт CLI-команду частичного изменения профиля.
//
// Отправляются только явно переданные флаги. Новый пароль берётся из
// --password, из stdin (--password-stdin) или спрашивается при --change-password.
//
// Пример использования:
//
//	useraccounts update --name "New Name"
//	useraccounts update --change-password
func NewUpdateCmd(app *App) *cobra.Command {
	var (
		email, name, password         string
		passwordStdin, changePassword bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Изменить email, имя или пароль",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Token()
			if err != nil {
				return err
			}

			var req api.UpdateMeRequest
			if cmd.Flags().Changed("email") {
				req.Email = &email
			}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if password != "" || passwordStdin || changePassword {
				pw, err := passwordFromFlags(cmd, password, passwordStdin, "New password: ")
				if err != nil {
					return err
				}
				req.Password = &pw
			}
			if req.Email == nil && req.Name == nil && req.Password == nil {
				return errors.New("nothing to update: pass --email, --name or a new password")
			}

			u, err := app.Client().UpdateMe(token, req)
			if err != nil {
				return sessionError(err)
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&password, "password", "", "new password (visible in shell history)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read new password from stdin")
	cmd.Flags().BoolVar(&changePassword, "change-password", false, "prompt for a new password")

	return cmd
}

// sessionError подсказывает перелогиниться, если сервер не принял токен.
func sessionError(err error) error {
	if api.IsStatus(err, http.StatusUnauthorized) {
		return fmt.Errorf("%w (token rejected, run `useraccounts login` again)", err)
	}
	return err
}

func printUser(w io.Writer, u api.User) {
	fmt.Fprintf(w, "email=%s\nname=%s\n", u.Email, u.Name)
}
