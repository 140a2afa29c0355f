// Package cli реализует командный интерфейс (CLI) клиента сервера учётных записей.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных учётных данных (токен) из конфигурационного файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/agent/api"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/agent/config"
)

const defaultServerURL = "http://127.0.0.1:8080"

// ErrNotLoggedIn — команда требует токен, а его нет.
var ErrNotLoggedIn = errors.New("not logged in; run `useraccounts login` first")

// App содержит состояние CLI-приложения, разделяемое между командами.
type App struct {
	// ServerURL — базовый URL сервера (например, "http://127.0.0.1:8080").
	ServerURL string
	// Insecure — не проверять TLS-сертификат сервера (только для dev).
	Insecure bool

	// CredsPath — путь к файлу с сохранённым токеном.
	CredsPath string
	// Creds — загруженные учётные данные из файла конфигурации.
	Creds *config.Credentials
}

// Client создаёт API-клиент по настройкам приложения.
func (a *App) Client() *api.Client {
	if a.Insecure {
		return NewAPIClient(a.ServerURL, api.WithInsecureTLS())
	}
	return NewAPIClient(a.ServerURL)
}

// Token возвращает сохранённый токен или ErrNotLoggedIn.
func (a *App) Token() (string, error) {
	if !a.Creds.LoggedIn() {
		return "", ErrNotLoggedIn
	}
	return a.Creds.Token, nil
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
// В PersistentPreRunE определяется путь к файлу учётных данных и загружается токен.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "useraccounts",
		Short: "useraccounts CLI — клиент сервера учётных записей",
		Long: `useraccounts CLI.

Команды:
  register  Создать учётную запись
  login     Войти и сохранить токен
  me        Показать профиль
  update    Изменить email, имя или пароль
  logout    Удалить сохранённый токен
  version   Версия и дата сборки

Примеры:

Регистрация:
  useraccounts register --email test@example.com --name "Test User"
  (пароль спрашивается в терминале)

Логин:
  echo -n 'StrongPass123' | useraccounts login --email test@example.com --password-stdin
  (сохраняет токен в локальном конфиге)

Профиль:
  useraccounts me
  useraccounts update --name "New Name"
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.CredsPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.CredsPath = p
			}

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("USERACCOUNTS_SERVER", defaultServerURL), "server base URL")
	cmd.PersistentFlags().BoolVar(&app.Insecure, "insecure", false, "skip TLS certificate verification (dev only)")
	cmd.PersistentFlags().StringVar(&app.CredsPath, "credentials", "", "path to credentials file (default ~/.useraccounts/credentials.json)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewMeCmd(app))
	cmd.AddCommand(NewUpdateCmd(app))
	cmd.AddCommand(NewLogoutCmd(app))
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

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
