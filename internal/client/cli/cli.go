package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/areacheck/internal/client/api"
	"github.com/iudanet/areacheck/internal/client/auth"
	"github.com/iudanet/areacheck/internal/client/iocli"
	"github.com/iudanet/areacheck/internal/client/storage/boltdb"
)

const (
	// EnvPassword задает пароль без интерактивного ввода
	EnvPassword = "AREACHECK_PASSWORD"
	// EnvServer задает URL сервера по умолчанию
	EnvServer = "AREACHECK_SERVER"

	defaultServerURL = "http://localhost:8080"
	defaultDBPath    = "areacheck-client.db"

	outputText = "text"
	outputJSON = "json"
)

// BuildInfo содержит информацию о сборке клиента
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Options содержит глобальные флаги клиента
type Options struct {
	ServerURL    string
	DBPath       string
	PasswordFile string
	Output       string
}

// Cli собирает команды клиента и их зависимости
type Cli struct {
	io        iocli.IO
	apiClient *api.Client
	store     *boltdb.Storage
	auth      *auth.Service
	opts      Options
	build     BuildInfo
}

// New создает клиент командной строки
func New(io iocli.IO, build BuildInfo) *Cli {
	serverURL := os.Getenv(EnvServer)
	if serverURL == "" {
		serverURL = defaultServerURL
	}

	return &Cli{
		io:    io,
		build: build,
		opts: Options{
			ServerURL: serverURL,
			DBPath:    defaultDBPath,
			Output:    outputText,
		},
	}
}

// RootCmd строит дерево команд
func (c *Cli) RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "areacheck",
		Short: "CLI client for the AreaCheck service",
		Long: `areacheck registers an account, keeps the session token locally
and checks whether points fall inside the region for a given R.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.opts.Output != outputText && c.opts.Output != outputJSON {
				return fmt.Errorf("unknown output format %q", c.opts.Output)
			}
			c.apiClient = api.NewClient(c.opts.ServerURL)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetOut(c.io)
	rootCmd.SetErr(c.io)

	rootCmd.PersistentFlags().StringVar(&c.opts.ServerURL, "server", c.opts.ServerURL, "Server URL (env: "+EnvServer+")")
	rootCmd.PersistentFlags().StringVar(&c.opts.DBPath, "db", c.opts.DBPath, "Path to local session database")
	rootCmd.PersistentFlags().StringVar(&c.opts.PasswordFile, "password-file", "", "Path to file containing password")
	rootCmd.PersistentFlags().StringVarP(&c.opts.Output, "output", "o", c.opts.Output, "Output format: text, json")

	rootCmd.AddCommand(c.newRegisterCmd())
	rootCmd.AddCommand(c.newLoginCmd())
	rootCmd.AddCommand(c.newLogoutCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newHistoryCmd())
	rootCmd.AddCommand(c.newClearCmd())
	rootCmd.AddCommand(c.newHealthCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return rootCmd
}

// Execute выполняет команду и закрывает локальное хранилище
func (c *Cli) Execute(ctx context.Context, args []string) error {
	cmd := c.RootCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if closeErr := c.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// Close закрывает локальное хранилище, если оно было открыто
func (c *Cli) Close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	c.auth = nil
	return err
}

// authService открывает хранилище сессии при первом обращении
func (c *Cli) authService(ctx context.Context) (*auth.Service, error) {
	if c.auth != nil {
		return c.auth, nil
	}

	store, err := boltdb.New(ctx, c.opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	c.store = store
	c.auth = auth.NewService(c.apiClient, store, nil, c.opts.ServerURL)
	return c.auth, nil
}

// token возвращает действующий токен сессии
func (c *Cli) token(ctx context.Context) (string, error) {
	svc, err := c.authService(ctx)
	if err != nil {
		return "", err
	}

	token, err := svc.Token(ctx)
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		return "", fmt.Errorf("not authenticated. Please run 'areacheck login' first")
	case errors.Is(err, auth.ErrSessionExpired):
		return "", fmt.Errorf("session expired. Please run 'areacheck login' again")
	case err != nil:
		return "", err
	}

	return token, nil
}

// readPassword получает пароль из источников по приоритету:
// 1. Переменная окружения AREACHECK_PASSWORD
// 2. Файл из --password-file
// 3. Интерактивный ввод
func (c *Cli) readPassword(prompt string) (string, error) {
	if envPassword := os.Getenv(EnvPassword); envPassword != "" {
		return envPassword, nil
	}

	if c.opts.PasswordFile != "" {
		content, err := os.ReadFile(c.opts.PasswordFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline
		password := strings.TrimRight(string(content), "\r\n")
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

// readCredentials берет username из аргумента или спрашивает его
func (c *Cli) readCredentials(args []string) (string, string, error) {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		input, err := c.io.ReadInput("Username: ")
		if err != nil {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
		username = input
	}

	password, err := c.readPassword("Password: ")
	if err != nil {
		return "", "", err
	}

	return username, password, nil
}

// printJSON выводит значение в формате JSON
func (c *Cli) printJSON(v any) error {
	enc := json.NewEncoder(c.io)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *Cli) jsonOutput() bool {
	return c.opts.Output == outputJSON
}
