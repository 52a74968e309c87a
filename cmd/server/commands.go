package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/config"
	"github.com/lusolearn/lusolearn-api/internal/platform/postgres"
	"github.com/lusolearn/lusolearn-api/internal/service"
	"github.com/lusolearn/lusolearn-api/internal/service/auth"
	"github.com/spf13/cobra"
)

// ErrAuthDisabled is returned by the token command when no JWT secret is set.
var ErrAuthDisabled = errors.New("authentication is disabled: set auth.jwt_secret")

// ErrMigrateDriver is returned when migrate runs against a non-postgres store.
var ErrMigrateDriver = errors.New("migrations only apply to the postgres driver")

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(commandContext(cmd), flags)
		},
	}
}

func migrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|status>",
		Short:     "Apply or inspect the postgres schema migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("%w (configured: %s)", ErrMigrateDriver, cfg.Database.Driver)
			}

			ctx := commandContext(cmd)
			db, err := postgres.Open(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.Migrate(ctx, db, args[0], nil)
		},
	}
}

func tokenCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return issueToken(commandContext(cmd), cfg.Auth, cmd.OutOrStdout())
		},
	}
}

// issueToken prints a signed owner token and its expiry.
func issueToken(ctx context.Context, cfg config.AuthConfig, out io.Writer) error {
	if !cfg.Enabled() {
		return ErrAuthDisabled
	}

	jwtService, err := auth.NewJWTService(cfg)
	if err != nil {
		return err
	}

	token, expiresAt, err := jwtService.GenerateToken(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s\nexpires: %s\n", token, expiresAt.UTC().Format(time.RFC3339))
	return err
}

func exportCmd(flags *globalFlags) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup of cards, profile and folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backupFormat, err := service.ParseBackupFormat(format)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			app, err := openForMaintenance(ctx, flags)
			if err != nil {
				return err
			}
			defer app.cleanup()

			if output == "-" {
				return exportBackup(ctx, app.syncService, cmd.OutOrStdout(), backupFormat)
			}
			if output == "" {
				output = service.BackupFileName(time.Now(), backupFormat)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := exportBackup(ctx, app.syncService, f, backupFormat); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "backup written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Backup format (json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default lusolearn_backup_<date>.<format>)")

	return cmd
}

func exportBackup(ctx context.Context, syncService service.SyncService, w io.Writer, format service.BackupFormat) error {
	return service.EncodeBackup(w, syncService.Export(ctx), format)
}

func importCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with the contents of a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = formatFromPath(path)
			}
			backupFormat, err := service.ParseBackupFormat(format)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			ctx := commandContext(cmd)
			app, err := openForMaintenance(ctx, flags)
			if err != nil {
				return err
			}
			defer app.cleanup()

			if err := importBackup(ctx, app.syncService, f, backupFormat); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Backup format (json, yaml); guessed from the extension when empty")

	return cmd
}

func importBackup(ctx context.Context, syncService service.SyncService, r io.Reader, format service.BackupFormat) error {
	doc, err := service.DecodeBackup(r, format)
	if err != nil {
		return err
	}
	return syncService.Import(ctx, doc)
}

// formatFromPath maps .yaml and .yml files to yaml and anything else to json.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return string(service.BackupFormatYAML)
	default:
		return string(service.BackupFormatJSON)
	}
}

// openForMaintenance wires the application for a one-shot command. Smart
// sort is not needed, so the Gemini key is ignored.
func openForMaintenance(ctx context.Context, flags *globalFlags) (*application, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	cfg.LLM.GeminiAPIKey = ""
	return newApplication(ctx, cfg, nil)
}
