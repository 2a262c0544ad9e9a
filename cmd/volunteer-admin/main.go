package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dimitrije/volunteer-api/internal/catalog"
	"github.com/dimitrije/volunteer-api/internal/config"
	"github.com/dimitrije/volunteer-api/internal/database"
	"github.com/dimitrije/volunteer-api/internal/logging"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/dimitrije/volunteer-api/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is shared by every subcommand once the root PersistentPreRunE has run.
type app struct {
	cfg    *config.Config
	db     *database.DB
	logger *zap.Logger
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "volunteer-admin",
		Short:         "Maintenance commands for the volunteer API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.AddCommand(a.migrateCmd(), a.promoteCmd(), a.sweepCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		a.close()
		os.Exit(1)
	}
}

func (a *app) init(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	a.db = db
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.db.Migrate(cmd.Context()); err != nil {
				return err
			}
			a.logger.Info("migrations applied")
			return nil
		},
	}
}

func (a *app) promoteCmd() *cobra.Command {
	var demote bool

	cmd := &cobra.Command{
		Use:   "promote <email>",
		Short: "Give a user the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := models.RoleAdmin
			if demote {
				role = models.RoleVolunteer
			}

			users := services.NewUserService(a.db, nil)
			user, err := users.SetRoleByEmail(cmd.Context(), args[0], role)
			if err != nil {
				return fmt.Errorf("failed to update %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().BoolVar(&demote, "demote", false, "set the role back to volunteer")
	return cmd
}

func (a *app) sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Close open events that are past their date or full",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refData, err := catalog.Load(a.cfg.CatalogPath)
			if err != nil {
				return err
			}

			notifications := services.NewNotificationService(a.db, a.cfg.NotificationLimit, nil)
			activity := services.NewActivityService(a.db, a.cfg.NotificationLimit)
			sink := services.NewFeedSink(notifications, activity, a.logger)

			events := services.NewEventService(a.db, sink, refData.Urgency)
			closed, err := events.SweepStatuses(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "closed %d event(s)\n", closed)
			return nil
		},
	}
}
