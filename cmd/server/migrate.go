package main

import (
    "context"

    "github.com/spf13/cobra"

    "github.com/iliyamo/coursehub/internal/config"
    "github.com/iliyamo/coursehub/internal/database"
    "github.com/iliyamo/coursehub/internal/logger"
)

func newMigrateCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "migrate",
        Short: "Manage the database schema",
    }
    for _, sub := range []struct {
        use, short string
        run        func(*database.Migrator, context.Context) error
    }{
        {"up", "Apply all pending migrations", (*database.Migrator).Up},
        {"down", "Roll back the latest migration", (*database.Migrator).Down},
        {"status", "Print applied and pending migrations", (*database.Migrator).Status},
    } {
        run := sub.run
        cmd.AddCommand(&cobra.Command{
            Use:   sub.use,
            Short: sub.short,
            Args:  cobra.NoArgs,
            RunE: func(cmd *cobra.Command, args []string) error {
                return withMigrator(cmd.Context(), run)
            },
        })
    }
    return cmd
}

func withMigrator(ctx context.Context, run func(*database.Migrator, context.Context) error) error {
    cfg, err := config.Load()
    if err != nil {
        return err
    }
    log := logger.New(cfg.Env, cfg.LogLevel, "coursehub-migrate")
    defer func() { _ = log.Sync() }()

    if ctx == nil {
        ctx = context.Background()
    }
    db, err := database.Open(ctx, cfg.DSN())
    if err != nil {
        return err
    }
    defer db.Close()
    return run(database.NewMigrator(db, log), ctx)
}
