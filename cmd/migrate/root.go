package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tomlord1122/todoapp/internal/config"
	"github.com/Tomlord1122/todoapp/internal/database"
	"github.com/Tomlord1122/todoapp/internal/logger"
	"github.com/Tomlord1122/todoapp/internal/migrations"
)

var (
	rootCmd = &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or revert versioned schema migrations",
		SilenceUsage: true,
	}

	upCmd = &cobra.Command{
		Use:   "up [migration-id]",
		Short: "Apply pending migrations, optionally stopping at migration-id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db database.Service) error {
				if len(args) == 1 {
					return migrations.UpTo(db.GetDB(), args[0])
				}
				return migrations.Up(db.GetDB())
			})
		},
	}

	downCmd = &cobra.Command{
		Use:   "down",
		Short: "Revert the most recently applied migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db database.Service) error {
				return migrations.Down(db.GetDB())
			})
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db database.Service) error {
				list, err := migrations.List(db.GetDB())
				if err != nil {
					return err
				}
				for _, m := range list {
					mark := " "
					if m.Applied {
						mark = "x"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", mark, m.ID)
				}
				return nil
			})
		},
	}
)

func init() {
	rootCmd.Long = "Apply or revert versioned schema migrations.\n\n" + config.Usage()
	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

// withDB needs only the database settings; JWT_SECRET may be unset.
func withDB(fn func(database.Service) error) error {
	cfg, err := config.LoadDB()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	db, err := database.New(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}
