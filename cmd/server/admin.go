package main

import (
	"errors"
	"fmt"

	"github.com/portfolio/internal/db"
	"github.com/spf13/cobra"
)

var (
	adminEmailFlag    string
	adminPasswordFlag string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account if it does not exist yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmailFlag == "" || adminPasswordFlag == "" {
			return errors.New("--email and --password are required")
		}

		gdb, err := db.Open(appConfig.DatabaseDriver, appConfig.DatabaseTarget())
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}

		created, err := db.EnsureUser(gdb, adminEmailFlag, adminPasswordFlag)
		if err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		if !created {
			fmt.Fprintln(cmd.OutOrStdout(), "admin already exists, nothing to do")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", adminEmailFlag)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmailFlag, "email", "", "admin email address")
	createAdminCmd.Flags().StringVar(&adminPasswordFlag, "password", "", "admin password")
}
