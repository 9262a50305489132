package main

import (
	"fmt"
	"os"

	"github.com/portfolio/internal/config"
	"github.com/spf13/cobra"
)

var appConfig config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio and blog server",
	Long: `portfolio serves the public portfolio home page and blog, and the
session-protected admin dashboard used to manage projects, interests,
posts and site settings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, createAdminCmd)

	// 未指定子命令时直接启动服务
	rootCmd.RunE = serveCmd.RunE

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
