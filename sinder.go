package main

import (
	"github.com/sinder-app/sinder/deployer"
	"github.com/sinder-app/sinder/hooks"
	"github.com/sinder-app/sinder/server"
	"github.com/sinder-app/sinder/session"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"os"
)

var rootCmd = &cobra.Command{
	Use:   "sinder",
	Short: "sinder: swipe right to absolve on-chain sins, with the read api and deploy tools.",
}

func init() {
	rootCmd.AddCommand(server.Cmd)
	rootCmd.AddCommand(session.Cmd)
	rootCmd.AddCommand(deployer.Cmd)
	rootCmd.AddCommand(hooks.Cmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
