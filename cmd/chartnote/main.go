package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "chartnote",
	Short: "chartnote - realtime chart comment server",
	Long: `chartnote serves a Nasdaq futures chart with live, anchored comments.
It combines a Yahoo Finance feed, a websocket fan-out and a comment store
behind one HTTP server.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
