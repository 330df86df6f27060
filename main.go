package main

import (
	"github.com/spf13/cobra"

	"github.com/malonaz/tgexport/configuration"
	"github.com/malonaz/tgexport/export"
)

const configFilepath = "~/.tgexport/config.json"

var rootCmd = &cobra.Command{
	Use:   "tgexport",
	Short: "A CLI for exporting Telegram direct-message dialogs",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	rootCmd.AddCommand(export.NewCmd(config))
	rootCmd.AddCommand(export.NewRenderCmd(config))
	rootCmd.AddCommand(export.NewHistoryCmd(config))
	rootCmd.Execute()
}
