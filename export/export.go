package export

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/malonaz/tgexport/configuration"
	"github.com/malonaz/tgexport/internal/catalog"
	"github.com/malonaz/tgexport/internal/cli"
	"github.com/malonaz/tgexport/internal/debug"
	"github.com/malonaz/tgexport/internal/export"
	"github.com/malonaz/tgexport/internal/file"
	"github.com/malonaz/tgexport/internal/gateway"
	"github.com/malonaz/tgexport/internal/render"
	"github.com/malonaz/tgexport/store"
)

// NewCmd instantiates and returns the export command.
func NewCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		Output string
	}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a direct-message dialog to JSON and HTML",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			if config.APIID == 0 || config.APIHash == "" || config.APIHash == "API_HASH" {
				cli.Error("api_id and api_hash are not configured.\n")
				cli.Info("Get them at https://my.telegram.org and set them in the config file.\n")
				os.Exit(1)
			}

			err := file.CreateDirectoryIfNotExist(config.ExportDirectory)
			cobra.CheckErr(err)

			// Instantiate the export ledger.
			s, err := store.New(config.HistoryFile)
			cobra.CheckErr(err)
			defer s.Close()

			// An interrupt cancels the context: the session closes cleanly
			// and a mid-retrieval export aborts before any file is written.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			client := gateway.NewClient(
				config.APIID, config.APIHash, config.SessionFile,
				gateway.NewTerminalAuthenticator(), debug.GetLogger(),
			)
			cli.Info("Connecting to Telegram...\n")
			err = client.Run(ctx, func(ctx context.Context) error {
				return run(ctx, client, s, config, opts.Output)
			})
			if errors.Is(err, context.Canceled) {
				cli.Error("\nInterrupted.\n")
				return
			}
			cobra.CheckErr(err)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "override the structured output file path")
	return cmd
}

func run(ctx context.Context, client *gateway.Client, s *store.Store, config *configuration.Config, output string) error {
	self, err := client.Self(ctx)
	if err != nil {
		return errors.Wrap(err, "getting self identity")
	}
	selfName := catalog.DisplayName(self.FirstName, self.LastName, self.Username, self.ID)
	cli.Success("Authorized as %s\n", selfName)

	for {
		cli.Info("\nLoading private dialogs...\n")
		dialogs, err := catalog.ListPrivateDialogs(ctx, client)
		if err != nil {
			return errors.Wrap(err, "listing private dialogs")
		}
		if len(dialogs) == 0 {
			cli.Error("No private dialogs found.\n")
			return nil
		}

		// Headers.
		cli.Title("PRIVATE DIALOGS")
		options := make([]string, len(dialogs))
		for i, dialog := range dialogs {
			options[i] = formatDialog(dialog)
		}
		index, err := cli.SelectOption("Pick a dialog to export:", options)
		if err != nil {
			// Selection aborted.
			return nil
		}
		dialog := dialogs[index]
		cli.Success("Selected dialog with: %s\n", dialog.Name)

		// Export.
		cli.Info("Downloading messages...\n")
		pipeline := export.NewPipeline(client, self, func(count int) {
			cli.Progress("Loaded %d messages\n", count)
		})
		bundle, err := pipeline.Export(ctx, dialog)
		if err != nil {
			return errors.Wrap(err, "exporting dialog")
		}
		cli.Success("Loaded %d messages in total\n", bundle.Info.TotalMessages)

		// Write the structured document. If this fails the presentation
		// render is skipped: the HTML is derived from the JSON.
		jsonPath := output
		if jsonPath == "" {
			jsonPath = export.DefaultFilename(config.ExportDirectory, bundle.Other())
		}
		if err := export.Write(bundle, jsonPath); err != nil {
			return errors.Wrap(err, "writing structured document")
		}
		htmlPath := strings.TrimSuffix(jsonPath, ".json") + ".html"
		if err := render.WriteFile(bundle, htmlPath); err != nil {
			return errors.Wrap(err, "writing presentation document")
		}

		// Record the export in the ledger.
		record := &store.Export{
			PeerID:       dialog.UserID,
			PeerName:     dialog.Name,
			Username:     dialog.Username,
			MessageCount: bundle.Info.TotalMessages,
			JSONPath:     jsonPath,
			HTMLPath:     htmlPath,
		}
		if err := s.Record(record); err != nil {
			return errors.Wrap(err, "recording export")
		}

		cli.Separator()
		cli.Success("EXPORT COMPLETE\n")
		cli.Info("  Dialog with: %s\n", dialog.Name)
		cli.Info("  Messages:    %d\n", bundle.Info.TotalMessages)
		cli.FileInfo("  JSON file:   %s\n", jsonPath)
		cli.FileInfo("  HTML page:   %s\n", htmlPath)
		cli.Info("  Open the HTML page in a browser to view the dialog.\n")

		if !cli.QueryUser("Export another dialog?") {
			return nil
		}
	}
}

// formatDialog renders one picker line: index, name, handle, last activity
// and unread count.
func formatDialog(dialog *catalog.DialogSummary) string {
	name := dialog.Name
	if runes := []rune(name); len(runes) > 35 {
		name = string(runes[:35])
	}
	handle := "no username"
	if dialog.Username != "" {
		handle = "@" + dialog.Username
	}
	lastDate := ""
	if !dialog.LastMessageAt.IsZero() {
		lastDate = dialog.LastMessageAt.Format("2006-01-02 15:04")
	}
	unread := ""
	if dialog.UnreadCount > 0 {
		unread = fmt.Sprintf(" (%d unread)", dialog.UnreadCount)
	}
	return fmt.Sprintf("%3d. %-35s | %-20s | %s%s", dialog.Index, name, handle, lastDate, unread)
}
