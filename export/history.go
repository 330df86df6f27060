package export

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/malonaz/tgexport/configuration"
	"github.com/malonaz/tgexport/internal/cli"
	"github.com/malonaz/tgexport/store"
)

// NewHistoryCmd instantiates and returns the history command.
func NewHistoryCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		PageSize int
	}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past exports",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			s, err := store.New(config.HistoryFile)
			cobra.CheckErr(err)
			defer s.Close()

			exports, err := s.List(opts.PageSize)
			cobra.CheckErr(err)
			if len(exports) == 0 {
				cli.Info("No exports recorded yet.\n")
				return
			}

			cli.Title("EXPORT HISTORY")
			for _, export := range exports {
				exportedAt := time.Unix(export.ExportTimestamp, 0).Format("2006-01-02 15:04")
				cli.Info("%s  %-30s %6d messages  ", exportedAt, export.PeerName, export.MessageCount)
				cli.FileInfo("%s\n", export.JSONPath)
			}
		},
	}

	cmd.Flags().IntVar(&opts.PageSize, "page-size", 50, "Number of exports to display")
	return cmd
}
