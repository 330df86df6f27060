package export

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/malonaz/tgexport/configuration"
	"github.com/malonaz/tgexport/internal/cli"
	"github.com/malonaz/tgexport/internal/export"
	"github.com/malonaz/tgexport/internal/render"
)

// NewRenderCmd instantiates and returns the render command, which
// regenerates the presentation document from an existing structured export.
func NewRenderCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "render <export.json>",
		Short: "Regenerate the HTML page from a structured export",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			jsonPath := args[0]
			bundle, err := export.Read(jsonPath)
			cobra.CheckErr(errors.Wrap(err, "reading structured document"))

			htmlPath := strings.TrimSuffix(jsonPath, ".json") + ".html"
			err = render.WriteFile(bundle, htmlPath)
			cobra.CheckErr(errors.Wrap(err, "writing presentation document"))

			cli.Success("Rendered %d messages\n", bundle.Info.TotalMessages)
			cli.FileInfo("HTML page: %s\n", htmlPath)
		},
	}
}
