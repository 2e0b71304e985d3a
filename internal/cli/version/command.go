package version

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/internal/cli/common"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type info struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildDate  string `json:"build_date"`
	APIVersion string `json:"default_api_version"`
	Go         string `json:"go"`
}

func NewCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value := info{
				Version:    Version,
				Commit:     Commit,
				BuildDate:  BuildDate,
				APIVersion: config.DefaultAPIVersion,
				Go:         runtime.Version(),
			}
			return common.WriteOutput(cmd, globalFlags.Output, value, func(w io.Writer, item info) error {
				_, err := fmt.Fprintf(w, "%s (%s) %s admin-api=%s\n", item.Version, item.Commit, item.BuildDate, item.APIVersion)
				return err
			})
		},
	}
}

// UserAgent is sent with every Admin API request.
func UserAgent() string {
	return "shopctl/" + Version
}
