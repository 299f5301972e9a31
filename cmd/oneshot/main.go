// Command oneshot renders athlete pages, contact cards and QR codes
// without running the API.
package main

import (
	"os"

	"oneshot-backend/internal/shared/utils"
	"oneshot-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oneshot",
		Short:         "OneShot offline tools: static profile pages, vCards and QR codes",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			logger.Init(utils.GetEnvVariable("APP_ENV", "development"))
		},
	}

	root.AddCommand(newGenerateCmd(), newVCardCmd(), newQRCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
