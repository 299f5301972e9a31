package main

import (
	"fmt"
	"os"

	"oneshot-backend/internal/infrastructure/qrcode"

	"github.com/spf13/cobra"
)

func newQRCmd() *cobra.Command {
	var (
		url    string
		output string
		o      = qrcode.DownloadOptions()
	)

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Write a QR code PNG for a URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			png, err := qrcode.NewEncoder(nil).PNG(url, o)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&url, "url", "", "payload to encode")
	f.StringVarP(&output, "output", "o", "qr-code.png", "output PNG")
	f.IntVar(&o.WidthPx, "width", o.WidthPx, "image width in pixels")
	f.IntVar(&o.MarginModules, "margin", o.MarginModules, "quiet zone in modules")
	f.StringVar(&o.Dark, "dark", o.Dark, "module colour")
	f.StringVar(&o.Light, "light", o.Light, "background colour")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
