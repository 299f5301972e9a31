package main

import (
	"fmt"
	"os"
	"strings"

	"oneshot-backend/internal/domains/vcard"

	"github.com/spf13/cobra"
)

type vcardOptions struct {
	file   string
	format string
	url    string
	output string
}

func newVCardCmd() *cobra.Command {
	opts := &vcardOptions{}

	cmd := &cobra.Command{
		Use:   "vcard",
		Short: "Write the contact card of an athlete record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVCard(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "athlete record, JSON or YAML")
	f.StringVar(&opts.format, "format", "", "force the decoder: json or yaml")
	f.StringVar(&opts.url, "url", "", "profile URL written into the card")
	f.StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout (default: the card's file name)`)
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runVCard(cmd *cobra.Command, opts *vcardOptions) error {
	records, err := readRecords(opts.file, opts.format)
	if err != nil {
		return err
	}
	if len(records) != 1 {
		return fmt.Errorf("vcard takes exactly one record, %s has %d", opts.file, len(records))
	}
	if strings.TrimSpace(records[0].FullName) == "" {
		return fmt.Errorf("record has no fullName")
	}

	card := vcard.BuildFile(records[0].ToProfile(), opts.url)

	switch opts.output {
	case "-":
		_, err = fmt.Fprint(cmd.OutOrStdout(), card.Content)
		return err
	case "":
		opts.output = card.FileName
	}

	if err := os.WriteFile(opts.output, []byte(card.Content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), opts.output)
	return nil
}
