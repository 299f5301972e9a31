package main

import (
	"context"
	"fmt"

	"oneshot-backend/internal/domains/profile/render"
	"oneshot-backend/internal/domains/profile/service"
	"oneshot-backend/internal/infrastructure/qrcode"
	"oneshot-backend/internal/shared/utils"
	"oneshot-backend/pkg/keylock"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	file        string
	format      string
	baseURL     string
	profilesDir string
	template    string
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render athlete records into static HTML pages",
		Example: `  oneshot generate -f athlete.json --base-url https://oneshot.example
  oneshot generate -f roster.yaml --profiles-dir ./public/profiles`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "athlete record(s), JSON or YAML")
	f.StringVar(&opts.format, "format", "", "force the decoder: json or yaml")
	f.StringVar(&opts.baseURL, "base-url", "http://localhost:5001", "origin the pages are served from")
	f.StringVar(&opts.profilesDir, "profiles-dir", utils.GetEnvVariable("PROFILES_DIR", "public/profiles"), "output directory")
	f.StringVar(&opts.template, "template", utils.GetEnvVariable("PROFILE_TEMPLATE", "templates/profile-template.html"), "page template")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, opts *generateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	records, err := readRecords(opts.file, opts.format)
	if err != nil {
		return err
	}

	renderer := render.NewRenderer()
	generator := service.NewGenerator(
		service.GeneratorConfig{ProfilesDir: opts.profilesDir, QROptions: qrcode.ProfileOptions()},
		render.NewTemplateStore(opts.template, renderer),
		renderer,
		qrcode.NewEncoder(nil),
		keylock.New(),
		nil,
	)

	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}

		result, err := generator.Generate(ctx, rec.ToProfile(), opts.baseURL)
		if err != nil {
			return fmt.Errorf("record %d (%s): %w", i+1, rec.FullName, err)
		}
		if result.Degraded {
			log.Warn().Str("slug", result.Slug).Str("reason", result.Reason).Msg("Rendered with fallback template")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", result.FilePath, result.ProfileURL)
	}
	return nil
}
