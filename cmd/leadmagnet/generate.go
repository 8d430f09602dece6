package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	leadmagnet "github.com/hatlem/getanswers-sub001"
	"github.com/hatlem/getanswers-sub001/internal/config"
	"github.com/hatlem/getanswers-sub001/internal/fileutil"
)

func newGenerateCmd(env *Environment, state *runState) *cobra.Command {
	var flags commonFlags
	var gf generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one document from flags",
		Long: `Generate renders a single document. Exactly one content source is required:
--md-file, --markdown or --html.

Examples:
  leadmagnet generate --title "Support Playbook" --slug playbook --md-file playbook.md
  leadmagnet generate --title "Quick Tips" --slug tips --markdown "# Tips" --brand helpdeskpro
  leadmagnet generate --title "Promo" --slug promo --html "<p>Hi</p>" --cta-url https://example.com/start`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := gf.request()
			if err != nil {
				return err
			}
			return withGenerator(cmd.Context(), &flags, env, state,
				func(ctx context.Context, _ *config.Config, gen *leadmagnet.Generator, _ zerolog.Logger) error {
					return runGenerate(ctx, gen, req, gf.htmlOut, env.Stdout)
				})
		},
	}

	addCommonFlags(cmd.Flags(), &flags)
	addGenerateFlags(cmd.Flags(), &gf)
	return cmd
}

// request builds the generation request from the document flags.
func (g *generateFlags) request() (leadmagnet.Request, error) {
	var sources []leadmagnet.Content
	if g.mdFile != "" {
		sources = append(sources, leadmagnet.MarkdownFile(g.mdFile))
	}
	if g.markdown != "" {
		sources = append(sources, leadmagnet.MarkdownText(g.markdown))
	}
	if g.html != "" {
		sources = append(sources, leadmagnet.HTML(g.html))
	}
	if len(sources) != 1 {
		return leadmagnet.Request{}, fmt.Errorf("%w: exactly one of --md-file, --markdown or --html is required", ErrUsage)
	}
	if g.title == "" || g.slug == "" {
		return leadmagnet.Request{}, fmt.Errorf("%w: --title and --slug are required", ErrUsage)
	}

	req := leadmagnet.Request{
		Title:         g.title,
		Description:   g.description,
		Content:       sources[0],
		Slug:          g.slug,
		Category:      g.category,
		CoverFeatures: g.features,
	}
	if g.brand != "" {
		req.Brand = leadmagnet.BrandKey(g.brand)
	}
	if g.cta != (ctaFlags{}) {
		req.SalesCTA = &leadmagnet.SalesCTA{
			Headline:    g.cta.headline,
			Subheadline: g.cta.subheadline,
			ButtonText:  g.cta.text,
			ButtonURL:   g.cta.url,
		}
	}
	return req, nil
}

// pdfGenerator is the slice of Generator the generate command needs.
type pdfGenerator interface {
	documentGenerator
	Compose(ctx context.Context, req leadmagnet.Request) (string, error)
}

// runGenerate renders req, optionally saving the composed HTML first.
func runGenerate(ctx context.Context, gen pdfGenerator, req leadmagnet.Request, htmlOut string, w io.Writer) error {
	if htmlOut != "" {
		doc, err := gen.Compose(ctx, req)
		if err != nil {
			return err
		}
		if err := fileutil.WriteAtomic(htmlOut, []byte(doc)); err != nil {
			return fmt.Errorf("%w: writing %s: %v", leadmagnet.ErrIO, htmlOut, err)
		}
		fmt.Fprintf(w, "HTML  %s\n", htmlOut)
	}

	res, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "PDF   %s (%s, %d pages)\n", res.PDFPath, humanize.Bytes(uint64(res.FileSize)), renderedPages(res)) // #nosec G115 -- size is non-negative
	fmt.Fprintf(w, "URL   %s\n", res.PDFURL)
	if res.PublishedURL != "" {
		fmt.Fprintf(w, "S3    %s\n", res.PublishedURL)
	}
	return nil
}

// renderedPages prefers the measured page count over the logical one.
func renderedPages(res *leadmagnet.Result) int {
	if res.RenderedPages > 0 {
		return res.RenderedPages
	}
	return res.PageCount
}
