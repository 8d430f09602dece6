package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	leadmagnet "github.com/hatlem/getanswers-sub001"
	"github.com/hatlem/getanswers-sub001/internal/config"
)

// documentGenerator is the slice of Generator the batch driver needs.
type documentGenerator interface {
	Generate(ctx context.Context, req leadmagnet.Request) (*leadmagnet.Result, error)
}

// Compile-time interface implementation check.
var _ documentGenerator = (*leadmagnet.Generator)(nil)

// defaultDocuments is the built-in catalog generated when the config has
// no documents. Paths are relative to the working directory.
func defaultDocuments() []config.DocumentConfig {
	return []config.DocumentConfig{
		{
			Title:        "The Customer Support Playbook",
			Description:  "Cut response times in half with a support process that scales.",
			Slug:         "customer-support-playbook",
			Brand:        "getanswers",
			MarkdownFile: "content/lead-magnets/customer-support-playbook.md",
			Features:     []string{"Triage framework", "Reply templates", "Escalation matrix"},
		},
		{
			Title:        "Helpdesk Metrics That Matter",
			Description:  "The seven numbers every support lead should review each week.",
			Slug:         "helpdesk-metrics-guide",
			Brand:        "helpdeskpro",
			Category:     "Support Operations",
			MarkdownFile: "content/lead-magnets/helpdesk-metrics-guide.md",
		},
		{
			Title:        "Knowledge Base Launch Checklist",
			Description:  "Everything to prepare before your self-service portal goes live.",
			Slug:         "knowledge-base-checklist",
			Brand:        "knowledgehub",
			MarkdownFile: "content/lead-magnets/knowledge-base-checklist.md",
			Features:     []string{"40-point checklist", "Article templates", "Launch timeline"},
		},
	}
}

// documentRequest converts a batch entry into a generation request.
func documentRequest(d config.DocumentConfig) leadmagnet.Request {
	req := leadmagnet.Request{
		Title:         d.Title,
		Description:   d.Description,
		Slug:          d.Slug,
		Category:      d.Category,
		CoverFeatures: d.Features,
	}

	switch {
	case d.MarkdownFile != "":
		req.Content = leadmagnet.MarkdownFile(d.MarkdownFile)
	case d.Markdown != "":
		req.Content = leadmagnet.MarkdownText(d.Markdown)
	case d.HTML != "":
		req.Content = leadmagnet.HTML(d.HTML)
	default:
		req.Content = leadmagnet.DetectContent(d.Content)
	}

	if d.Brand != "" {
		req.Brand = leadmagnet.BrandKey(d.Brand)
	}

	if d.CTA != nil {
		req.SalesCTA = &leadmagnet.SalesCTA{
			Headline:    d.CTA.Headline,
			Subheadline: d.CTA.Subheadline,
			ButtonText:  d.CTA.ButtonText,
			ButtonURL:   d.CTA.ButtonURL,
		}
	}
	return req
}

// batchSummary counts the outcome of a batch run.
type batchSummary struct {
	Generated int
	Failed    int
	Skipped   int // not attempted because the context was canceled
	Duration  time.Duration
}

// runBatch generates docs one after another. A failing document is reported
// and logged, and the next one is still attempted.
func runBatch(ctx context.Context, gen documentGenerator, docs []config.DocumentConfig, w io.Writer, log zerolog.Logger) batchSummary {
	start := time.Now()
	var sum batchSummary

	for i, d := range docs {
		if ctx.Err() != nil {
			sum.Skipped = len(docs) - i
			break
		}

		fmt.Fprintf(w, "Generating %s...\n", d.Title)
		res, err := gen.Generate(ctx, documentRequest(d))
		if err != nil {
			sum.Failed++
			fmt.Fprintf(w, "  FAILED %s: %v\n", d.Title, err)
			log.Error().Err(err).Str("slug", d.Slug).Msg("document failed")
			continue
		}

		sum.Generated++
		fmt.Fprintf(w, "  -> %s (%s)\n", res.PDFPath, humanize.Bytes(uint64(res.FileSize))) // #nosec G115 -- size is non-negative
		if res.PublishedURL != "" {
			fmt.Fprintf(w, "     %s\n", res.PublishedURL)
		}
	}

	sum.Duration = time.Since(start)
	return sum
}

// printSummary writes the closing line of a batch run.
func printSummary(w io.Writer, s batchSummary) {
	fmt.Fprintf(w, "\n%d generated, %d failed", s.Generated, s.Failed)
	if s.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", s.Skipped)
	}
	fmt.Fprintf(w, " in %s\n", s.Duration.Round(time.Millisecond))
}

func newBatchCmd(env *Environment, state *runState) *cobra.Command {
	var flags commonFlags
	var only []string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate every configured document",
		Long: `Batch generates the documents listed under "documents:" in the config file,
or the built-in catalog when none are configured. Documents run one at a time;
a failure is reported and the batch moves on. Exit code 1 if any failed.

Examples:
  leadmagnet batch
  leadmagnet batch -c leadmagnet -o dist/lead-magnets
  leadmagnet batch --only helpdesk-metrics-guide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withGenerator(cmd.Context(), &flags, env, state,
				func(ctx context.Context, cfg *config.Config, gen *leadmagnet.Generator, log zerolog.Logger) error {
					docs := cfg.Documents
					if len(docs) == 0 {
						docs = defaultDocuments()
					}
					docs, err := selectDocuments(docs, only)
					if err != nil {
						return err
					}

					sum := runBatch(ctx, gen, docs, env.Stdout, log)
					printSummary(env.Stdout, sum)

					if err := ctx.Err(); err != nil {
						return err
					}
					if sum.Failed > 0 {
						return fmt.Errorf("%w: %d of %d documents failed", ErrBatchFailed, sum.Failed, len(docs))
					}
					return nil
				})
		},
	}

	addCommonFlags(cmd.Flags(), &flags)
	cmd.Flags().StringSliceVar(&only, "only", nil, "Generate only these slugs (comma-separated)")
	return cmd
}

// selectDocuments keeps the documents whose slug is listed in only, in
// catalog order. An empty filter keeps everything.
func selectDocuments(docs []config.DocumentConfig, only []string) ([]config.DocumentConfig, error) {
	if len(only) == 0 {
		return docs, nil
	}

	want := make(map[string]bool, len(only))
	for _, s := range only {
		want[s] = true
	}

	var out []config.DocumentConfig
	for _, d := range docs {
		if want[d.Slug] {
			out = append(out, d)
			delete(want, d.Slug)
		}
	}
	for _, s := range only {
		if want[s] {
			return nil, fmt.Errorf("%w: --only %q matches no document", ErrUsage, s)
		}
	}
	return out, nil
}
