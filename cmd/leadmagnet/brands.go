package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	leadmagnet "github.com/hatlem/getanswers-sub001"
	"github.com/hatlem/getanswers-sub001/internal/config"
	"github.com/hatlem/getanswers-sub001/internal/yamlutil"
)

// brandInfo is one row of the brands listing.
type brandInfo struct {
	Key       string `json:"key"`
	Default   bool   `json:"default"`
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	Category  string `json:"category"`
	CTA       string `json:"cta_url"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

func newBrandsCmd(env *Environment, state *runState) *cobra.Command {
	var flags commonFlags
	var asJSON, asYAML bool

	cmd := &cobra.Command{
		Use:   "brands",
		Short: "List the brand registry",
		Long: `Brands prints the registered brands. The default brand, used when a
document names an unknown brand, is marked with "*". With --yaml the
registry is printed as a brands: block ready to paste into a config file.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if asJSON && asYAML {
				return fmt.Errorf("%w: --json and --yaml are mutually exclusive", ErrUsage)
			}
			cfg, _, err := prepare(&flags, env, state)
			if err != nil {
				return err
			}
			registry, err := buildRegistry(cfg.Brands)
			if err != nil {
				return err
			}
			state.brands = registry.Keys()

			if asYAML {
				return exportBrands(env.Stdout, registry, cfg.Brands.Strict)
			}

			infos := listBrands(registry)
			if asJSON {
				enc := json.NewEncoder(env.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			return printBrands(env.Stdout, infos)
		},
	}

	addCommonFlags(cmd.Flags(), &flags)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Output as a config brands: block")
	return cmd
}

// listBrands returns the registry rows sorted by key.
func listBrands(r *leadmagnet.Registry) []brandInfo {
	keys := r.Keys()
	infos := make([]brandInfo, 0, len(keys))
	for _, key := range keys {
		b, _ := r.Lookup(key)
		infos = append(infos, brandInfo{
			Key:       key,
			Default:   key == r.DefaultKey(),
			Name:      b.Name,
			Domain:    b.Domain,
			Category:  b.Category,
			CTA:       leadmagnet.DefaultButtonURL(b),
			Primary:   b.Colors.Primary,
			Secondary: b.Colors.Secondary,
			Accent:    b.Colors.Accent,
		})
	}
	return infos
}

func printBrands(w io.Writer, infos []brandInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  KEY\tNAME\tDOMAIN\tCATEGORY\tCOLORS")
	for _, b := range infos {
		mark := " "
		if b.Default {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\t%s %s %s\n",
			mark, b.Key, b.Name, b.Domain, b.Category, b.Primary, b.Secondary, b.Accent)
	}
	return tw.Flush()
}

// exportBrands writes r as the brands section of a config file.
func exportBrands(w io.Writer, r *leadmagnet.Registry, strict bool) error {
	bc := config.BrandsConfig{
		Strict:   strict,
		Default:  r.DefaultKey(),
		Registry: make(map[string]config.BrandConfig, len(r.Keys())),
	}
	for _, key := range r.Keys() {
		b, _ := r.Lookup(key)
		bc.Registry[key] = config.BrandConfig{
			Name:     b.Name,
			Tagline:  b.Tagline,
			Domain:   b.Domain,
			Category: b.Category,
			CTAPath:  b.CTAPath,
			Colors: config.ColorConfig{
				Primary:   b.Colors.Primary,
				Secondary: b.Colors.Secondary,
				Accent:    b.Colors.Accent,
			},
		}
	}

	out, err := yamlutil.Encode(struct {
		Brands config.BrandsConfig `yaml:"brands"`
	}{bc})
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
