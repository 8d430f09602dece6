// Package leadmagnet renders branded three-page lead-magnet PDFs (cover,
// content, sales) from markdown or HTML using headless Chrome.
//
// # Quick Start
//
//	gen, err := leadmagnet.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	res, err := gen.Generate(ctx, leadmagnet.Request{
//	    Title:       "Support Playbook",
//	    Description: "Ten habits of fast support teams",
//	    Content:     leadmagnet.MarkdownFile("content/playbook.md"),
//	    Slug:        "support-playbook",
//	    Brand:       leadmagnet.BrandKey("getanswers"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.PDFPath, res.PDFURL)
//
// # Pipeline
//
//  1. Brand resolution against an injected Registry
//  2. Content normalization (markdown via Goldmark, or HTML pass-through)
//  3. Composition of the three pages with html/template
//  4. Rendering via go-rod (per call, or pooled with RenderPool)
//  5. Atomic write to <outputDir>/<slug>.pdf
//
// # Brands
//
// Unknown brand keys resolve to the registry default. Use
// WithStrictBrands(true) to get ErrUnknownBrand instead, and BrandLiteral
// for ad hoc brands.
//
// # Errors
//
// Failures wrap the sentinels in errors.go: ErrContentSource, ErrTemplate,
// ErrRender, ErrIO, ErrUnknownBrand and friends. Check them with errors.Is.
package leadmagnet
