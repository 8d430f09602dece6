package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RequiredPages is the number of page sections of a composed document.
const RequiredPages = 3

// ErrPageStructure indicates a composed document without exactly three
// page sections.
var ErrPageStructure = errors.New("document page structure invalid")

// VerifyPages checks that the document has exactly RequiredPages
// section.page elements.
func VerifyPages(document string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageStructure, err)
	}
	if n := doc.Find("section.page").Length(); n != RequiredPages {
		return fmt.Errorf("%w: found %d page sections, want %d", ErrPageStructure, n, RequiredPages)
	}
	return nil
}
