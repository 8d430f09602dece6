// Package pipeline turns normalized content into a composed lead-magnet
// HTML document.
//
// Stages:
//   - markdown preparation (line endings, ==highlight== markers)
//   - markdown to HTML fragment via Goldmark with chroma highlighting
//   - local image inlining (data URIs, so rendering needs no file access)
//   - three-page document composition with html/template
//   - structural verification of the composed document with goquery
//
// PDF rendering lives in the root package; this package never touches a
// browser.
package pipeline
