// Package assets provides the stylesheet and HTML template used to compose
// lead-magnet documents.
//
// Assets are looked up by name through an AssetLoader:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed copies of the built-in assets
//	    ├── FilesystemLoader  - a directory on disk
//	    └── Resolver          - filesystem first, embedded fallback
//
// A custom directory mirrors the embedded layout:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}.html
//
// Names are validated so they cannot escape the base directory, and the
// filesystem loader re-checks containment after resolving symlinks.
package assets
