package document

import (
	"path/filepath"
	"strings"
)

// Kind is the declared content kind of a document. Rules are registered
// per kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindSourceUnit
	KindManifest
	KindDataDocument
)

// Well-known file names inside a module.
const (
	// InitFile is the package initializer of a Python package.
	InitFile = "__init__.py"
	// ManifestFile is the module descriptor.
	ManifestFile = "__manifest__.py"
	// LegacyManifestFile is the descriptor name used by older releases.
	LegacyManifestFile = "__openerp__.py"
)

// ManifestFiles lists descriptor names in lookup order.
var ManifestFiles = []string{ManifestFile, LegacyManifestFile}

// String returns the kind name used in logs, metrics and configuration.
func (k Kind) String() string {
	switch k {
	case KindSourceUnit:
		return "source"
	case KindManifest:
		return "manifest"
	case KindDataDocument:
		return "data"
	default:
		return "unknown"
	}
}

// DetectKind derives the document kind from its file name.
func DetectKind(path string) Kind {
	base := filepath.Base(path)
	if IsManifestName(base) {
		return KindManifest
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".py":
		return KindSourceUnit
	case ".xml":
		return KindDataDocument
	default:
		return KindUnknown
	}
}

// IsManifestName reports whether base is a module descriptor file name.
func IsManifestName(base string) bool {
	for _, name := range ManifestFiles {
		if base == name {
			return true
		}
	}
	return false
}
