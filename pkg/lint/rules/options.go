package rules

// Default rule options.
var (
	DefaultRequiredManifestKeys = []string{"name", "version"}
	DefaultLicenses             = []string{"LGPL-3", "AGPL-3", "OEEL-1", "OPL-1", "Other OSI approved licence"}
	DefaultAuthorPlaceholder    = "My Company"
	DefaultRootTags             = []string{"odoo", "openerp"}
)

// Options tunes rule policies. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	RequiredManifestKeys []string
	Licenses             []string
	AuthorPlaceholder    string
	RootTags             []string
}

// DefaultOptions returns the built-in rule options.
func DefaultOptions() *Options {
	return &Options{
		RequiredManifestKeys: append([]string(nil), DefaultRequiredManifestKeys...),
		Licenses:             append([]string(nil), DefaultLicenses...),
		AuthorPlaceholder:    DefaultAuthorPlaceholder,
		RootTags:             append([]string(nil), DefaultRootTags...),
	}
}
