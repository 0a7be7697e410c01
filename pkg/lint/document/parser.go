package document

import (
	"context"
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// DefaultMaxFileSize is the largest document the parser accepts.
const DefaultMaxFileSize = 5 * 1024 * 1024 // 5MB

// ErrNoManifestDict is returned when a manifest has no top-level dictionary.
var ErrNoManifestDict = errors.New("manifest has no top-level dictionary literal")

// Parser turns file contents into Documents. It is constructed once and passed
// to the components that need it; it holds no per-document state and is safe
// for concurrent use.
type Parser struct {
	maxFileSize int64
	language    *sitter.Language
}

// NewParser creates a parser with the default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: DefaultMaxFileSize,
		language:    python.GetLanguage(),
	}
}

// WithMaxFileSize sets the maximum document size in bytes.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	if size > 0 {
		p.maxFileSize = size
	}
	return p
}

// MaxFileSize returns the configured size limit.
func (p *Parser) MaxFileSize() int64 {
	return p.maxFileSize
}

// ParseFile reads and parses the file at path. The kind is derived from the
// file name.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Document, error) {
	kind := DetectKind(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, &ParseError{Path: path, Kind: kind, Err: err}
	}
	if info.Size() > p.maxFileSize {
		return nil, &ParseError{
			Path: path,
			Kind: kind,
			Err:  fmt.Errorf("file size %d exceeds maximum %d bytes", info.Size(), p.maxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Kind: kind, Err: err}
	}

	return p.Parse(ctx, path, kind, data)
}

// Parse parses in-memory text as a document of the given kind. Hosts pass the
// current editor buffer here rather than the file on disk.
func (p *Parser) Parse(ctx context.Context, path string, kind Kind, text []byte) (*Document, error) {
	if int64(len(text)) > p.maxFileSize {
		return nil, &ParseError{
			Path: path,
			Kind: kind,
			Err:  fmt.Errorf("data size %d exceeds maximum %d bytes", len(text), p.maxFileSize),
		}
	}

	switch kind {
	case KindSourceUnit:
		return p.parsePython(ctx, path, kind, text)

	case KindManifest:
		doc, err := p.parsePython(ctx, path, kind, text)
		if err != nil {
			return nil, err
		}
		if _, ok := ManifestDict(doc); !ok {
			return nil, &ParseError{Path: path, Kind: kind, Err: ErrNoManifestDict}
		}
		return doc, nil

	case KindDataDocument:
		return parseMarkup(path, text)

	default:
		return nil, &ParseError{Path: path, Kind: kind, Err: errors.New("unsupported document kind")}
	}
}
