package wardrobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/pkg/logger"
)

// DefaultPattern selects wardrobe files inside a directory.
const DefaultPattern = "**/*.{yaml,yml}"

// Document is the on-disk shape of a wardrobe file. A bare list of garments is
// accepted too.
type Document struct {
	Garments []garment.Garment `yaml:"garments"`
}

// YAMLProvider reads garments from a YAML file or from every matching file under a
// directory. Files are re-read on each call.
type YAMLProvider struct {
	path    string
	pattern string
	logger  logger.Logger
}

var _ Provider = (*YAMLProvider)(nil)

// NewYAMLProvider creates a provider rooted at p, which may be a file or a directory.
func NewYAMLProvider(p string, opts ...YAMLOption) *YAMLProvider {
	y := &YAMLProvider{
		path:    p,
		pattern: DefaultPattern,
		logger:  logger.GetOrDiscard().Named("wardrobe-yaml"),
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// Wardrobe implements Provider.
func (y *YAMLProvider) Wardrobe(ctx context.Context) (garment.Wardrobe, error) {
	items, err := y.Load(ctx)
	if err != nil {
		return garment.Wardrobe{}, err
	}
	return build(items)
}

// Load returns the raw garments without building a wardrobe.
func (y *YAMLProvider) Load(ctx context.Context) ([]garment.Garment, error) {
	info, err := os.Stat(y.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	if !info.IsDir() {
		return readFile(y.path)
	}

	matches, err := doublestar.Glob(os.DirFS(y.path), y.pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: glob %q: %w", ErrInvalidSource, y.pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSource, y.path)
	}

	var items []garment.Garment
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		got, err := readFile(filepath.Join(y.path, filepath.FromSlash(m)))
		if err != nil {
			return nil, err
		}
		y.logger.Debug(ctx, "wardrobe file loaded",
			logger.String("file", path.Clean(m)),
			logger.Int("garments", len(got)))
		items = append(items, got...)
	}
	return items, nil
}

func readFile(name string) ([]garment.Garment, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	defer f.Close()

	items, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return items, nil
}

// Decode reads a wardrobe document. Category keys are normalised.
func Decode(r io.Reader) ([]garment.Garment, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}

	var items []garment.Garment
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&items); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
		}
	case yaml.MappingNode:
		var doc Document
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
		}
		items = doc.Garments
	default:
		return nil, fmt.Errorf("%w: expected a list or a garments mapping", ErrInvalidSource)
	}

	for i := range items {
		c, err := garment.ParseCategory(string(items[i].Category))
		if err != nil {
			return nil, fmt.Errorf("garment %s: %w", items[i].ID, err)
		}
		items[i].Category = c
		items[i].Name = strings.TrimSpace(items[i].Name)
	}
	return items, nil
}

// Encode writes items as a wardrobe document.
func Encode(w io.Writer, items []garment.Garment) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document{Garments: items}); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile encodes items into name, replacing it.
func WriteFile(name string, items []garment.Garment) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fs.FileMode(0o644))
	if err != nil {
		return err
	}
	if err := Encode(f, items); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
