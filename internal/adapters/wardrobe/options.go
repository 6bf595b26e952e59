package wardrobe

import "github.com/okian/closet/pkg/logger"

// YAMLOption configures a YAMLProvider.
type YAMLOption func(*YAMLProvider)

// WithPattern overrides the doublestar pattern used for directories.
func WithPattern(pattern string) YAMLOption {
	return func(y *YAMLProvider) {
		if pattern != "" {
			y.pattern = pattern
		}
	}
}

// WithYAMLLogger sets the provider logger.
func WithYAMLLogger(l logger.Logger) YAMLOption {
	return func(y *YAMLProvider) {
		if l != nil {
			y.logger = l
		}
	}
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithSQLiteLogger sets the store logger.
func WithSQLiteLogger(l logger.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		if l != nil {
			s.logger = l
		}
	}
}
