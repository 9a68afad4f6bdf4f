package storage

import "propalyze-cleaner/models"

// PropertyWriter is the interface any storage backend must satisfy.
type PropertyWriter interface {
	Write(properties []*models.Property) error
	Close() error
}

// PropertyReader is implemented by backends that can hand stored
// properties back, e.g. for the insight report.
type PropertyReader interface {
	FetchAll() ([]*models.Property, error)
}
