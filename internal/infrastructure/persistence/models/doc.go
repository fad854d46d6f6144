// Package models holds the GORM table mappings for sites, site filters,
// sync batches, and per-site sync results. Domain entities stay free of
// ORM tags; each model carries a pair of mapper functions converting to
// and from its domain counterpart, and repositories only ever touch the
// model types.
package models
