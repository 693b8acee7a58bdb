// Package models contains GORM persistence models for the billing tables.
// Models carry the ORM tags and convert to and from the domain types so the
// domain packages stay free of persistence concerns.
package models
