// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

// Package product implements the catalog entries at the heart of Kikira:
// one situation-CD release per entry, with cast, tags, and storefront links.
package product

// Validation field identifiers.
const (
	FieldTitle           = "title"
	FieldSeries          = "series"
	FieldMaker           = "maker"
	FieldReleaseDate     = "releaseDate"
	FieldDlsiteURL       = "dlsiteUrl"
	FieldDlafURL         = "dlafUrl"
	FieldPocketdramaURL  = "pocketdramaUrl"
	FieldStellaplayerURL = "stellaplayerUrl"
	FieldThumbnailURL    = "thumbnailUrl"
)

// CatalogEntry is the central aggregate of the Kikira domain.
//
// # Overview
//
// It represents a single situation-CD release in the catalogue. Storefront
// links are pointers: nil means the link has not been set, which is the
// property the URL migration engine keys on. An empty string is never
// stored as a link value.
type CatalogEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Series      string   `json:"series,omitempty"`
	Maker       string   `json:"maker,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty"` // Canonical YYYY-MM-DD.
	Cast        []string `json:"cast,omitempty"`        // Voice actor names.
	Tags        []string `json:"tags,omitempty"`

	// # Storefront Links
	DlsiteURL       *string `json:"dlsiteUrl,omitempty"`
	DlafURL         *string `json:"dlafUrl,omitempty"`
	PocketdramaURL  *string `json:"pocketdramaUrl,omitempty"`
	StellaplayerURL *string `json:"stellaplayerUrl,omitempty"`
	ThumbnailURL    *string `json:"thumbnailUrl,omitempty"`
}

// Filter holds the parameters for a filtered catalog list query.
//
// # Keyword
//
// Keyword is a case-insensitive substring scan over title and series of the
// already-filtered set. It is deliberately not a search engine.
type Filter struct {
	Tag     string
	Actor   string // Matches any cast member exactly.
	Maker   string
	Year    string // Four-digit year; matches the release date range.
	Keyword string
}
