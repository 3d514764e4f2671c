// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

// Package bonus implements purchase-bonus offers: store-specific extras
// (drama tracks, booklets) granted for buying one or more catalog entries.
package bonus

// Type classifies how a bonus is earned.
type Type string

const (
	// TypeTokuten is granted for a single purchase.
	TypeTokuten Type = "tokuten"
	// TypeRendou is granted for buying a linked set of releases.
	TypeRendou Type = "rendou"
	// TypeZenkan is granted for completing the full set.
	TypeZenkan Type = "zenkan"
)

// IsValid reports whether t is a recognised [Type] value.
func (t Type) IsValid() bool {
	switch t {
	case TypeTokuten, TypeRendou, TypeZenkan:
		return true
	}
	return false
}

// Storefront sites a bonus can be offered on.
const (
	SiteDlsite       = "dlsite"
	SitePocketdrama  = "pocketdrama"
	SiteStellaplayer = "stellaplayer"
)

// Sites lists every recognised storefront, for validation messages.
var Sites = []string{SiteDlsite, SitePocketdrama, SiteStellaplayer}

// RelatedProduct links a bonus to one catalog entry on specific storefronts.
//
// # Invariants
//
// Within one offer a ProductID appears at most once, and Sites is never
// empty: removing the last site removes the whole link.
type RelatedProduct struct {
	ProductID string   `json:"productId"`
	Sites     []string `json:"sites"`
}

// BonusOffer is one purchase bonus.
type BonusOffer struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Type            Type             `json:"type"`
	Conditions      string           `json:"conditions,omitempty"` // Free-form eligibility text.
	CastList        []string         `json:"castList,omitempty"`
	RelatedProducts []RelatedProduct `json:"relatedProducts,omitempty"`

	// ProductIDs mirrors RelatedProducts for querying: the document store
	// can only filter on flat string arrays. Maintained by the service on
	// every write, never taken from input.
	ProductIDs []string `json:"productIds,omitempty"`
}

// Validation field identifiers.
const (
	FieldName            = "name"
	FieldType            = "type"
	FieldRelatedProducts = "relatedProducts"
	FieldSite            = "site"
	FieldProductID       = "productId"
)
