// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package csvimport

// FieldID identifies a catalog entry field a CSV column can map to. The
// set is closed: mappings naming anything else are rejected up front.
type FieldID string

const (
	FieldTitle           FieldID = "title"
	FieldSeries          FieldID = "series"
	FieldReleaseDate     FieldID = "releaseDate"
	FieldMaker           FieldID = "maker"
	FieldCast            FieldID = "cast"
	FieldTags            FieldID = "tags"
	FieldThumbnailURL    FieldID = "thumbnailUrl"
	FieldDlsiteURL       FieldID = "dlsiteUrl"
	FieldPocketdramaURL  FieldID = "pocketdramaUrl"
	FieldStellaplayerURL FieldID = "stellaplayerUrl"
)

// fieldMeta is the static shape of one field: how its cells are interpreted.
type fieldMeta struct {
	Required    bool // Rows missing the field are skipped.
	MultiValued bool // Cells split on , and 、 then set-unioned.
	Date        bool // Cells normalized via jpdate.
	URL         bool // Cells normalized field-aware (see normalizeURL).
}

// fieldCatalog is the closed registry of importable fields.
var fieldCatalog = map[FieldID]fieldMeta{
	FieldTitle:           {Required: true},
	FieldSeries:          {},
	FieldReleaseDate:     {Date: true},
	FieldMaker:           {},
	FieldCast:            {MultiValued: true},
	FieldTags:            {MultiValued: true},
	FieldThumbnailURL:    {URL: true},
	FieldDlsiteURL:       {URL: true},
	FieldPocketdramaURL:  {URL: true},
	FieldStellaplayerURL: {URL: true},
}

// IsValid reports whether f is a recognised [FieldID] value.
func (f FieldID) IsValid() bool {
	_, ok := fieldCatalog[f]
	return ok
}

// Mapping assigns CSV column names to catalog fields. Columns absent from
// the mapping are ignored; several columns may feed one multi-valued field.
type Mapping map[string]FieldID
