package models

import (
	"time"
)

// ProductStatusActive marks a sellable product in the 'product' table.
const ProductStatusActive = 1

// Product is the model for the 'product' table.
// Numeric money columns are read as text so the exact decimal representation
// survives the trip out of the database.
type Product struct {
	ID          int64   `json:"product_id" db:"product_id"`
	Name        string  `json:"product_name" db:"product_name"`
	Description *string `json:"full_description" db:"full_description"`

	// --- Pricing & Stock ---
	Price         *string `json:"price" db:"price"`
	OldPrice      *string `json:"old_price" db:"old_price"`
	StockQuantity *int    `json:"stock_quantity" db:"stock_quantity"`

	// --- Flags ---
	Status       int  `json:"status" db:"status"`
	FreeShipping bool `json:"free_shipping" db:"free_shipping"`

	// --- Descriptive ---
	ForGender            *string `json:"for_gender" db:"for_gender"`
	SKU                  *string `json:"sku_number" db:"sku_number"`
	Brand                *string `json:"brand,omitempty" db:"brand"`
	MetaKeywords         *string `json:"meta_keywords,omitempty" db:"meta_keywords"`
	MetaDescription      *string `json:"meta_description,omitempty" db:"meta_description"`
	MetaTitle            *string `json:"meta_title,omitempty" db:"meta_title"`
	Dimension            *string `json:"dimension" db:"dimension"`
	DimensionName        *string `json:"dimension_name" db:"dimension_name"`
	Size                 *string `json:"size,omitempty" db:"size"`
	SizeUnit             *string `json:"size_unit,omitempty" db:"size_unit"`
	Source               *string `json:"source,omitempty" db:"source"`
	MetalString          *string `json:"metal_string_temp,omitempty" db:"metal_string_temp"`
	AdditionalAttributes *string `json:"addtn_attributes,omitempty" db:"addtn_attributes"`
	Weight               *string `json:"weight,omitempty" db:"weight"`

	// --- Related products (flat suggestion list, not a graph) ---
	MatchingProductID1 *int64 `json:"matching_product_id1" db:"matching_product_id1"`
	MatchingProductID2 *int64 `json:"matching_product_id2" db:"matching_product_id2"`
	MatchingProductID3 *int64 `json:"matching_product_id3" db:"matching_product_id3"`

	CreatedOn time.Time `json:"created_on" db:"created_on"`
	UpdatedOn time.Time `json:"updated_on" db:"updated_on"`

	// Joins (Not in DB table, populated by the catalog repository)
	Categories []Category      `json:"categories" db:"-"`
	Images     []Image         `json:"images" db:"-"`
	Tags       []string        `json:"tags,omitempty" db:"-"`
	Options    []ProductOption `json:"options,omitempty" db:"-"`
}

// RelatedIDs returns the non-null matching product ids in slot order.
func (p *Product) RelatedIDs() []int64 {
	var ids []int64
	for _, id := range []*int64{p.MatchingProductID1, p.MatchingProductID2, p.MatchingProductID3} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

// Thumbnail is the filename of the first image, or "" when there is none.
func (p *Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Filename
}

// Image is one 'media' row attached through 'product_media_map'.
type Image struct {
	MediaID     int64   `json:"media_id" db:"media_id"`
	Filename    string  `json:"filename" db:"filename"`
	Description *string `json:"media_desc" db:"media_desc"`
	FilePath    *string `json:"file_path" db:"file_path"`
	Caption     *string `json:"media_caption" db:"media_caption"`
	PictureTag  *string `json:"picture_tag" db:"picture_tag"`
	Brand       *string `json:"brand" db:"brand"`
}

// Price adjustment types on 'master_option_value'.
const (
	AdjustmentFlat    = "flat"
	AdjustmentPercent = "percent"
)

// ProductOption is a 'master_option' row with its ordered values.
type ProductOption struct {
	ID           int64                `json:"option_id" db:"option_id"`
	Name         string               `json:"option_name" db:"option_name"`
	Code         *string              `json:"option_code" db:"option_code"`
	DisplayName  *string              `json:"display_name" db:"display_name"`
	DisplayOrder int                  `json:"display_order" db:"display_order"`
	Brand        *string              `json:"brand,omitempty" db:"brand"`
	Values       []ProductOptionValue `json:"values" db:"-"`
}

// ProductOptionValue is the model for the 'master_option_value' table.
type ProductOptionValue struct {
	ID                   int64   `json:"option_value_id" db:"option_value_id"`
	OptionID             int64   `json:"-" db:"option_id"`
	Name                 string  `json:"option_value_name" db:"option_value_name"`
	Code                 *string `json:"option_value_code" db:"option_value_code"`
	Code2                *string `json:"option_value_code2,omitempty" db:"option_value_code2"`
	DisplayName          *string `json:"display_name" db:"display_name"`
	Abbreviation         *string `json:"option_value_abbreviation" db:"option_value_abbreviation"`
	Abbreviation2        *string `json:"option_value_abbreviation2,omitempty" db:"option_value_abbreviation2"`
	PriceAdjustment      string  `json:"price_adjustment" db:"price_adjustment"`
	PriceAdjustmentAddtn *string `json:"price_adjustment_addtn,omitempty" db:"price_adjustment_addtn"`
	PriceAdjustmentType  string  `json:"price_adjustment_type" db:"price_adjustment_type"`
	ApplySale            bool    `json:"apply_sale" db:"apply_sale"`
	DisplayOrder         int     `json:"display_order" db:"display_order"`
}
