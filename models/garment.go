package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GarmentType is the stored discriminator of a garment record.
type GarmentType string

const (
	TypeShirt GarmentType = "shirt"
	TypePants GarmentType = "pants"
	TypeHat   GarmentType = "hat"
	TypeShoes GarmentType = "shoes"
)

// GarmentTypes lists every known discriminator.
var GarmentTypes = []GarmentType{TypeShirt, TypePants, TypeHat, TypeShoes}

// ValidGarmentType reports whether t is one of the four known discriminators.
func ValidGarmentType(t string) bool {
	for _, gt := range GarmentTypes {
		if string(gt) == t {
			return true
		}
	}
	return false
}

// Gender options for garments.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

func ValidGender(g string) bool {
	switch Gender(g) {
	case GenderMale, GenderFemale, GenderUnisex:
		return true
	}
	return false
}

// Style is a free-form genre tag. The constants are the ones the clients offer.
type Style string

const (
	StyleStreetwear Style = "streetwear"
	StyleFormal     Style = "formal"
	StyleCasual     Style = "casual"
	StyleSporty     Style = "sporty"
	StyleVintage    Style = "vintage"
	StyleBohemian   Style = "bohemian"
	StylePreppy     Style = "preppy"
	StyleGrunge     Style = "grunge"
)

// Base holds the attributes every garment variant shares.
type Base struct {
	ID        primitive.ObjectID // zero until the store assigns one
	Name      string
	CreatedBy string
	Gender    Gender
	Style     Style
	Reference *string // URL or object key of the 3D model
	CreatedAt time.Time
}

// Garment is implemented by Shirt, Pants, Hat and Shoes only.
type Garment interface {
	// Type returns the fixed discriminator of the variant.
	Type() GarmentType
	// Common exposes the shared attributes, including the creator used for
	// ownership checks.
	Common() *Base
	// attributes returns the variant-specific record keys.
	attributes() bson.M
}

// UpdatableFields returns the record keys a caller may change on g: name,
// reference and the variant's own attributes (color among them). The
// discriminator, identity, creator and creation time are never included.
func UpdatableFields(g Garment) map[string]bool {
	fields := map[string]bool{"name": true, "reference": true}
	for k := range g.attributes() {
		fields[k] = true
	}
	return fields
}

// NullableFields are the keys that may legitimately hold null.
var NullableFields = map[string]bool{
	"reference": true,
	"color":     true,
	"style":     true,
}

func normalizeBase(b *Base, t GarmentType) error {
	if b.CreatedBy == "" {
		return &ValidationError{Field: "created_by", Reason: "is required"}
	}
	if b.Name == "" {
		b.Name = placeholderName(t)
	}
	if b.Gender == "" {
		b.Gender = GenderUnisex
	} else if !ValidGender(string(b.Gender)) {
		return &ValidationError{Field: "gender", Reason: "must be one of male, female, unisex"}
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	// Stored dates keep millisecond precision; normalizing here keeps
	// decode(encode(v)) equal to v after a trip through the database.
	b.CreatedAt = b.CreatedAt.UTC().Truncate(time.Millisecond)
	return nil
}

func placeholderName(t GarmentType) string {
	switch t {
	case TypeShirt:
		return "Untitled Shirt"
	case TypePants:
		return "Untitled Pants"
	case TypeHat:
		return "Untitled Hat"
	case TypeShoes:
		return "Untitled Shoes"
	}
	return "Untitled Garment"
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
