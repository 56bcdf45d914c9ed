package models

import "go.mongodb.org/mongo-driver/bson"

// Shirt garment.
type Shirt struct {
	Base
	SleeveType string  // short, long, sleeveless
	Color      *string
	Pattern    string // solid, striped, checkered...
}

// NewShirt fills defaults on s and validates the common attributes.
func NewShirt(s Shirt) (*Shirt, error) {
	if err := normalizeBase(&s.Base, TypeShirt); err != nil {
		return nil, err
	}
	s.SleeveType = defaultString(s.SleeveType, "short")
	s.Pattern = defaultString(s.Pattern, "solid")
	return &s, nil
}

func (s *Shirt) Type() GarmentType { return TypeShirt }

func (s *Shirt) Common() *Base { return &s.Base }

func (s *Shirt) attributes() bson.M {
	return bson.M{
		"sleeve_type": s.SleeveType,
		"color":       nullable(s.Color),
		"pattern":     s.Pattern,
	}
}
