package models

import "go.mongodb.org/mongo-driver/bson"

// Shoes garment.
type Shoes struct {
	Base
	ShoeType  string // sneaker, boot, heels, loafers...
	Color     *string
	SizeRange string // all, small, medium, large
	Material  string
}

// NewShoes fills defaults on s and validates the common attributes.
func NewShoes(s Shoes) (*Shoes, error) {
	if err := normalizeBase(&s.Base, TypeShoes); err != nil {
		return nil, err
	}
	s.ShoeType = defaultString(s.ShoeType, "sneaker")
	s.SizeRange = defaultString(s.SizeRange, "all")
	s.Material = defaultString(s.Material, "fabric")
	return &s, nil
}

func (s *Shoes) Type() GarmentType { return TypeShoes }

func (s *Shoes) Common() *Base { return &s.Base }

func (s *Shoes) attributes() bson.M {
	return bson.M{
		"shoe_type":  s.ShoeType,
		"color":      nullable(s.Color),
		"size_range": s.SizeRange,
		"material":   s.Material,
	}
}
