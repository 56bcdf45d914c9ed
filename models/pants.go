package models

import "go.mongodb.org/mongo-driver/bson"

// Pants garment.
type Pants struct {
	Base
	Fit      string // slim, regular, loose, baggy
	Length   string // full, crop, capri
	Color    *string
	Material string
}

// NewPants fills defaults on p and validates the common attributes.
func NewPants(p Pants) (*Pants, error) {
	if err := normalizeBase(&p.Base, TypePants); err != nil {
		return nil, err
	}
	p.Fit = defaultString(p.Fit, "regular")
	p.Length = defaultString(p.Length, "full")
	p.Material = defaultString(p.Material, "cotton")
	return &p, nil
}

func (p *Pants) Type() GarmentType { return TypePants }

func (p *Pants) Common() *Base { return &p.Base }

func (p *Pants) attributes() bson.M {
	return bson.M{
		"fit":      p.Fit,
		"length":   p.Length,
		"color":    nullable(p.Color),
		"material": p.Material,
	}
}
