package models

import "go.mongodb.org/mongo-driver/bson"

// Hat garment. HatStyle is stored as hat_style so it never collides with the
// type discriminator.
type Hat struct {
	Base
	HatStyle string // baseball, beanie, fedora, beret...
	Color    *string
	Material string
}

// NewHat fills defaults on h and validates the common attributes.
func NewHat(h Hat) (*Hat, error) {
	if err := normalizeBase(&h.Base, TypeHat); err != nil {
		return nil, err
	}
	h.HatStyle = defaultString(h.HatStyle, "baseball")
	h.Material = defaultString(h.Material, "cotton")
	return &h, nil
}

func (h *Hat) Type() GarmentType { return TypeHat }

func (h *Hat) Common() *Base { return &h.Base }

func (h *Hat) attributes() bson.M {
	return bson.M{
		"hat_style": h.HatStyle,
		"color":     nullable(h.Color),
		"material":  h.Material,
	}
}
