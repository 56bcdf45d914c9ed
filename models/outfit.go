package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Outfit groups at most one garment per category. Slots hold copies of the
// garments as they were when attached, not references, so an outfit still
// renders after the source garment is edited or deleted.
type Outfit struct {
	ID        primitive.ObjectID
	Name      string
	UserID    string
	Style     string
	Bio       string
	Hat       *Hat
	Shirt     *Shirt
	Pants     *Pants
	Shoes     *Shoes
	Published bool
	CreatedAt time.Time
}

// OutfitSlots are the garment slot keys, each named after the variant it holds.
var OutfitSlots = []string{"hat", "shirt", "pants", "shoes"}

// OutfitUpdatableFields is the set of keys Update may change.
var OutfitUpdatableFields = map[string]bool{
	"name":      true,
	"style":     true,
	"bio":       true,
	"hat":       true,
	"shirt":     true,
	"pants":     true,
	"shoes":     true,
	"published": true,
}

// NewOutfitFromPayload builds an outfit from a request or stored payload.
// Every garment slot present is decoded through the garment codec, so only
// well-formed garments of the slot's own type are embedded.
func NewOutfitFromPayload(payload bson.M) (*Outfit, error) {
	r := recordReader{rec: payload}
	o := &Outfit{
		Name:      r.str("name"),
		UserID:    r.str("user_id"),
		Style:     r.str("style"),
		Bio:       r.str("bio"),
		CreatedAt: r.time("created_at"),
	}
	o.ID = r.id()
	if r.err != nil {
		return nil, r.err
	}
	if o.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	}
	if o.UserID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "is required"}
	}

	published, err := PublishedValue(payload["published"])
	if err != nil {
		return nil, err
	}
	o.Published = published

	for _, slot := range OutfitSlots {
		g, err := DecodeSlot(slot, payload[slot])
		if err != nil {
			return nil, err
		}
		if err := o.setSlot(slot, g); err != nil {
			return nil, err
		}
	}

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	o.CreatedAt = o.CreatedAt.UTC().Truncate(time.Millisecond)
	return o, nil
}

// DecodeSlot validates a raw slot value: nil means an empty slot, anything
// else must decode to a garment whose type matches the slot name.
func DecodeSlot(slot string, v interface{}) (Garment, error) {
	if v == nil {
		return nil, nil
	}
	rec, ok := AsRecord(v)
	if !ok {
		return nil, &ValidationError{Field: slot, Reason: fmt.Sprintf("must be a garment object or null, got %T", v)}
	}
	g, err := Decode(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", slot, err)
	}
	if string(g.Type()) != slot {
		return nil, &ValidationError{Field: slot, Reason: fmt.Sprintf("must hold a %s, got %s", slot, g.Type())}
	}
	return g, nil
}

// EncodeSlot returns the embedded snapshot for g, or nil for an empty slot.
func EncodeSlot(g Garment) interface{} {
	if g == nil {
		return nil
	}
	return Encode(g)
}

// PublishedValue reads the published flag; absent means false.
func PublishedValue(v interface{}) (bool, error) {
	switch p := v.(type) {
	case nil:
		return false, nil
	case bool:
		return p, nil
	default:
		return false, &ValidationError{Field: "published", Reason: fmt.Sprintf("must be a boolean, got %T", v)}
	}
}

func (o *Outfit) setSlot(slot string, g Garment) error {
	if g == nil {
		return nil
	}
	switch v := g.(type) {
	case *Hat:
		o.Hat = v
	case *Shirt:
		o.Shirt = v
	case *Pants:
		o.Pants = v
	case *Shoes:
		o.Shoes = v
	default:
		return &ValidationError{Field: slot, Reason: fmt.Sprintf("unsupported garment %T", g)}
	}
	return nil
}

// Slot returns the garment in the named slot, or nil.
func (o *Outfit) Slot(slot string) Garment {
	switch slot {
	case "hat":
		if o.Hat != nil {
			return o.Hat
		}
	case "shirt":
		if o.Shirt != nil {
			return o.Shirt
		}
	case "pants":
		if o.Pants != nil {
			return o.Pants
		}
	case "shoes":
		if o.Shoes != nil {
			return o.Shoes
		}
	}
	return nil
}

// EncodeOutfit returns the storage document for o with every slot embedded.
func EncodeOutfit(o *Outfit) bson.M {
	doc := bson.M{
		"name":       o.Name,
		"user_id":    o.UserID,
		"style":      o.Style,
		"bio":        o.Bio,
		"published":  o.Published,
		"created_at": o.CreatedAt,
	}
	if !o.ID.IsZero() {
		doc["_id"] = o.ID
	}
	for _, slot := range OutfitSlots {
		doc[slot] = EncodeSlot(o.Slot(slot))
	}
	return doc
}

// DecodeOutfit rebuilds an outfit from its stored document.
func DecodeOutfit(doc bson.M) (*Outfit, error) {
	return NewOutfitFromPayload(doc)
}

// Wire returns the public outfit shape with id as a hex string and every slot
// either null or a full garment record.
func (o *Outfit) Wire() map[string]interface{} {
	out := map[string]interface{}{
		"id":         nil,
		"name":       o.Name,
		"user_id":    o.UserID,
		"style":      o.Style,
		"bio":        o.Bio,
		"published":  o.Published,
		"created_at": o.CreatedAt,
	}
	if !o.ID.IsZero() {
		out["id"] = o.ID.Hex()
	}
	for _, slot := range OutfitSlots {
		if g := o.Slot(slot); g != nil {
			out[slot] = ToWire(g)
		} else {
			out[slot] = nil
		}
	}
	return out
}
