package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Encode converts g into its flat storage record. The record carries _id only
// once the garment has been persisted.
func Encode(g Garment) bson.M {
	b := g.Common()
	rec := bson.M{
		"type":       string(g.Type()),
		"name":       b.Name,
		"created_by": b.CreatedBy,
		"gender":     string(b.Gender),
		"style":      nil,
		"reference":  nullable(b.Reference),
		"created_at": b.CreatedAt,
	}
	if b.Style != "" {
		rec["style"] = string(b.Style)
	}
	if !b.ID.IsZero() {
		rec["_id"] = b.ID
	}
	for k, v := range g.attributes() {
		rec[k] = v
	}
	return rec
}

// Decode rebuilds the variant named by rec["type"]. Missing optional fields
// fall back to the variant defaults. A missing or unknown discriminator is an
// ErrUnknownGarmentType validation error.
func Decode(rec bson.M) (Garment, error) {
	raw, present := rec["type"]
	t, ok := raw.(string)
	if !present || !ok || !ValidGarmentType(t) {
		return nil, unknownType(raw)
	}

	base, err := decodeBase(rec)
	if err != nil {
		return nil, err
	}
	r := recordReader{rec: rec}

	var g Garment
	switch GarmentType(t) {
	case TypeShirt:
		var s *Shirt
		s, err = NewShirt(Shirt{Base: base, SleeveType: r.str("sleeve_type"), Color: r.ptr("color"), Pattern: r.str("pattern")})
		g = s
	case TypePants:
		var p *Pants
		p, err = NewPants(Pants{Base: base, Fit: r.str("fit"), Length: r.str("length"), Color: r.ptr("color"), Material: r.str("material")})
		g = p
	case TypeHat:
		var h *Hat
		h, err = NewHat(Hat{Base: base, HatStyle: r.str("hat_style"), Color: r.ptr("color"), Material: r.str("material")})
		g = h
	case TypeShoes:
		var s *Shoes
		s, err = NewShoes(Shoes{Base: base, ShoeType: r.str("shoe_type"), Color: r.ptr("color"), SizeRange: r.str("size_range"), Material: r.str("material")})
		g = s
	default:
		return nil, unknownType(raw)
	}
	if r.err != nil {
		return nil, r.err
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ToWire returns the public record shape: the storage record with _id
// replaced by id (hex string, or null before persistence).
func ToWire(g Garment) map[string]interface{} {
	rec := Encode(g)
	delete(rec, "_id")
	if id := g.Common().ID; id.IsZero() {
		rec["id"] = nil
	} else {
		rec["id"] = id.Hex()
	}
	return map[string]interface{}(rec)
}

func decodeBase(rec bson.M) (Base, error) {
	r := recordReader{rec: rec}
	b := Base{
		Name:      r.str("name"),
		CreatedBy: r.str("created_by"),
		Gender:    Gender(r.str("gender")),
		Style:     Style(r.str("style")),
		Reference: r.ptr("reference"),
		CreatedAt: r.time("created_at"),
	}
	b.ID = r.id()
	return b, r.err
}

// recordReader pulls typed values out of a record and keeps the first error.
type recordReader struct {
	rec bson.M
	err error
}

func (r *recordReader) fail(field, reason string) {
	if r.err == nil {
		r.err = &ValidationError{Field: field, Reason: reason}
	}
}

func (r *recordReader) str(key string) string {
	switch v := r.rec[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		r.fail(key, fmt.Sprintf("must be a string, got %T", v))
		return ""
	}
}

func (r *recordReader) ptr(key string) *string {
	v, ok := r.rec[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		r.fail(key, fmt.Sprintf("must be a string or null, got %T", v))
		return nil
	}
	return &s
}

func (r *recordReader) time(key string) time.Time {
	switch v := r.rec[key].(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return v
	case primitive.DateTime:
		return v.Time()
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			r.fail(key, "must be an RFC 3339 timestamp")
		}
		return t
	default:
		r.fail(key, fmt.Sprintf("must be a timestamp, got %T", v))
		return time.Time{}
	}
}

// id reads _id as stored by the database, or id as sent on the wire.
func (r *recordReader) id() primitive.ObjectID {
	for _, key := range []string{"_id", "id"} {
		switch v := r.rec[key].(type) {
		case nil:
			continue
		case primitive.ObjectID:
			return v
		case string:
			if v == "" {
				continue
			}
			oid, err := primitive.ObjectIDFromHex(v)
			if err != nil {
				r.fail(key, "is not a valid identifier")
			}
			return oid
		default:
			r.fail(key, fmt.Sprintf("is not a valid identifier (%T)", v))
			return primitive.NilObjectID
		}
	}
	return primitive.NilObjectID
}

// AsRecord accepts the map shapes a record can arrive in: bson.M from the
// driver, map[string]interface{} from JSON, or bson.D.
func AsRecord(v interface{}) (bson.M, bool) {
	switch m := v.(type) {
	case bson.M:
		return m, true
	case map[string]interface{}:
		return bson.M(m), true
	case bson.D:
		out := make(bson.M, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out, true
	}
	return nil, false
}
