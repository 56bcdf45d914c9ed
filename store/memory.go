package store

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-memory, concurrency-safe Database. Documents are kept as
// marshalled BSON so reads hand out fresh copies and values come back with
// the same types the driver would produce.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
	failure     error
}

// NewMemory constructs an empty in-memory database.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memoryCollection)}
}

// Collection returns the named collection, creating it on first use.
func (m *Memory) Collection(name string) Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[name]
	if !ok {
		c = &memoryCollection{parent: m}
		m.collections[name] = c
	}
	return c
}

// SetFailure makes every subsequent operation fail with err wrapped in
// ErrOperationFailed. A nil err restores normal behaviour.
func (m *Memory) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failure = err
}

func (m *Memory) failed() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrOperationFailed, m.failure)
}

type memoryCollection struct {
	parent *Memory
	mu     sync.RWMutex
	docs   []bson.Raw // insertion order
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc bson.M) (primitive.ObjectID, error) {
	if err := c.check(ctx); err != nil {
		return primitive.NilObjectID, err
	}
	stored := make(bson.M, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	id, ok := stored["_id"].(primitive.ObjectID)
	if !ok {
		if _, present := stored["_id"]; present {
			return primitive.NilObjectID, fmt.Errorf("%w: _id must be an ObjectID", ErrOperationFailed)
		}
		id = primitive.NewObjectID()
		stored["_id"] = id
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, raw := range c.docs {
		if existing, ok := raw.Lookup("_id").ObjectIDOK(); ok && existing == id {
			return primitive.NilObjectID, fmt.Errorf("%w: duplicate key %s", ErrOperationFailed, id.Hex())
		}
	}
	raw, err := bson.Marshal(stored)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	c.docs = append(c.docs, raw)
	return id, nil
}

func (c *memoryCollection) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, raw := range c.docs {
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		if matches(doc, filter) {
			return doc, nil
		}
	}
	return nil, ErrNotFound
}

func (c *memoryCollection) Find(ctx context.Context, filter bson.M, order bson.D) ([]bson.M, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	docs := []bson.M{}
	for _, raw := range c.docs {
		doc, err := decode(raw)
		if err != nil {
			c.mu.RUnlock()
			return nil, err
		}
		if matches(doc, filter) {
			docs = append(docs, doc)
		}
	}
	c.mu.RUnlock()

	if len(order) > 0 {
		key := order[0].Key
		desc := direction(order[0].Value) < 0
		sort.SliceStable(docs, func(i, j int) bool {
			cmp := compareValues(docs[i][key], docs[j][key])
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	return docs, nil
}

func (c *memoryCollection) UpdateOne(ctx context.Context, filter bson.M, set bson.M) (UpdateResult, error) {
	if err := c.check(ctx); err != nil {
		return UpdateResult{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, raw := range c.docs {
		doc, err := decode(raw)
		if err != nil {
			return UpdateResult{}, err
		}
		if !matches(doc, filter) {
			continue
		}

		var ordered bson.D
		if err := bson.Unmarshal(raw, &ordered); err != nil {
			return UpdateResult{}, fmt.Errorf("%w: %v", ErrOperationFailed, err)
		}
		changed := false
		for k, v := range set {
			old, present := doc[k]
			if !present || !sameValue(old, v) {
				changed = true
			}
			ordered = setKey(ordered, k, v)
		}
		if !changed {
			return UpdateResult{Matched: 1}, nil
		}
		updated, err := bson.Marshal(ordered)
		if err != nil {
			return UpdateResult{}, fmt.Errorf("%w: %v", ErrOperationFailed, err)
		}
		c.docs[i] = updated
		return UpdateResult{Matched: 1, Modified: 1}, nil
	}
	return UpdateResult{}, nil
}

func (c *memoryCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	if err := c.check(ctx); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, raw := range c.docs {
		doc, err := decode(raw)
		if err != nil {
			return 0, err
		}
		if matches(doc, filter) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (c *memoryCollection) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	docs, err := c.Find(ctx, filter, nil)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (c *memoryCollection) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	return c.parent.failed()
}

func decode(raw bson.Raw) (bson.M, error) {
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	return doc, nil
}

// matches implements top-level equality filters. A null filter value also
// matches a missing key, as in MongoDB.
func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok {
			if want != nil {
				return false
			}
			continue
		}
		if !sameValue(got, want) {
			return false
		}
	}
	return true
}

func setKey(d bson.D, key string, v interface{}) bson.D {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = v
			return d
		}
	}
	return append(d, bson.E{Key: key, Value: v})
}

// sameValue compares two values by their canonical BSON encoding, so a
// time.Time equals the primitive.DateTime it is stored as and key order in
// embedded documents does not matter.
func sameValue(a, b interface{}) bool {
	ea, errA := bson.Marshal(bson.D{{Key: "v", Value: canonical(a)}})
	eb, errB := bson.Marshal(bson.D{{Key: "v", Value: canonical(b)}})
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}

func canonical(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.M:
		return canonicalMap(t)
	case map[string]interface{}:
		return canonicalMap(t)
	case bson.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return canonicalMap(m)
	case bson.A:
		out := make(bson.A, len(t))
		for i := range t {
			out[i] = canonical(t[i])
		}
		return out
	case []interface{}:
		return canonical(bson.A(t))
	case time.Time:
		return primitive.NewDateTimeFromTime(t)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	}
	return v
}

func canonicalMap(m map[string]interface{}) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(bson.D, 0, len(keys))
	for _, k := range keys {
		out = append(out, bson.E{Key: k, Value: canonical(m[k])})
	}
	return out
}

func direction(v interface{}) int {
	switch d := v.(type) {
	case int:
		return d
	case int32:
		return int(d)
	case int64:
		return int(d)
	}
	return 1
}

// compareValues orders the scalar types the repositories sort on. Missing
// values sort first.
func compareValues(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch x := a.(type) {
	case primitive.DateTime:
		if y, ok := b.(primitive.DateTime); ok {
			return cmpInt(int64(x), int64(y))
		}
	case string:
		if y, ok := b.(string); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case int32:
		if y, ok := b.(int32); ok {
			return cmpInt(int64(x), int64(y))
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmpInt(x, y)
		}
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
