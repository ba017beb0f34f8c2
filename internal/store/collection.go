package store

// Collection keeps entities addressable by id while remembering insertion
// order for listing. It is not synchronized; Store guards it.
type Collection[T any] struct {
	key   func(T) string
	items map[string]T
	order []string
}

func NewCollection[T any](key func(T) string) *Collection[T] {
	return &Collection[T]{
		key:   key,
		items: make(map[string]T),
	}
}

func (c *Collection[T]) UpsertOne(v T) {
	id := c.key(v)
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c *Collection[T]) UpsertMany(vs []T) {
	for _, v := range vs {
		c.UpsertOne(v)
	}
}

// Replace drops everything and loads vs, as a wholesale refetch does.
func (c *Collection[T]) Replace(vs []T) {
	c.items = make(map[string]T, len(vs))
	c.order = c.order[:0]
	c.UpsertMany(vs)
}

func (c *Collection[T]) RemoveOne(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// PatchOne applies fn to the stored entity. A missing id is a no-op.
func (c *Collection[T]) PatchOne(id string, fn func(*T)) bool {
	v, ok := c.items[id]
	if !ok {
		return false
	}
	fn(&v)
	c.items[id] = v
	return true
}

func (c *Collection[T]) Get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *Collection[T]) Has(id string) bool {
	_, ok := c.items[id]
	return ok
}

func (c *Collection[T]) List() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *Collection[T]) Len() int {
	return len(c.order)
}
