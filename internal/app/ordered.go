package app

import "slices"

// ordered is a map that remembers insertion order. Overwriting an existing key
// keeps its position.
type ordered[K comparable, V any] struct {
	items map[K]V
	order []K
}

func newOrdered[K comparable, V any]() *ordered[K, V] {
	return &ordered[K, V]{items: make(map[K]V)}
}

func (o *ordered[K, V]) Get(k K) (V, bool) {
	v, ok := o.items[k]
	return v, ok
}

func (o *ordered[K, V]) Has(k K) bool {
	_, ok := o.items[k]
	return ok
}

func (o *ordered[K, V]) Put(k K, v V) {
	if _, ok := o.items[k]; !ok {
		o.order = append(o.order, k)
	}
	o.items[k] = v
}

func (o *ordered[K, V]) Delete(k K) bool {
	if _, ok := o.items[k]; !ok {
		return false
	}
	delete(o.items, k)
	if i := slices.Index(o.order, k); i >= 0 {
		o.order = slices.Delete(o.order, i, i+1)
	}
	return true
}

func (o *ordered[K, V]) Len() int { return len(o.items) }

// Values returns a fresh slice in insertion order.
func (o *ordered[K, V]) Values() []V {
	out := make([]V, 0, len(o.order))
	for _, k := range o.order {
		out = append(out, o.items[k])
	}
	return out
}
