package syntax

// Arena is append-only storage addressed by 1-based IDs of type I; the zero
// ID means "none". Pointers returned by At stay valid until the next Append.
type Arena[I ~uint32, T any] struct {
	items []T
}

func NewArena[I ~uint32, T any](capHint uint) *Arena[I, T] {
	return &Arena[I, T]{items: make([]T, 0, capHint)}
}

// Append stores v and returns its ID.
func (a *Arena[I, T]) Append(v T) I {
	a.items = append(a.items, v)
	return I(len(a.items))
}

// At returns the item with the given ID, nil for zero or out-of-range IDs.
func (a *Arena[I, T]) At(id I) *T {
	if id == 0 || int(id) > len(a.items) {
		return nil
	}
	return &a.items[id-1]
}

// Items exposes the storage in ID order; callers must not modify it.
func (a *Arena[I, T]) Items() []T { return a.items }

func (a *Arena[I, T]) Len() int { return len(a.items) }
