package transaction

// lockableList is a list with a cursor. A locked list must not be replaced by
// generated values, which is how explicitly set transaction and node IDs are
// protected from regeneration.
type lockableList[T any] struct {
	items  []T
	index  int
	locked bool
}

func (l *lockableList[T]) set(items []T) {
	l.items = items
	if l.index >= len(items) {
		l.index = 0
	}
}

func (l *lockableList[T]) len() int {
	return len(l.items)
}

func (l *lockableList[T]) isEmpty() bool {
	return len(l.items) == 0
}

func (l *lockableList[T]) current() T {
	return l.items[l.index]
}

func (l *lockableList[T]) first() T {
	return l.items[0]
}

// advance moves the cursor to the next element, wrapping around.
func (l *lockableList[T]) advance() {
	if len(l.items) > 0 {
		l.index = (l.index + 1) % len(l.items)
	}
}

func (l *lockableList[T]) clone() []T {
	if l.items == nil {
		return nil
	}
	return append([]T(nil), l.items...)
}
