package util

// Stack implements a parameterized Last-In-First-Out (LIFO) data structure.
type Stack[T any] struct {
	items []T
}

// Push adds an item to the top of the stack.
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes and returns the item at the top of the stack.
func (s *Stack[T]) Pop() (item T) {
	if len(s.items) == 0 {
		return
	}

	item = s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return
}

// Peek returns the item at the top of the stack without removing it.
func (s *Stack[T]) Peek() (item T) {
	if len(s.items) == 0 {
		return
	}
	return s.items[len(s.items)-1]
}

// Len returns the number of items in the stack.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Clear removes all items from the stack.
func (s *Stack[T]) Clear() {
	s.items = nil
}
