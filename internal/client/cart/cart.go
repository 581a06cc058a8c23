// Package cart is the in-memory list of services a customer intends to book.
// It is deliberately not persisted.
package cart

import (
	"slices"
	"sync"
)

// Item is a service in the cart. ID is unique within the cart.
type Item struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type State struct {
	Items []Item
}

type Action interface{ isAction() }

type Add struct{ Item Item }
type Remove struct{ ID int64 }
type Clear struct{}

func (Add) isAction()    {}
func (Remove) isAction() {}
func (Clear) isAction()  {}

// Reduce never mutates s.Items in place.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Add:
		if indexOf(s.Items, a.Item.ID) >= 0 {
			return s
		}
		items := make([]Item, len(s.Items), len(s.Items)+1)
		copy(items, s.Items)
		return State{Items: append(items, a.Item)}
	case Remove:
		i := indexOf(s.Items, a.ID)
		if i < 0 {
			return s
		}
		return State{Items: slices.Delete(slices.Clone(s.Items), i, i+1)}
	case Clear:
		return State{}
	default:
		return s
	}
}

func indexOf(items []Item, id int64) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.ID == id })
}

// Store wraps Reduce with a lock and subscribers.
type Store struct {
	mu    sync.RWMutex
	state State
	subs  map[int]func(State)
	next  int
}

func New() *Store {
	return &Store{subs: map[int]func(State){}}
}

// AddToCart inserts item unless an item with the same ID is already present.
func (s *Store) AddToCart(item Item) { s.dispatch(Add{Item: item}) }

// RemoveFromCart drops the item with id, if any.
func (s *Store) RemoveFromCart(id int64) { s.dispatch(Remove{ID: id}) }

func (s *Store) ClearCart() { s.dispatch(Clear{}) }

// Items returns the cart contents in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Items)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Items)
}

func (s *Store) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.state.Items, id) >= 0
}

// IDs returns the service ids in insertion order, as sent when booking.
func (s *Store) IDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, len(s.state.Items))
	for i, it := range s.state.Items {
		ids[i] = it.ID
	}
	return ids
}

func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, it := range s.state.Items {
		total += it.Price
	}
	return total
}

func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) dispatch(a Action) {
	s.mu.Lock()
	prev := s.state
	s.state = Reduce(s.state, a)
	changed := !slices.Equal(prev.Items, s.state.Items)
	st := State{Items: slices.Clone(s.state.Items)}
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subs {
		fn(State{Items: slices.Clone(st.Items)})
	}
}
