package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	oilChange = Item{ID: 1, Name: "Oil change", Price: 49.5}
	tyres     = Item{ID: 2, Name: "Tyre rotation", Price: 30}
	wash      = Item{ID: 3, Name: "Wash", Price: 15}
)

func TestAddToCart_IsIdempotentPerID(t *testing.T) {
	c := New()
	c.AddToCart(oilChange)
	c.AddToCart(oilChange)
	c.AddToCart(Item{ID: 1, Name: "renamed", Price: 1})

	require.Equal(t, 1, c.Len())
	assert.Equal(t, oilChange, c.Items()[0])
}

func TestItems_KeepInsertionOrder(t *testing.T) {
	c := New()
	c.AddToCart(wash)
	c.AddToCart(oilChange)
	c.AddToCart(tyres)

	assert.Equal(t, []int64{3, 1, 2}, c.IDs())
	assert.Equal(t, []Item{wash, oilChange, tyres}, c.Items())
	assert.InDelta(t, 94.5, c.Total(), 1e-9)
}

func TestRemoveFromCart(t *testing.T) {
	c := New()
	c.AddToCart(oilChange)
	c.AddToCart(tyres)
	c.AddToCart(wash)

	c.RemoveFromCart(2)
	c.RemoveFromCart(42)

	assert.Equal(t, []int64{1, 3}, c.IDs())
	assert.False(t, c.Contains(2))
	assert.True(t, c.Contains(3))
}

func TestClearCart(t *testing.T) {
	c := New()
	c.ClearCart()
	c.AddToCart(oilChange)
	c.ClearCart()

	assert.Zero(t, c.Len())
	assert.Empty(t, c.Items())
	assert.Zero(t, c.Total())
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := State{Items: []Item{oilChange, tyres}}
	after := Reduce(before, Remove{ID: 1})

	assert.Equal(t, []Item{oilChange, tyres}, before.Items)
	assert.Equal(t, []Item{tyres}, after.Items)

	added := Reduce(before, Add{Item: wash})
	assert.Len(t, before.Items, 2)
	assert.Len(t, added.Items, 3)
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := New()
	c.AddToCart(oilChange)
	items := c.Items()
	items[0].Price = 0

	assert.Equal(t, 49.5, c.Items()[0].Price)
}

func TestSubscribe_OnlyOnChange(t *testing.T) {
	c := New()
	var lens []int
	unsubscribe := c.Subscribe(func(s State) { lens = append(lens, len(s.Items)) })

	c.AddToCart(oilChange)
	c.AddToCart(oilChange)
	c.AddToCart(tyres)
	c.RemoveFromCart(99)
	c.ClearCart()
	unsubscribe()
	c.AddToCart(wash)

	assert.Equal(t, []int{1, 2, 0}, lens)
}

func TestConcurrentAdds(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			c.AddToCart(Item{ID: id % 10, Name: "svc"})
		}(int64(i))
	}
	wg.Wait()
	assert.Equal(t, 10, c.Len())
}
