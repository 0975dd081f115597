package models

import "slices"

// Clone helpers back the store's snapshot contract: readers get copies
// that share no mutable memory with slice-owned state.

func (p Post) Clone() Post {
	p.Images = slices.Clone(p.Images)
	return p
}

func ClonePosts(posts []Post) []Post {
	if posts == nil {
		return nil
	}
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}

func (i CartItem) Clone() CartItem {
	i.Post = i.Post.Clone()
	return i
}

func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		items[i] = item.Clone()
	}
	c.Items = items
	return c
}

func (i OrderItem) Clone() OrderItem {
	if i.Post != nil {
		p := i.Post.Clone()
		i.Post = &p
	}
	return i
}

func (o Order) Clone() Order {
	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = item.Clone()
	}
	o.Items = items
	return o
}

func CloneOrders(orders []Order) []Order {
	if orders == nil {
		return nil
	}
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}
