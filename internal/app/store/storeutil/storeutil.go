// Package storeutil holds small helpers shared by the Mongo stores.
package storeutil

import "go.mongodb.org/mongo-driver/mongo/options"

// Window bounds one read of a listing. A zero Limit reads everything.
type Window struct {
	Limit int64
	Skip  int64
}

// PageWindow converts a 1-based page of size limit into a Window.
// Non-positive limits mean no paging; non-positive pages mean the first page.
func PageWindow(limit, page int64) Window {
	if limit <= 0 {
		return Window{}
	}
	if page <= 0 {
		page = 1
	}
	return Window{Limit: limit, Skip: (page - 1) * limit}
}

// OffsetWindow is a Window that starts at offset and falls back to def
// when limit is not positive.
func OffsetWindow(limit, offset, def int64) Window {
	if limit <= 0 {
		limit = def
	}
	if offset < 0 {
		offset = 0
	}
	return Window{Limit: limit, Skip: offset}
}

// Apply sets limit and skip on o, creating it when nil.
func (w Window) Apply(o *options.FindOptions) *options.FindOptions {
	if o == nil {
		o = options.Find()
	}
	if w.Limit > 0 {
		o.SetLimit(w.Limit)
	}
	if w.Skip > 0 {
		o.SetSkip(w.Skip)
	}
	return o
}
