// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

// Dict maps chromosome names to dense ids.  The zero value is not usable; use
// NewDict.  A Dict shared by several readers gives every file the same ids.
type Dict struct {
	ids   map[string]int64
	names []string
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{ids: make(map[string]int64)}
}

// ID returns the id of name, assigning the next free id if name is new.
func (d *Dict) ID(name string) int64 {
	if id, ok := d.ids[name]; ok {
		return id
	}
	id := int64(len(d.names))
	d.ids[name] = id
	d.names = append(d.names, name)
	return id
}

// idBytes is ID for a name which may alias a reused buffer.  The map lookup
// does not allocate; the name is copied only when it is new.
func (d *Dict) idBytes(name []byte) int64 {
	if id, ok := d.ids[string(name)]; ok {
		return id
	}
	return d.ID(string(name))
}

// Lookup returns the id of name, if present.
func (d *Dict) Lookup(name string) (int64, bool) {
	id, ok := d.ids[name]
	return id, ok
}

// Name returns the name with the given id.
func (d *Dict) Name(id int64) string {
	return d.names[id]
}

// Len returns the number of names.
func (d *Dict) Len() int {
	return len(d.names)
}
