// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

// Package catalog records the combinators of each schema layer in a bolt
// database, so that ids can be traced across protocol revisions.
package catalog

import (
	"encoding/binary"
	"fmt"
	"slices"
	"time"

	"github.com/boltdb/bolt"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/schema"
)

// Constructors and functions have separate id and name spaces, so keys
// inside a layer or the name index start with a section byte.
var (
	layersBucket = []byte("layers") // layer -> section+id -> entry
	namesBucket  = []byte("names")  // section+qualified name -> layer -> id
)

const (
	sectionConstructor byte = 'c'
	sectionFunction    byte = 'f'
)

// Entry is one combinator as recorded for a layer.
type Entry struct {
	Layer    int32
	ID       uint32
	Name     string
	Function bool
	Decl     string
}

type Catalog struct {
	db *bolt.DB
}

// Open opens or creates the catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(layersBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(namesBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// AddLayer records every combinator of m under m.Layer, replacing any
// previous record of that layer.
func (c *Catalog) AddLayer(m *schema.Model) error {
	layerKey := uint32Key(uint32(m.Layer))
	return c.db.Update(func(tx *bolt.Tx) error {
		layers := tx.Bucket(layersBucket)
		names := tx.Bucket(namesBucket)
		if old := layers.Bucket(layerKey); old != nil {
			if err := old.ForEach(func(_, v []byte) error {
				entry, err := decodeEntry(m.Layer, v)
				if err != nil {
					return err
				}
				if byLayer := names.Bucket(nameKey(entry.Function, entry.Name)); byLayer != nil {
					return byLayer.Delete(layerKey)
				}
				return nil
			}); err != nil {
				return err
			}
			if err := layers.DeleteBucket(layerKey); err != nil {
				return err
			}
		}
		layer, err := layers.CreateBucket(layerKey)
		if err != nil {
			return err
		}
		for _, list := range [][]*schema.Combinator{m.Constructors(), m.Functions()} {
			for _, comb := range list {
				value, err := encodeEntry(comb)
				if err != nil {
					return err
				}
				function := comb.IsFunction()
				if err := layer.Put(entryKey(function, comb.ID), value); err != nil {
					return err
				}
				byLayer, err := names.CreateBucketIfNotExists(nameKey(function, comb.QualifiedName()))
				if err != nil {
					return err
				}
				if err := byLayer.Put(layerKey, uint32Key(comb.ID)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Layers returns the recorded layers in ascending order.
func (c *Catalog) Layers() ([]int32, error) {
	var out []int32
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(layersBucket).ForEach(func(k, _ []byte) error {
			out = append(out, int32(binary.BigEndian.Uint32(k)))
			return nil
		})
	})
	return out, err
}

// Layer returns the entries of one layer: constructors, then functions,
// each ordered by id.
func (c *Catalog) Layer(layer int32) ([]Entry, error) {
	var out []Entry
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(layersBucket).Bucket(uint32Key(uint32(layer)))
		if bucket == nil {
			return fmt.Errorf("layer %d is not in the catalog", layer)
		}
		return bucket.ForEach(func(_, v []byte) error {
			entry, err := decodeEntry(layer, v)
			if err != nil {
				return err
			}
			out = append(out, entry)
			return nil
		})
	})
	return out, err
}

// Lookup returns every recorded use of id, in ascending layer order. A
// constructor is listed before a function sharing its id.
func (c *Catalog) Lookup(id uint32) ([]Entry, error) {
	var out []Entry
	keys := [][]byte{entryKey(false, id), entryKey(true, id)}
	err := c.db.View(func(tx *bolt.Tx) error {
		layers := tx.Bucket(layersBucket)
		return layers.ForEach(func(k, _ []byte) error {
			layer := layers.Bucket(k)
			for _, key := range keys {
				v := layer.Get(key)
				if v == nil {
					continue
				}
				entry, err := decodeEntry(int32(binary.BigEndian.Uint32(k)), v)
				if err != nil {
					return err
				}
				out = append(out, entry)
			}
			return nil
		})
	})
	return out, err
}

// PreviousID returns the id recorded for the constructor (or function)
// name in the latest layer before layer.
func (c *Catalog) PreviousID(name string, function bool, layer int32) (uint32, int32, bool, error) {
	var (
		id        uint32
		prevLayer int32
		found     bool
	)
	err := c.db.View(func(tx *bolt.Tx) error {
		byLayer := tx.Bucket(namesBucket).Bucket(nameKey(function, name))
		if byLayer == nil {
			return nil
		}
		return byLayer.ForEach(func(k, v []byte) error {
			l := int32(binary.BigEndian.Uint32(k))
			if l >= layer {
				return nil
			}
			id = binary.BigEndian.Uint32(v)
			prevLayer = l
			found = true
			return nil
		})
	})
	return id, prevLayer, found, err
}

// Change is a combinator whose id differs between two layers.
type Change struct {
	From Entry
	To   Entry
}

type Diff struct {
	Added   []Entry
	Removed []Entry
	Changed []Change
}

// Diff compares two recorded layers by qualified name.
func (c *Catalog) Diff(from, to int32) (*Diff, error) {
	fromEntries, err := c.Layer(from)
	if err != nil {
		return nil, err
	}
	toEntries, err := c.Layer(to)
	if err != nil {
		return nil, err
	}
	type key struct {
		name     string
		function bool
	}
	before := make(map[key]Entry, len(fromEntries))
	for _, entry := range fromEntries {
		before[key{entry.Name, entry.Function}] = entry
	}
	diff := &Diff{}
	for _, entry := range toEntries {
		k := key{entry.Name, entry.Function}
		prev, ok := before[k]
		delete(before, k)
		switch {
		case !ok:
			diff.Added = append(diff.Added, entry)
		case prev.ID != entry.ID:
			diff.Changed = append(diff.Changed, Change{From: prev, To: entry})
		}
	}
	for _, entry := range before {
		diff.Removed = append(diff.Removed, entry)
	}
	byName := func(a, b Entry) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	}
	slices.SortFunc(diff.Added, byName)
	slices.SortFunc(diff.Removed, byName)
	slices.SortFunc(diff.Changed, func(a, b Change) int {
		return byName(a.To, b.To)
	})
	return diff, nil
}

func uint32Key(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

func sectionByte(function bool) byte {
	if function {
		return sectionFunction
	}
	return sectionConstructor
}

func entryKey(function bool, id uint32) []byte {
	return binary.BigEndian.AppendUint32([]byte{sectionByte(function)}, id)
}

func nameKey(function bool, name string) []byte {
	return append([]byte{sectionByte(function)}, name...)
}

// Entries are stored as bare TL: id:int function:Bool name:string decl:string.
func encodeEntry(comb *schema.Combinator) ([]byte, error) {
	name := comb.QualifiedName()
	decl := comb.String()
	e := tl.NewEncoder(12 + tl.StringLength(name) + tl.StringLength(decl))
	e.PutUint32(comb.ID)
	e.PutBool(comb.IsFunction())
	e.PutString(name)
	e.PutString(decl)
	return e.Bytes(), e.Err()
}

func decodeEntry(layer int32, buf []byte) (entry Entry, err error) {
	entry.Layer = layer
	d := tl.NewDecoder(nil, buf)
	if entry.ID, err = d.Uint32(); err != nil {
		return entry, err
	}
	if entry.Function, err = d.Bool(); err != nil {
		return entry, err
	}
	if entry.Name, err = d.String(); err != nil {
		return entry, err
	}
	entry.Decl, err = d.String()
	return entry, err
}
