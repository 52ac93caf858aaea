/*
 * MIT License
 *
 * Copyright (c) 2026 The netengine Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package atomic holds the concurrency-safe generic map errors/pool stores
// its collected errors in -- a typed wrapper over sync.Map so callers
// never juggle the any-typed Load/Store pair sync.Map hands back.
package atomic

import (
	"reflect"
	"sync"
)

// MapTyped is a concurrent map that hands back values already asserted to
// V, backed by a sync.Map.
type MapTyped[K comparable, V any] interface {
	Load(key K) (value V, ok bool)
	Store(key K, value V)
	Delete(key K)
	Range(f func(key K, value V) bool)
}

type mt[K comparable, V any] struct {
	m sync.Map
}

// NewMapTyped returns an empty MapTyped backed by a sync.Map.
func NewMapTyped[K comparable, V any]() MapTyped[K, V] {
	return &mt[K, V]{}
}

func (o *mt[K, V]) Load(key K) (value V, ok bool) {
	raw, found := o.m.Load(key)
	if !found {
		return value, false
	}
	return cast[V](raw)
}

func (o *mt[K, V]) Store(key K, value V) {
	o.m.Store(key, value)
}

func (o *mt[K, V]) Delete(key K) {
	o.m.Delete(key)
}

func (o *mt[K, V]) Range(f func(key K, value V) bool) {
	o.m.Range(func(key, raw any) bool {
		k, ok := key.(K)
		if !ok {
			return true
		}
		v, ok := cast[V](raw)
		if !ok {
			o.m.Delete(key)
			return true
		}
		return f(k, v)
	})
}

// cast asserts src to M, reporting false instead of panicking on mismatch
// -- sync.Map stores values as any, so a wrong type here is a bug in the
// caller rather than something that should crash the process.
func cast[M any](src any) (model M, ok bool) {
	if reflect.DeepEqual(src, model) {
		return model, false
	}
	v, k := src.(M)
	if !k {
		return model, false
	}
	return v, true
}
