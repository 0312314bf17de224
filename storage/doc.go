// Copyright 2025 Veldkamp Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage provides the vector index abstraction for lexrag.
//
// This package defines the Index interface that decouples retrieval from the
// index implementation, plus the MUS serialization helpers shared by all
// backends.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.Index interface to enforce
// abstraction and enable alternative index implementations:
//
//	index, err := badger.OpenIndex(path, collection)  // returns storage.Index
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Rebuild Semantics
//
// An Index collection is rebuilt, never merged: Rebuild replaces the whole
// collection with the given chunks. Indexing the same corpus twice leaves
// the index exactly as large as indexing it once.
//
// # Thread Safety
//
// All Index implementations must be thread-safe and support concurrent
// searches. Rebuild and Search may race only in the sense that a Search
// observes either the old or the new collection, never a mix.
package storage
