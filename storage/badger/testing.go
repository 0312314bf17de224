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


package badger

import "github.com/veldkamp/lexrag/storage"

// NewMemoryIndex creates an in-memory index for testing.
// Returns the index and its backend; closing the index closes the backend.
func NewMemoryIndex(collection string) (storage.Index, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	idx, err := newIndex(backend, collection, true)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return idx, backend, nil
}
