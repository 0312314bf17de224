// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapBoDΣNzwAsIaRak2C2OiWqgΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	slicerrVI5wH4r5ΣB0FlAYalSigΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var MetadataMUS = metadataMUS{}

type metadataMUS struct{}

func (s metadataMUS) Marshal(v Metadata, bs []byte) (n int) {
	return mapBoDΣNzwAsIaRak2C2OiWqgΞΞ.Marshal(map[string]string(v), bs)
}

func (s metadataMUS) Unmarshal(bs []byte) (v Metadata, n int, err error) {
	tmp, n, err := mapBoDΣNzwAsIaRak2C2OiWqgΞΞ.Unmarshal(bs)
	if err != nil {
		return
	}
	v = Metadata(tmp)
	return
}

func (s metadataMUS) Size(v Metadata) (size int) {
	return mapBoDΣNzwAsIaRak2C2OiWqgΞΞ.Size(map[string]string(v))
}

func (s metadataMUS) Skip(bs []byte) (n int, err error) {
	return mapBoDΣNzwAsIaRak2C2OiWqgΞΞ.Skip(bs)
}

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(v.Text, bs)
	n += MetadataMUS.Marshal(v.Metadata, bs[n:])
	return n + slicerrVI5wH4r5ΣB0FlAYalSigΞΞ.Marshal(v.Vector, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Metadata, n1, err = MetadataMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = slicerrVI5wH4r5ΣB0FlAYalSigΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = ord.String.Size(v.Text)
	size += MetadataMUS.Size(v.Metadata)
	return size + slicerrVI5wH4r5ΣB0FlAYalSigΞΞ.Size(v.Vector)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = MetadataMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicerrVI5wH4r5ΣB0FlAYalSigΞΞ.Skip(bs[n:])
	n += n1
	return
}
