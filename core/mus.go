package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// labProfileSer serializes LabProfile values in MUS format. It is
// composed by hand from mus-go primitives; the Sections map is written
// as a length-prefixed sequence of key/value pairs in insertion-free
// (sorted by SectionNames) order so encoding stays deterministic.
type labProfileSer struct{}

// LabProfileMUS is the MUS serializer used by the storage layer.
var LabProfileMUS = labProfileSer{}

func (labProfileSer) Marshal(v LabProfile, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Professor, bs[n:])
	n += ord.String.Marshal(v.Department, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Homepage, bs[n:])
	n += ord.String.Marshal(v.Location, bs[n:])
	n += varint.PositiveInt.Marshal(sectionCount(v.Sections), bs[n:])
	for _, name := range SectionNames {
		if text, ok := v.Sections[name]; ok {
			n += ord.String.Marshal(name, bs[n:])
			n += ord.String.Marshal(text, bs[n:])
		}
	}
	return n
}

func (labProfileSer) Unmarshal(bs []byte) (v LabProfile, n int, err error) {
	var (
		id    uint64
		n1    int
		count int
	)
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Id = ID(id)
	fields := []*string{
		&v.Name, &v.Professor, &v.Department,
		&v.Description, &v.Homepage, &v.Location,
	}
	for _, field := range fields {
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	count, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count > 0 {
		v.Sections = make(map[string]string, count)
	}
	for i := 0; i < count; i++ {
		var name, text string
		name, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		text, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v.Sections[name] = text
	}
	return
}

func (labProfileSer) Size(v LabProfile) (size int) {
	size = varint.Uint64.Size(uint64(v.Id))
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Professor)
	size += ord.String.Size(v.Department)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Homepage)
	size += ord.String.Size(v.Location)
	size += varint.PositiveInt.Size(sectionCount(v.Sections))
	for _, name := range SectionNames {
		if text, ok := v.Sections[name]; ok {
			size += ord.String.Size(name)
			size += ord.String.Size(text)
		}
	}
	return size
}

func (s labProfileSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// sectionCount counts only known section names, matching what Marshal
// writes. Unknown keys are dropped on serialization.
func sectionCount(sections map[string]string) int {
	count := 0
	for _, name := range SectionNames {
		if _, ok := sections[name]; ok {
			count++
		}
	}
	return count
}
