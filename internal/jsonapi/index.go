package jsonapi

type key struct {
	typ string
	id  string
}

// Index resolves side-table resources by (type, id). It is built once per
// document; the first occurrence of a duplicated key wins, matching a linear scan.
type Index struct {
	byKey map[key]*Resource
	order []*Resource
}

// NewIndex builds an index over the included resources.
func NewIndex(included []Resource) *Index {
	idx := &Index{
		byKey: make(map[key]*Resource, len(included)),
		order: make([]*Resource, 0, len(included)),
	}
	for i := range included {
		res := &included[i]
		k := key{typ: res.Type, id: res.ID}
		if _, exists := idx.byKey[k]; exists {
			continue
		}
		idx.byKey[k] = res
		idx.order = append(idx.order, res)
	}
	return idx
}

// Find returns the included resource with the given type and id, or nil.
func (idx *Index) Find(typ, id string) *Resource {
	if idx == nil || id == "" {
		return nil
	}
	return idx.byKey[key{typ: typ, id: id}]
}

// Resolve looks up the target of an identifier.
func (idx *Index) Resolve(ref Identifier) *Resource {
	return idx.Find(ref.Type, ref.ID)
}

// OfType returns every included resource of the given type in document order.
func (idx *Index) OfType(typ string) []*Resource {
	if idx == nil {
		return nil
	}
	var out []*Resource
	for _, res := range idx.order {
		if res.Type == typ {
			out = append(out, res)
		}
	}
	return out
}
