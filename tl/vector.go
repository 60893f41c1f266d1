package tl

// WriteVector serializes a vector as a 31-bit natural length followed by
// each element, using writeItem to encode one element.
func WriteVector[T any](s *Serializer, items []T, writeItem func(*Serializer, T)) {
	s.WriteNatural(uint32(len(items)))
	for _, item := range items {
		writeItem(s, item)
	}
}

// ParseVector deserializes a vector written by WriteVector.
func ParseVector[T any](d *Deserializer, parseItem func(*Deserializer) (T, error)) ([]T, error) {
	n, err := d.ParseNatural()
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		item, err := parseItem(d)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
