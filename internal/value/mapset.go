package value

// OrderedMap backs TagMap: an insertion-ordered association list keyed by
// the same identity discipline as StrictEquals (reference identity for
// objects, value identity for primitives, NaN-equals-NaN included) rather
// than Go's native map equality, since a Value whose Num field is NaN
// would otherwise never find its own key on a second lookup.
type OrderedMap struct {
	keys   []Value
	values []Value
}

func (*OrderedMap) isObject() {}

func NewOrderedMap() *OrderedMap { return &OrderedMap{} }

func (m *OrderedMap) indexOf(key Value) int {
	for i, k := range m.keys {
		if StrictEquals(k, key) {
			return i
		}
	}
	return -1
}

func (m *OrderedMap) Get(key Value) (Value, bool) {
	if i := m.indexOf(key); i >= 0 {
		return m.values[i], true
	}
	return Undefined, false
}

func (m *OrderedMap) Set(key, val Value) {
	if i := m.indexOf(key); i >= 0 {
		m.values[i] = val
		return
	}
	m.keys = append(m.keys, key)
	m.values = append(m.values, val)
}

func (m *OrderedMap) Has(key Value) bool { return m.indexOf(key) >= 0 }

func (m *OrderedMap) Delete(key Value) bool {
	i := m.indexOf(key)
	if i < 0 {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.values = append(m.values[:i], m.values[i+1:]...)
	return true
}

func (m *OrderedMap) Size() int { return len(m.keys) }

func (m *OrderedMap) Keys() []Value { return m.keys }

func (m *OrderedMap) Values() []Value { return m.values }

// OrderedSet backs TagSet with the same insertion-ordered, StrictEquals-
// keyed discipline as OrderedMap.
type OrderedSet struct {
	elems []Value
}

func (*OrderedSet) isObject() {}

func NewOrderedSet() *OrderedSet { return &OrderedSet{} }

func (s *OrderedSet) indexOf(v Value) int {
	for i, e := range s.elems {
		if StrictEquals(e, v) {
			return i
		}
	}
	return -1
}

func (s *OrderedSet) Has(v Value) bool { return s.indexOf(v) >= 0 }

func (s *OrderedSet) Add(v Value) {
	if s.indexOf(v) < 0 {
		s.elems = append(s.elems, v)
	}
}

func (s *OrderedSet) Delete(v Value) bool {
	i := s.indexOf(v)
	if i < 0 {
		return false
	}
	s.elems = append(s.elems[:i], s.elems[i+1:]...)
	return true
}

func (s *OrderedSet) Size() int { return len(s.elems) }

func (s *OrderedSet) Values() []Value { return s.elems }

// NewMap constructs an empty Map value, optionally seeded from a slice of
// [key, value] pair Arrays, mirroring `new Map(entries)`.
func NewMap(entries ...[2]Value) Value {
	m := NewOrderedMap()
	for _, kv := range entries {
		m.Set(kv[0], kv[1])
	}
	return Value{Tag: TagMap, Obj: m}
}

// NewSet constructs a Set value, optionally copy-constructed from an
// existing iterable of elements, mirroring `new Set(iterable)`.
func NewSet(elems ...Value) Value {
	s := NewOrderedSet()
	for _, e := range elems {
		s.Add(e)
	}
	return Value{Tag: TagSet, Obj: s}
}

// NewSetFromArray copy-constructs a Set from an Array value's elements,
// deduplicating by StrictEquals identity, the way `new Set(arr)` does.
func NewSetFromArray(arr *Array) Value {
	return NewSet(arr.Elems...)
}

func boundNative(this Value, name string, fn func(Value, []Value) (Value, error)) Value {
	f := &Function{Name: name, Native: fn}
	return Value{Tag: TagFunction, Obj: f.Bind(this)}
}

func getMapProperty(v Value, key string) (Value, error) {
	m := v.Obj.(*OrderedMap)
	switch key {
	case "size":
		return Number(float64(m.Size())), nil
	case "get":
		return boundNative(v, "get", func(_ Value, args []Value) (Value, error) {
			if len(args) == 0 {
				return Undefined, nil
			}
			val, _ := m.Get(args[0])
			return val, nil
		}), nil
	case "set":
		return boundNative(v, "set", func(this Value, args []Value) (Value, error) {
			if len(args) < 2 {
				return this, nil
			}
			m.Set(args[0], args[1])
			return this, nil
		}), nil
	case "has":
		return boundNative(v, "has", func(_ Value, args []Value) (Value, error) {
			if len(args) == 0 {
				return False, nil
			}
			return Boolean(m.Has(args[0])), nil
		}), nil
	case "delete":
		return boundNative(v, "delete", func(_ Value, args []Value) (Value, error) {
			if len(args) == 0 {
				return False, nil
			}
			return Boolean(m.Delete(args[0])), nil
		}), nil
	case "clear":
		return boundNative(v, "clear", func(_ Value, _ []Value) (Value, error) {
			m.keys = nil
			m.values = nil
			return Undefined, nil
		}), nil
	default:
		return Undefined, nil
	}
}

func getSetProperty(v Value, key string) (Value, error) {
	s := v.Obj.(*OrderedSet)
	switch key {
	case "size":
		return Number(float64(s.Size())), nil
	case "add":
		return boundNative(v, "add", func(this Value, args []Value) (Value, error) {
			if len(args) == 0 {
				return this, nil
			}
			s.Add(args[0])
			return this, nil
		}), nil
	case "has":
		return boundNative(v, "has", func(_ Value, args []Value) (Value, error) {
			if len(args) == 0 {
				return False, nil
			}
			return Boolean(s.Has(args[0])), nil
		}), nil
	case "delete":
		return boundNative(v, "delete", func(_ Value, args []Value) (Value, error) {
			if len(args) == 0 {
				return False, nil
			}
			return Boolean(s.Delete(args[0])), nil
		}), nil
	case "clear":
		return boundNative(v, "clear", func(_ Value, _ []Value) (Value, error) {
			s.elems = nil
			return Undefined, nil
		}), nil
	default:
		return Undefined, nil
	}
}
