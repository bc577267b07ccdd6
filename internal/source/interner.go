package source

// StringID is a dense handle of an interned name. The zero ID is the empty string.
type StringID uint32

const NoStringID StringID = 0

// Interner hands out one StringID per distinct string. It is not
// goroutine-safe; each analysis owns one.
type Interner struct {
	strs []string
	ids  map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		strs: []string{""},
		ids:  map[string]StringID{"": NoStringID},
	}
}

func (in *Interner) Intern(s string) StringID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	// s часто срез буфера файла; копия не держит его в памяти
	s = string([]byte(s))
	id := StringID(len(in.strs)) // #nosec G115 -- bounded by source size
	in.strs = append(in.strs, s)
	in.ids[s] = id
	return id
}

func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.strs) {
		return "", false
	}
	return in.strs[id], true
}

// Len includes the reserved empty string.
func (in *Interner) Len() int { return len(in.strs) }
