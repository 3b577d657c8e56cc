package core

// StringList is a list of strings that also accepts a single bare string
// when decoded, e.g. renamed_from = "old" or renamed_from = ["old", "older"].
type StringList []string

// UnmarshalText implements encoding.TextUnmarshaler for the bare-string form.
func (l *StringList) UnmarshalText(text []byte) error {
	*l = StringList{string(text)}
	return nil
}

// Contains reports whether s is in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

func cloneSlice[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	return append(S(nil), s...)
}

func cloneMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
