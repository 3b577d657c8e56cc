package core

// PathEntry locates a named storage area.
type PathEntry struct {
	Katalog       string `toml:"katalog"`
	DeltUtdanning string `toml:"delt_utdanning,omitempty"`
}

// Clone returns a copy.
func (p *PathEntry) Clone() *PathEntry {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
