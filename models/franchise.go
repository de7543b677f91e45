package models

// Franchise is the aggregate root. It exclusively owns its branches, which in
// turn own their products; the whole tree is loaded and saved as one unit.
type Franchise struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Branches []Branch `json:"branches"`
}

// NewFranchise returns an unsaved franchise. The id is assigned by storage.
func NewFranchise(name string) Franchise {
	return Franchise{
		Name:     name,
		Branches: []Branch{},
	}
}

// FindBranch returns a pointer into the franchise's branch slice.
// First match wins when ids are duplicated.
func (f *Franchise) FindBranch(branchID string) (*Branch, bool) {
	for i := range f.Branches {
		if f.Branches[i].ID == branchID {
			return &f.Branches[i], true
		}
	}
	return nil, false
}

func (f *Franchise) AddBranch(b Branch) {
	f.Branches = append(f.Branches, b)
}

// Clone returns a deep copy that shares no slices with f.
func (f Franchise) Clone() Franchise {
	out := Franchise{
		ID:       f.ID,
		Name:     f.Name,
		Branches: make([]Branch, len(f.Branches)),
	}
	for i, b := range f.Branches {
		products := make([]Product, len(b.Products))
		copy(products, b.Products)
		out.Branches[i] = Branch{ID: b.ID, Name: b.Name, Products: products}
	}
	return out
}
