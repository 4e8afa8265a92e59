package entity

type Label struct {
	Name       string   `json:"Name"`
	Confidence float64  `json:"Confidence"`
	Categories []string `json:"-"`
}

func (l Label) InCategory(category string) bool {
	for _, c := range l.Categories {
		if c == category {
			return true
		}
	}
	return false
}

type PetAnalysis struct {
	Labels []Label `json:"labels"`
	Breed  string  `json:"breed,omitempty"`
	Tips   string  `json:"tips,omitempty"`
}
