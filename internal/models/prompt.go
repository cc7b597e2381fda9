package models

// PromptTemplate is a named summarization instruction. Built-in templates
// are seeded at first run and cannot be deleted; user templates are fully
// mutable.
type PromptTemplate struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Prompt           string   `json:"prompt"`
	IsBuiltIn        bool     `json:"isBuiltIn"`
	MappedCategories []string `json:"mappedCategories"`
}

// MapsCategory reports whether the template claims the given platform
// category id.
func (p PromptTemplate) MapsCategory(categoryID string) bool {
	for _, id := range p.MappedCategories {
		if id == categoryID {
			return true
		}
	}
	return false
}
