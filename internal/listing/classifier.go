package listing

import "strings"

// Rule asocia una categoría con las palabras que la delatan.
type Rule struct {
	Category string
	Tone     string
	Keywords []string
}

// Classifier deriva una categoría de texto libre (título, descripción...).
// Gana la primera regla con alguna palabra presente.
type Classifier struct {
	rules    []Rule
	fallback Rule
}

func NewClassifier(fallback Rule, rules ...Rule) *Classifier {
	return &Classifier{rules: rules, fallback: fallback}
}

// Classify devuelve la regla que encaja y si no se usó la de reserva.
func (c *Classifier) Classify(texts ...string) (Rule, bool) {
	haystack := strings.ToLower(strings.Join(texts, " "))
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
				return r, true
			}
		}
	}
	return c.fallback, false
}

// Badge presenta la clasificación como badge. Si field no está vacío la
// badge filtra por la categoría.
func (c *Classifier) Badge(field Field, texts ...string) Badge {
	r, _ := c.Classify(texts...)
	b := Badge{Label: r.Category, Tone: r.Tone}
	if field != "" {
		b.Field = field
		b.Value = r.Category
	}
	return b
}
