package listing

// ViewMode es la forma de presentar la lista. Solo vive en estado local.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
	ViewMap  ViewMode = "map"
)

// DefaultViewModes es el subconjunto que usan los catálogos sin mapa.
var DefaultViewModes = []ViewMode{ViewGrid, ViewList}

func indexOf(modes []ViewMode, m ViewMode) int {
	for i, v := range modes {
		if v == m {
			return i
		}
	}
	return -1
}
