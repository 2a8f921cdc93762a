package report

// DefaultCompanyID empresa implícita cuando el reporte no trae ninguna faceta seleccionada.
const DefaultCompanyID int64 = 1

// Precedence orden en que se evalúan las facetas para elegir el nivel del reporte.
// Dentro de cada dimensión va de la faceta más profunda a la más general; el orden
// entre dimensiones lo decide cada tipo de reporte.
type Precedence []Facet

// ResolvedLevel nivel de agregación elegido y las entidades sobre las que se reporta.
// IDs nunca está vacío.
type ResolvedLevel struct {
	Facet Facet
	IDs   []int64
}

// Resolve recorre la precedencia y devuelve la primera faceta con ids seleccionados.
// Si ninguna tiene selección, el nivel es company con los ids de fallback
// ([DefaultCompanyID] si fallback está vacío).
//
// Las facetas que no aparecen en la precedencia no influyen en el nivel, pero
// siguen llegando al ejecutor vía FilterSelection.Constraints.
func Resolve(filters FilterSelection, precedence Precedence, fallback []int64) ResolvedLevel {
	for _, facet := range precedence {
		if ids := filters.IDs(facet); len(ids) > 0 {
			return ResolvedLevel{Facet: facet, IDs: ids}
		}
	}
	if len(fallback) == 0 {
		return ResolvedLevel{Facet: FacetCompany, IDs: []int64{DefaultCompanyID}}
	}
	return ResolvedLevel{Facet: FacetCompany, IDs: append([]int64(nil), fallback...)}
}

// Contains indica si la entidad forma parte del nivel resuelto.
func (l ResolvedLevel) Contains(id int64) bool {
	for _, v := range l.IDs {
		if v == id {
			return true
		}
	}
	return false
}

// Column columna de la tabla de hechos que identifica a las entidades del nivel.
func (l ResolvedLevel) Column() string {
	return l.Facet.Column()
}
