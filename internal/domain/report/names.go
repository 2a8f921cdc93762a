package report

import "strconv"

// DisplayNames completa un mapa parcial de nombres: los ids sin nombre
// (o con nombre vacío) caen al id en texto. Nunca falla.
func DisplayNames(ids []int64, partial map[int64]string) map[int64]string {
	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		out[id] = DisplayName(id, partial)
	}
	return out
}

// DisplayName nombre de la entidad o su id en texto.
func DisplayName(id int64, names map[int64]string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return strconv.FormatInt(id, 10)
}
