// Package columns приводит заголовки листов к каноническим идентификаторам.
//
// Заголовки в выгрузках меняются от года к году ("Förnamn", "Födelsedat/Personnr",
// "Kön"), поэтому колонки ищутся по нормализованному имени, а не по позиции.
package columns

import (
	"strings"

	"github.com/ryabkov82/clubstats/internal/apperr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var punctuation = strings.NewReplacer(
	".", "",
	" ", "_",
	"/", "_",
	":", "",
)

var diacritics = strings.NewReplacer(
	"å", "a",
	"ä", "a",
	"ö", "o",
)

// Normalize: нижний регистр, пунктуация, затем å/ä/ö.
func Normalize(header string) string {
	lower := cases.Lower(language.Und).String(header)
	return diacritics.Replace(punctuation.Replace(lower))
}

// Mapping хранит пары исходный заголовок -> идентификатор в порядке листа.
type Mapping struct {
	Original  []string
	Canonical []string
}

// Renamed возвращает только изменившиеся заголовки.
func (m Mapping) Renamed() map[string]string {
	out := make(map[string]string)
	for i, o := range m.Original {
		if o != m.Canonical[i] {
			out[o] = m.Canonical[i]
		}
	}
	return out
}

// NormalizeHeaders нормализует все заголовки и отказывает, если два
// разных заголовка дают один идентификатор.
func NormalizeHeaders(headers []string) (Mapping, error) {
	m := Mapping{
		Original:  make([]string, len(headers)),
		Canonical: make([]string, len(headers)),
	}
	seen := make(map[string]string, len(headers))

	for i, h := range headers {
		canonical := Normalize(h)
		if prev, ok := seen[canonical]; ok {
			return Mapping{}, apperr.Newf(apperr.CodeColumnCollision,
				"заголовки %q и %q совпадают после нормализации: %q", prev, h, canonical)
		}
		seen[canonical] = h
		m.Original[i] = h
		m.Canonical[i] = canonical
	}

	return m, nil
}
