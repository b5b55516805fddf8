package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	foldSpaceRx     = regexp.MustCompile(`\s+`)
)

// foldText приводит текст к ключу поиска сигналов: нижний регистр,
// снятые диакритики, схлопнутые пробелы. Хранимые значения записи
// никогда через эту свёртку не проходят.
func foldText(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.TrimSpace(foldSpaceRx.ReplaceAllString(folded, " "))
}
