package textparser

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ocrRepair — одна пара замены артефакта OCR.
type ocrRepair struct {
	from, to string
}

// Встроенная таблица известных артефактов OCR газетных сканов.
// Порядок значим: составные последовательности раньше одиночных.
var builtinOCRRepairs = []ocrRepair{
	{"√±", "ñ"},
	{"ƒ±", "ñ"},
	{"√≥", "ó"},
	{"√", ""},
	{"ƒ", ""},
	{"Ã", "í"},
	{"â", ""},
}

var (
	digitRunRx       = regexp.MustCompile(`\d[\d\s.,]*\d`)
	confusedDigitsRx = regexp.MustCompile(`\d[\dOolI.,]*\d`)
	sepThenSpaceRx   = regexp.MustCompile(`([.,])\s+(\d{3})(\D|$)`)
	spaceThenSepRx   = regexp.MustCompile(`\s+([.,])(\d{3})(\D|$)`)
	whitespaceRx     = regexp.MustCompile(`\s+`)
)

// Normalizer выполняет идемпотентную очистку сырой строки объявления:
// чинит артефакты OCR, унифицирует валютные токены и схлопывает пробелы.
// Чистая функция над строкой, незнакомый ввод проходит без изменений.
type Normalizer struct {
	repairs     []ocrRepair
	curPrefixes []string
	leadingDot  *regexp.Regexp
	unitPrice   *regexp.Regexp
}

// NewNormalizer собирает нормализатор под конкретный набор правил:
// встроенные OCR-замены плюс замены агентства, валютные префиксы
// для починки "$.550" и вырезания удельных цен вида "$50/m2".
func NewNormalizer(rs *domain.Ruleset) *Normalizer {
	repairs := make([]ocrRepair, 0, len(builtinOCRRepairs)+len(rs.OCRRepairs))
	repairs = append(repairs, builtinOCRRepairs...)

	extra := make([]string, 0, len(rs.OCRRepairs))
	for from := range rs.OCRRepairs {
		extra = append(extra, from)
	}
	sort.Strings(extra)
	for _, from := range extra {
		repairs = append(repairs, ocrRepair{from, rs.OCRRepairs[from]})
	}

	prefixes := currencyPrefixes(rs)

	n := &Normalizer{repairs: repairs, curPrefixes: prefixes}
	if len(prefixes) > 0 {
		alt := escapeAlternation(prefixes)
		// валюта [пробелы] . цифра  =>  валюта цифра
		n.leadingDot = regexp.MustCompile(`(?i)(` + alt + `)\s*\.\s*(\d)`)
		// валюта + число + (x|por|/) + единица площади = удельная цена
		n.unitPrice = regexp.MustCompile(
			`(?i)(?:` + alt + `)\s*\d[\d.,]*\s*(?:x|por|/)\s*(?:m|mt|mts|metros|v|vr|vrs|varas?)\.?\s*(?:2|²|cuadradas?)?`)
	}
	return n
}

// Normalize применяет проходы очистки в фиксированном порядке.
// Идемпотентна: повторный вызов возвращает строку без изменений.
func (n *Normalizer) Normalize(text string) string {
	s := text
	for _, r := range n.repairs {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, " ", " ")

	// буквы, прочитанные OCR вместо цифр, чинятся только внутри
	// последовательностей, начинающихся и заканчивающихся цифрой
	s = confusedDigitsRx.ReplaceAllStringFunc(s, repairDigitConfusions)

	s = collapseDigitRunSpaces(s)

	if n.leadingDot != nil {
		s = n.leadingDot.ReplaceAllString(s, "${1}${2}")
	}
	if n.unitPrice != nil {
		s = n.unitPrice.ReplaceAllString(s, " ")
	}

	s = whitespaceRx.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// collapseDigitRunSpaces чинит разрывы внутри числовых последовательностей:
// "1, 000,000" -> "1,000,000", "650 ,000" -> "650,000".
func collapseDigitRunSpaces(s string) string {
	return digitRunRx.ReplaceAllStringFunc(s, func(run string) string {
		prev := ""
		for prev != run {
			prev = run
			run = sepThenSpaceRx.ReplaceAllString(run, "$1$2$3")
			run = spaceThenSepRx.ReplaceAllString(run, "$1$2$3")
		}
		return run
	})
}

// currencyPrefixes отбирает алиасы валют, выступающие префиксами суммы.
func currencyPrefixes(rs *domain.Ruleset) []string {
	var prefixes []string
	for alias := range rs.CurrencyAliases {
		if strings.ContainsAny(alias, "$L") || strings.Contains(strings.ToUpper(alias), "HNL") {
			prefixes = append(prefixes, alias)
		}
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	return prefixes
}

// escapeAlternation строит альтернацию из литеральных токенов,
// длинные раньше коротких.
func escapeAlternation(tokens []string) string {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	escaped := make([]string, len(sorted))
	for i, t := range sorted {
		escaped[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(escaped, "|")
}

var foldTransformer = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// foldAll сворачивает каждый токен через matchKey.
func foldAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = matchKey(t)
	}
	return out
}

// matchKey приводит строку к ключу сопоставления: нижний регистр,
// NFKD и срез диакритики. Используется только для поиска ключевых слов,
// никогда для сохраняемых значений.
func matchKey(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return whitespaceRx.ReplaceAllString(strings.TrimSpace(folded), " ")
}
