package textparser

import (
	"regexp"
	"strconv"
	"strings"
)

// Числительные исходного языка, встречающиеся в объявлениях.
var numberWords = map[string]int{
	"uno": 1, "una": 1, "dos": 2, "tres": 3, "cuatro": 4, "cinco": 5,
	"seis": 6, "siete": 7, "ocho": 8, "nueve": 9, "diez": 10,
}

var (
	commaThousandsRx = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
	dotThousandsRx   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
)

// parseLocaleNumber разбирает числовой токен, терпимый к смешанным
// локалям разделителей:
//
//	170,000  -> 170000
//	1,200.50 -> 1200.5
//	1.200,50 -> 1200.5
//	2,5      -> 2.5
//	1.200    -> 1200
//
// Возвращает nil, если токен числом не является.
func parseLocaleNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		// последний разделитель — десятичный
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		if commaThousandsRx.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	case hasDot:
		if dotThousandsRx.MatchString(s) {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// applyMagnitude умножает значение согласно суффиксу порядка:
// k/mil — тысячи, m/mm/millon(es) — миллионы.
func applyMagnitude(val float64, mag string) float64 {
	switch strings.ToLower(strings.TrimSpace(mag)) {
	case "k", "mil":
		return val * 1_000
	case "m", "mm", "millon", "millón", "millones":
		return val * 1_000_000
	}
	return val
}

// repairDigitConfusions чинит буквы, которые OCR путает с цифрами,
// внутри токена, где уже есть хотя бы одна цифра.
func repairDigitConfusions(token string) string {
	if !strings.ContainsAny(token, "0123456789") {
		return token
	}
	r := strings.NewReplacer("O", "0", "o", "0", "l", "1", "I", "1")
	return r.Replace(token)
}

// wordToInt возвращает значение числительного или nil.
func wordToInt(word string) *int {
	if v, ok := numberWords[strings.ToLower(strings.TrimSpace(word))]; ok {
		return &v
	}
	return nil
}

// numberWordAlternation — альтернация всех числительных для регулярок.
func numberWordAlternation() string {
	words := make([]string, 0, len(numberWords))
	for w := range numberWords {
		words = append(words, w)
	}
	// длинные раньше коротких, чтобы "cuatro" не съедался "uno"
	return escapeAlternation(words)
}
