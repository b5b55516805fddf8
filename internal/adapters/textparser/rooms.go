package textparser

import (
	"regexp"
	"strings"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// roomsExtractor находит количество спален и ванных рядом с ключевыми
// словами. Числа вдали от ключевого слова не берутся.
type roomsExtractor struct {
	bedDigitRx  *regexp.Regexp
	bedWordRx   *regexp.Regexp
	bathHalfRx  *regexp.Regexp
	bathMedioRx *regexp.Regexp
	bathDigitRx *regexp.Regexp
	bathWordRx  *regexp.Regexp
	slashRx     *regexp.Regexp
	maxBath     float64
	allowSlash  bool
}

func newRoomsExtractor(rs *domain.Ruleset) *roomsExtractor {
	bedKw := withDefaults(rs.BedroomKeywords, []string{"hab", "habitaciones", "dormitorios", "recámaras", "alcobas"})
	bathKw := withDefaults(rs.BathroomKeywords, []string{"baños", "banos", "baño", "bano", "baths"})

	// ключевые слова сворачиваются так же, как и текст при поиске
	bedAlt := escapeAlternation(foldAll(bedKw))
	bathAlt := escapeAlternation(foldAll(bathKw))
	words := numberWordAlternation()

	maxBath := rs.MaxBathrooms
	if maxBath <= 0 {
		maxBath = 10
	}

	return &roomsExtractor{
		bedDigitRx:  regexp.MustCompile(`(?i)\(?(\d{1,2})\)?\s*(?:` + bedAlt + `)\b`),
		bedWordRx:   regexp.MustCompile(`(?i)\b(` + words + `)\s*(?:` + bedAlt + `)\b`),
		// NFKD раскладывает '½' в '1⁄2' с дробной косой чертой
		bathHalfRx:  regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:1/2|1⁄2|½)\s*(?:` + bathAlt + `)`),
		bathMedioRx: regexp.MustCompile(`(?i)\b(\d{1,2})\s*y\s*medio\s*(?:` + bathAlt + `)?`),
		bathDigitRx: regexp.MustCompile(`(?i)\(?(\d{1,2}(?:[.,]5)?)\)?\s*(?:` + bathAlt + `)\b`),
		bathWordRx:  regexp.MustCompile(`(?i)\b(` + words + `)\s*(?:` + bathAlt + `)\b`),
		slashRx:     regexp.MustCompile(`\b(\d{1,2})\s*/\s*(\d{1,2}(?:[.,]5)?|½)\b`),
		maxBath:     maxBath,
		allowSlash:  rs.AllowSlashShorthand,
	}
}

// Bedrooms извлекает число спален: цифра у ключевого слова, затем
// числительное, затем слэш-запись, если она включена в правилах.
func (r *roomsExtractor) Bedrooms(text string) *int {
	key := matchKey(text)

	if m := r.bedDigitRx.FindStringSubmatch(key); m != nil {
		if v := parseLocaleNumber(m[1]); v != nil && *v > 0 && *v < 20 {
			n := int(*v)
			return &n
		}
	}
	if m := r.bedWordRx.FindStringSubmatch(key); m != nil {
		if v := wordToInt(m[1]); v != nil {
			return v
		}
	}
	if r.allowSlash {
		if m := r.slashRx.FindStringSubmatch(key); m != nil {
			if v := parseLocaleNumber(m[1]); v != nil && *v > 0 && *v < 20 {
				n := int(*v)
				return &n
			}
		}
	}
	return nil
}

// Bathrooms извлекает число ванных с полушагами ("2 1/2", "1½",
// "2 y medio"). Значение выше потолка правил считается шумом
// распознавания и отбрасывается, а не обрезается.
func (r *roomsExtractor) Bathrooms(text string) *float64 {
	key := matchKey(text)

	if m := r.bathHalfRx.FindStringSubmatch(key); m != nil {
		if v := parseLocaleNumber(m[1]); v != nil {
			return r.capped(*v + 0.5)
		}
	}
	if m := r.bathMedioRx.FindStringSubmatch(key); m != nil {
		if v := parseLocaleNumber(m[1]); v != nil {
			return r.capped(*v + 0.5)
		}
	}
	if m := r.bathDigitRx.FindStringSubmatch(key); m != nil {
		if v := parseLocaleNumber(m[1]); v != nil {
			return r.capped(*v)
		}
	}
	if m := r.bathWordRx.FindStringSubmatch(key); m != nil {
		if v := wordToInt(m[1]); v != nil {
			return r.capped(float64(*v))
		}
	}
	if r.allowSlash {
		if m := r.slashRx.FindStringSubmatch(key); m != nil {
			tok := strings.ReplaceAll(m[2], "½", "0.5")
			if v := parseLocaleNumber(tok); v != nil {
				return r.capped(*v)
			}
		}
	}
	return nil
}

func (r *roomsExtractor) capped(v float64) *float64 {
	if v <= 0 || v > r.maxBath {
		return nil
	}
	return &v
}
