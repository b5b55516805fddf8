package textparser

import (
	"regexp"
	"strings"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// segmenter размечает строки полосы на объявления: нормализует
// синонимы маркера к каноническому, склеивает строки-продолжения
// и протягивает контекст заголовков разделов.
type segmenter struct {
	marker    string
	synonymRx *regexp.Regexp
	sections  *sectionDetector
}

func newSegmenter(rs *domain.Ruleset, sections *sectionDetector) *segmenter {
	marker := strings.TrimSpace(rs.Marker)
	if marker == "" {
		marker = "*"
	}

	var synonyms []string
	for _, s := range rs.MarkerSynonyms {
		s = strings.TrimSpace(s)
		if s != "" && s != marker {
			synonyms = append(synonyms, s)
		}
	}

	var synonymRx *regexp.Regexp
	if len(synonyms) > 0 {
		parts := make([]string, len(synonyms))
		for i, s := range synonyms {
			parts[i] = "(?:" + regexp.QuoteMeta(s) + "+)"
		}
		// синоним заменяется только в самом начале строки;
		// внутренние вхождения символа не трогаются
		synonymRx = regexp.MustCompile(`^\s*(?:` + strings.Join(parts, "|") + `)\s*`)
	}

	return &segmenter{marker: marker, synonymRx: synonymRx, sections: sections}
}

// normalizeLeader приводит ведущий маркер строки к каноническому.
func (sg *segmenter) normalizeLeader(line string) string {
	if sg.synonymRx != nil && sg.synonymRx.MatchString(line) {
		return sg.synonymRx.ReplaceAllString(line, sg.marker+" ")
	}
	return strings.TrimSpace(line)
}

// Split превращает строки полосы в размеченные объявления.
// Контент никогда не приводит к ошибке.
func (sg *segmenter) Split(lines []string) []domain.RawListing {
	ctx := sectionContext{}
	var out []domain.RawListing
	var current []string
	haveCurrent := false
	currentCtx := ctx

	flush := func() {
		if !haveCurrent || len(current) == 0 {
			current = nil
			haveCurrent = false
			return
		}
		text := strings.TrimSpace(strings.Join(current, " "))
		if text != "" {
			out = append(out, domain.RawListing{
				Index:              len(out),
				Text:               text,
				SectionTransaction: currentCtx.Transaction,
				SectionType:        currentCtx.PropertyType,
			})
		}
		current = nil
		haveCurrent = false
	}

	for _, line := range lines {
		clean := sg.normalizeLeader(line)
		if clean == "" {
			continue
		}

		if newCtx, ok := sg.sections.Detect(clean); ok {
			flush()
			ctx = newCtx
			continue
		}

		if strings.HasPrefix(clean, sg.marker) {
			flush()
			body := strings.TrimSpace(strings.TrimPrefix(clean, sg.marker))
			current = []string{body}
			haveCurrent = true
			currentCtx = ctx
			continue
		}

		// строка-продолжение; текст до первого маркера тоже копится
		if !haveCurrent {
			haveCurrent = true
			currentCtx = ctx
		}
		current = append(current, clean)
	}
	flush()

	return out
}
