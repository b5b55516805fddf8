package textparser

import (
	"strings"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// sectionContext — контекст, заданный заголовком раздела полосы.
type sectionContext struct {
	Transaction  string
	PropertyType string
}

// sectionDetector распознаёт заголовки разделов. Заголовок считается
// самым сильным сигналом: его контекст наследуют все объявления
// до следующего заголовка.
type sectionDetector struct {
	marker  string
	headers []domain.SectionHeader
	folded  []string
}

func newSectionDetector(rs *domain.Ruleset) *sectionDetector {
	folded := make([]string, len(rs.SectionHeaders))
	for i, h := range rs.SectionHeaders {
		folded[i] = matchKey(h.Pattern)
	}
	return &sectionDetector{
		marker:  rs.HeaderMarker,
		headers: rs.SectionHeaders,
		folded:  folded,
	}
}

// Detect возвращает контекст раздела, если строка — заголовок.
// Совпадения ищутся по всем настроенным шаблонам, самое длинное
// выигрывает.
func (d *sectionDetector) Detect(line string) (sectionContext, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
	if s == "" {
		return sectionContext{}, false
	}
	if d.marker != "" {
		if !strings.HasPrefix(s, d.marker) {
			return sectionContext{}, false
		}
		s = strings.TrimSpace(strings.TrimPrefix(s, d.marker))
	}

	key := matchKey(s)
	best := -1
	bestLen := 0
	for i, pat := range d.folded {
		if pat == "" {
			continue
		}
		if strings.Contains(key, pat) && len(pat) > bestLen {
			best, bestLen = i, len(pat)
		}
	}
	if best < 0 {
		return sectionContext{}, false
	}
	h := d.headers[best]
	return sectionContext{Transaction: h.Transaction, PropertyType: h.PropertyType}, true
}
