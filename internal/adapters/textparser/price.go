package textparser

import (
	"regexp"
	"strings"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// Шаблон числа: сперва тысячные группы, затем простые числа
// с необязательным десятичным хвостом.
const numberPattern = `\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?`

const magnitudePattern = `mill(?:[óo]n|ones)|mm|mil|k`

var (
	yearMaskRx    = regexp.MustCompile(`\b(?:19\d{2}|20\d{2})\b`)
	areaClusterRx = regexp.MustCompile(`<AREA>\s*/\s*<AREA>`)
)

// priceCandidate — одно ценоподобное вхождение в тексте.
type priceCandidate struct {
	start    int
	end      int
	value    float64
	currency string
}

// priceExtractor находит цену и валюту в нормализованном тексте.
// Все шаблоны компилируются один раз при загрузке набора правил.
type priceExtractor struct {
	aliases   map[string]string
	prefixRx  *regexp.Regexp
	suffixRx  *regexp.Regexp
	keywordRx *regexp.Regexp
	sepRx     *regexp.Regexp
	maskRxs   []*regexp.Regexp
	policy    domain.MultiPricePolicy
	require   bool
}

func newPriceExtractor(rs *domain.Ruleset) *priceExtractor {
	aliases := make(map[string]string, len(rs.CurrencyAliases))
	tokens := make([]string, 0, len(rs.CurrencyAliases))
	for alias, code := range rs.CurrencyAliases {
		aliases[strings.ToLower(alias)] = code
		tokens = append(tokens, alias)
	}

	curAlt := escapeAlternation(tokens)
	if len(tokens) == 0 {
		curAlt = `\$` // деваться некуда, но без алиасов цена всё равно не пройдёт require
	}

	mag := `(?:\s*(?P<mag>` + magnitudePattern + `)\b|(?P<magk>[km])\b)?`
	prefixRx := regexp.MustCompile(
		`(?i)(?P<cur>` + curAlt + `)\s*(?P<num>` + numberPattern + `)` + mag)
	suffixRx := regexp.MustCompile(
		`(?i)(?P<num>` + numberPattern + `)` + mag + `\s*(?P<cur>` + curAlt + `)`)

	// число без валюты принимается только рядом с ценовым ключевым
	// словом и только когда валюта не обязательна
	var keywordRx *regexp.Regexp
	if !rs.RequireCurrency && len(rs.PriceKeywords) > 0 {
		keywordRx = regexp.MustCompile(
			`(?i)(?:` + escapeAlternation(rs.PriceKeywords) + `)\s*[:=]?\s*(?P<num>` + numberPattern + `)` + mag)
	}

	seps := rs.RangeSeparators
	if len(seps) == 0 {
		seps = []string{"-", "–", "—", "/", " a ", " hasta "}
	}
	sepRx := regexp.MustCompile(`^\s*(?:` + escapeAlternation(seps) + `)\s*`)

	return &priceExtractor{
		aliases:   aliases,
		prefixRx:  prefixRx,
		suffixRx:  suffixRx,
		keywordRx: keywordRx,
		sepRx:     sepRx,
		maskRxs:   compilePriceMasks(rs),
		policy:    rs.MultiPricePolicy,
		require:   rs.RequireCurrency,
	}
}

// compilePriceMasks собирает маски чисел, которые ценой не являются:
// площади, комнаты, уровни, парковки, метки и годы.
func compilePriceMasks(rs *domain.Ruleset) []*regexp.Regexp {
	var masks []*regexp.Regexp

	units := append([]string{}, rs.BuiltAreaUnits...)
	units = append(units, rs.TerrainAreaUnits...)
	units = append(units, rs.ManzanaUnits...)
	units = append(units, "m2", "m²", "mts2", "v2", "vrs2", "vrs²", "varas cuadradas")
	masks = append(masks, regexp.MustCompile(
		`(?i)\b(?:`+numberPattern+`)\s*(?:`+escapeAlternation(units)+`)\b`))

	roomWords := append([]string{}, rs.BedroomKeywords...)
	roomWords = append(roomWords, rs.BathroomKeywords...)
	roomWords = append(roomWords, "hab", "habitaciones", "baños", "banos", "baths")
	masks = append(masks, regexp.MustCompile(
		`(?i)\(?\d+\)?\s*(?:`+escapeAlternation(roomWords)+`)\b`))

	levels := []string{"niv", "niv.", "nivel", "niveles", "plantas", "pisos"}
	masks = append(masks, regexp.MustCompile(
		`(?i)\(?\d+\)?\s*(?:`+escapeAlternation(levels)+`)\b`))

	parking := []string{"gje", "garage", "garaje", "garajes", "cochera", "cocheras", "parqueo", "parqueos"}
	masks = append(masks, regexp.MustCompile(
		`(?i)\(?\d+\)?\s*(?:`+escapeAlternation(parking)+`)\b`))
	masks = append(masks, regexp.MustCompile(
		`(?i)\b(?:`+escapeAlternation(parking)+`)\s*\.?\s*\(?\d+\)?\b`))

	labels := []string{"id", "ref", "código", "codigo", "code"}
	masks = append(masks, regexp.MustCompile(
		`(?i)\b(?:`+escapeAlternation(labels)+`)\s*[:=]\s*\d+\b`))

	masks = append(masks, yearMaskRx)
	return masks
}

// mask заменяет неценовые числа плейсхолдерами перед сканированием.
func (p *priceExtractor) mask(s string) string {
	masked := p.maskRxs[0].ReplaceAllString(s, "<AREA>")
	masked = areaClusterRx.ReplaceAllString(masked, "<AREA>")
	for _, rx := range p.maskRxs[1:] {
		masked = rx.ReplaceAllString(masked, "<META>")
	}
	return masked
}

// Extract возвращает цену и канонический код валюты либо nil,
// если ценоподобных токенов не нашлось или валюта обязательна
// и не распознана.
func (p *priceExtractor) Extract(text string) (*float64, *string) {
	if text == "" {
		return nil, nil
	}
	masked := p.mask(text)

	candidates := p.scan(masked)
	if len(candidates) == 0 {
		return nil, nil
	}

	candidates = p.mergeRanges(masked, candidates)

	chosen := candidates[0]
	if p.policy == domain.PickLargestPrice {
		for _, c := range candidates[1:] {
			if c.value > chosen.value {
				chosen = c
			}
		}
	}

	val := chosen.value
	if chosen.currency == "" {
		return &val, nil
	}
	cur := chosen.currency
	return &val, &cur
}

// scan собирает кандидатов из префиксных и суффиксных совпадений
// в порядке их позиций. Кандидаты не пересекаются: совпадение, которое
// делит валютный токен с уже принятым ("3500 L 4000"), отбрасывается.
func (p *priceExtractor) scan(masked string) []priceCandidate {
	var out []priceCandidate

	overlaps := func(start, end int) bool {
		for _, c := range out {
			if start < c.end && c.start < end {
				return true
			}
		}
		return false
	}

	collect := func(rx *regexp.Regexp) {
		names := rx.SubexpNames()
		for _, m := range rx.FindAllStringSubmatchIndex(masked, -1) {
			start, end := m[0], m[1]
			if overlaps(start, end) {
				continue
			}
			// валютный токен не должен быть хвостом слова
			if start > 0 && isLetter(masked[start-1]) {
				continue
			}
			var curTok, numTok, magTok string
			for gi, name := range names {
				if m[2*gi] < 0 {
					continue
				}
				val := masked[m[2*gi]:m[2*gi+1]]
				switch name {
				case "cur":
					curTok = val
				case "num":
					numTok = val
				case "mag", "magk":
					magTok = val
				}
			}

			code := p.aliases[strings.ToLower(curTok)]
			if curTok == "" && p.require {
				continue
			}

			v := parseLocaleNumber(numTok)
			if v == nil {
				continue
			}
			out = append(out, priceCandidate{
				start:    start,
				end:      end,
				value:    applyMagnitude(*v, magTok),
				currency: code,
			})
		}
	}

	collect(p.prefixRx)
	collect(p.suffixRx)
	if p.keywordRx != nil {
		collect(p.keywordRx)
	}

	// упорядочить по позиции в тексте
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].start < out[j-1].start; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// mergeRanges склеивает пары кандидатов, разделённых конфигурируемым
// разделителем диапазона, в одного кандидата с нижней границей.
func (p *priceExtractor) mergeRanges(masked string, cands []priceCandidate) []priceCandidate {
	if len(cands) < 2 {
		return cands
	}
	var out []priceCandidate
	for i := 0; i < len(cands); i++ {
		cur := cands[i]
		if i+1 < len(cands) && cands[i+1].start >= cur.end {
			next := cands[i+1]
			between := masked[cur.end:next.start]
			if loc := p.sepRx.FindStringIndex(between); loc != nil && loc[1] == len(between) {
				low := cur
				if next.value < cur.value {
					low.value = next.value
				}
				if low.currency == "" {
					low.currency = next.currency
				}
				low.end = next.end
				out = append(out, low)
				i++
				continue
			}
		}
		out = append(out, cur)
	}
	return out
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
