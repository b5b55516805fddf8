package textparser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

const defaultParsingWindow = 60

// strategyFunc выделяет кандидата района из окна разбора.
// Пустая строка означает, что разделитель не найден.
type strategyFunc func(window string, e *neighborhoodExtractor) string

// Таблица диспетчеризации стратегий. Закрытое множество: незнакомое
// имя стратегии — фатальная ошибка конфигурации при загрузке.
var strategyTable = map[domain.NeighborhoodStrategy]strategyFunc{
	domain.StrategyBeforeColon:      beforeDelimiter(":"),
	domain.StrategyBeforeComma:      beforeDelimiter(","),
	domain.StrategyBeforeDot:        beforeDot,
	domain.StrategyBeforeCurrency:   beforeCurrency,
	domain.StrategyLeadingUppercase: leadingUppercase,
	domain.StrategyFirstLine:        firstLine,
}

var candidateTrimSet = " \t.,;:-!?*()[]"

// neighborhoodExtractor применяет ровно одну настроенную стратегию
// в пределах окна разбора и прогоняет кандидата через таблицу алиасов.
type neighborhoodExtractor struct {
	strategy   strategyFunc
	window     int
	minDot     int
	prefixRx   *regexp.Regexp
	currencyRx *regexp.Regexp
	aliases    map[string]string
}

func newNeighborhoodExtractor(rs *domain.Ruleset) (*neighborhoodExtractor, error) {
	name := rs.Strategy()
	fn, ok := strategyTable[name]
	if !ok {
		return nil, fmt.Errorf("unknown neighborhood strategy %q for agency %q", name, rs.Agency)
	}

	window := rs.ParsingWindow
	if window <= 0 {
		window = defaultParsingWindow
	}
	minDot := rs.MinDotOffset
	if minDot <= 0 {
		minDot = 4
	}

	var prefixRx *regexp.Regexp
	if len(rs.PrefixTokens) > 0 {
		prefixRx = regexp.MustCompile(`(?i)^\s*(?:` + escapeAlternation(rs.PrefixTokens) + `)\s+`)
	}

	var currencyRx *regexp.Regexp
	if len(rs.CurrencyAliases) > 0 {
		tokens := make([]string, 0, len(rs.CurrencyAliases))
		for alias := range rs.CurrencyAliases {
			tokens = append(tokens, alias)
		}
		currencyRx = regexp.MustCompile(`(?i)` + escapeAlternation(tokens))
	}

	aliases := make(map[string]string, len(rs.NeighborhoodAliases))
	for shorthand, canonical := range rs.NeighborhoodAliases {
		aliases[normCandidate(shorthand)] = normCandidate(canonical)
	}

	return &neighborhoodExtractor{
		strategy:   fn,
		window:     window,
		minDot:     minDot,
		prefixRx:   prefixRx,
		currencyRx: currencyRx,
		aliases:    aliases,
	}, nil
}

// Extract возвращает канонический район или nil, если стратегия
// не нашла разделителя в окне. Догадок не делается.
func (e *neighborhoodExtractor) Extract(text string) *string {
	window := text
	if runes := []rune(window); len(runes) > e.window {
		window = string(runes[:e.window])
	}
	if e.prefixRx != nil {
		window = e.prefixRx.ReplaceAllString(window, "")
	}

	candidate := e.strategy(window, e)
	if candidate == "" {
		return nil
	}

	resolved := normCandidate(candidate)
	if resolved == "" {
		return nil
	}
	if canonical, ok := e.aliases[resolved]; ok {
		resolved = canonical
	}
	return &resolved
}

// normCandidate приводит кандидата к канонической форме записи:
// верхний регистр, схлопнутые пробелы, срезанная пунктуация по краям.
func normCandidate(s string) string {
	s = whitespaceRx.ReplaceAllString(s, " ")
	s = strings.Trim(s, candidateTrimSet)
	return strings.ToUpper(s)
}

func beforeDelimiter(delim string) strategyFunc {
	return func(window string, _ *neighborhoodExtractor) string {
		idx := strings.Index(window, delim)
		if idx <= 0 {
			return ""
		}
		return window[:idx]
	}
}

// beforeDot берёт текст до первой точки, но только если точка стоит
// дальше минимального сдвига: иначе это почти наверняка сокращение.
func beforeDot(window string, e *neighborhoodExtractor) string {
	idx := strings.Index(window, ".")
	if idx < e.minDot {
		return ""
	}
	return window[:idx]
}

func beforeCurrency(window string, e *neighborhoodExtractor) string {
	if e.currencyRx == nil {
		return ""
	}
	loc := e.currencyRx.FindStringIndex(window)
	if loc == nil || loc[0] == 0 {
		return ""
	}
	return window[:loc[0]]
}

// leadingUppercase собирает идущие подряд токены в верхнем регистре
// с начала окна.
func leadingUppercase(window string, _ *neighborhoodExtractor) string {
	var picked []string
	for _, tok := range strings.Fields(window) {
		clean := strings.Trim(tok, candidateTrimSet)
		if clean == "" || clean != strings.ToUpper(clean) || !hasLetter(clean) {
			break
		}
		picked = append(picked, clean)
	}
	return strings.Join(picked, " ")
}

func firstLine(window string, _ *neighborhoodExtractor) string {
	idx := strings.IndexByte(window, '\n')
	if idx < 0 {
		return window
	}
	return window[:idx]
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == 'Ñ' || r == 'ñ' {
			return true
		}
	}
	return false
}
