package textparser

import (
	"strings"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// classifier — первичная пословная классификация типа недвижимости
// и сделки. Правила применяются в объявленном порядке, побеждает
// первое совпадение; намеренно снисходительна — решающее слово
// остаётся за валидаторами пакетного прохода.
type classifier struct {
	typeRules        []foldedRule
	transactionRules []foldedRule
}

type foldedRule struct {
	label    string
	keywords []string
}

func newClassifier(rs *domain.Ruleset) *classifier {
	return &classifier{
		typeRules:        foldRules(rs.TypeKeywords),
		transactionRules: foldRules(rs.TransactionKeywords),
	}
}

func foldRules(rules []domain.KeywordRule) []foldedRule {
	out := make([]foldedRule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, foldedRule{label: rule.Label, keywords: foldAll(rule.Keywords)})
	}
	return out
}

// PropertyType возвращает метку первой сработавшей группы ключевых
// слов либо пустую строку.
func (c *classifier) PropertyType(text string) string {
	return firstMatch(c.typeRules, matchKey(text))
}

// Transaction возвращает тип сделки по ключевым словам либо пустую строку.
func (c *classifier) Transaction(text string) string {
	return firstMatch(c.transactionRules, matchKey(text))
}

func firstMatch(rules []foldedRule, key string) string {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if kw != "" && strings.Contains(key, kw) {
				return rule.label
			}
		}
	}
	return ""
}
