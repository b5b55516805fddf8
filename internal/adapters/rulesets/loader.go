package rulesets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/adapters/textparser"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/contracts"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// Provider хранит наборы правил всех агентств, загруженные один раз
// при старте. Реализует port.RulesetProviderPort; после загрузки
// не мутируется.
type Provider struct {
	rulesets map[string]*domain.Ruleset
}

// NewProviderFromDir загружает все *.json из каталога с правилами.
// Любое нарушение схемы, неизвестная стратегия или отсутствующая
// политика выбора цены — фатальная ошибка до обработки первой записи.
func NewProviderFromDir(dir string) (*Provider, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rulesets directory %s: %w", dir, err)
	}

	loaded := make(map[string]*domain.Ruleset)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		rs, err := loadRulesetFile(path)
		if err != nil {
			return nil, err
		}
		if _, exists := loaded[rs.Agency]; exists {
			return nil, fmt.Errorf("duplicate ruleset for agency %s in %s", rs.Agency, path)
		}
		loaded[rs.Agency] = rs
	}

	if len(loaded) == 0 {
		return nil, fmt.Errorf("no rulesets found in directory %s", dir)
	}
	return &Provider{rulesets: loaded}, nil
}

func loadRulesetFile(path string) (*domain.Ruleset, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset file %s: %w", path, err)
	}

	if err := contracts.ValidateRuleset(body); err != nil {
		return nil, fmt.Errorf("ruleset %s violates the contract schema: %w", path, err)
	}

	var rs domain.Ruleset
	if err := json.Unmarshal(body, &rs); err != nil {
		return nil, fmt.Errorf("failed to decode ruleset %s: %w", path, err)
	}

	switch rs.MultiPricePolicy {
	case domain.PickFirstPrice, domain.PickLargestPrice:
	default:
		return nil, fmt.Errorf("ruleset %s: unknown multi price policy %q", path, rs.MultiPricePolicy)
	}

	// собираем разборщик сразу: неизвестная стратегия или дефектная
	// таблица правил должны валить загрузку, а не первый запрос
	if _, err := textparser.NewAdapter(&rs); err != nil {
		return nil, fmt.Errorf("ruleset %s is not buildable: %w", path, err)
	}
	return &rs, nil
}

// Get возвращает набор правил агентства.
func (p *Provider) Get(agency string) (*domain.Ruleset, error) {
	rs, ok := p.rulesets[agency]
	if !ok {
		return nil, fmt.Errorf("agency %s is not configured", agency)
	}
	return rs, nil
}

// Agencies возвращает имена загруженных агентств в стабильном порядке.
func (p *Provider) Agencies() []string {
	out := make([]string, 0, len(p.rulesets))
	for name := range p.rulesets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
