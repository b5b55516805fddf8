package rulesets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

const validRuleset = `{
  "agency": "SERPECAL",
  "mnemonic": "SPC",
  "marker": "*",
  "neighborhood_strategies": ["before_colon"],
  "multi_price_policy": "first_only",
  "type_keywords": [{ "label": "House", "keywords": ["casa"] }],
  "transaction_keywords": [{ "label": "Sale", "keywords": ["venta"] }],
  "default_transaction": "Sale",
  "default_property_type": "House"
}`

func writeRuleset(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestProviderLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeRuleset(t, dir, "serpecal.json", validRuleset)

	p, err := NewProviderFromDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"SERPECAL"}, p.Agencies())

	rs, err := p.Get("SERPECAL")
	require.NoError(t, err)
	assert.Equal(t, "SPC", rs.Mnemonic)
	assert.Equal(t, domain.PickFirstPrice, rs.MultiPricePolicy)

	_, err = p.Get("OTRA")
	require.Error(t, err)
}

func TestProviderRejectsMissingPricePolicy(t *testing.T) {
	dir := t.TempDir()
	writeRuleset(t, dir, "bad.json", `{
	  "agency": "X",
	  "mnemonic": "X",
	  "marker": "*",
	  "neighborhood_strategies": ["before_colon"],
	  "default_transaction": "Sale",
	  "default_property_type": "House"
	}`)

	_, err := NewProviderFromDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestProviderRejectsUnknownPolicyValue(t *testing.T) {
	dir := t.TempDir()
	writeRuleset(t, dir, "bad.json", `{
	  "agency": "X",
	  "mnemonic": "X",
	  "marker": "*",
	  "neighborhood_strategies": ["before_colon"],
	  "multi_price_policy": "banana",
	  "default_transaction": "Sale",
	  "default_property_type": "House"
	}`)

	_, err := NewProviderFromDir(dir)
	require.Error(t, err)
}

func TestProviderRejectsDuplicateAgency(t *testing.T) {
	dir := t.TempDir()
	writeRuleset(t, dir, "a.json", validRuleset)
	writeRuleset(t, dir, "b.json", validRuleset)

	_, err := NewProviderFromDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestProviderRejectsEmptyDirectory(t *testing.T) {
	_, err := NewProviderFromDir(t.TempDir())
	require.Error(t, err)
}
