package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/storetype"
)

func TestDefaultIsValid(t *testing.T) {
	r := Default()
	require.NoError(t, r.Validate())
	for _, f := range schema.Fields() {
		_, ok := r.Mapper.Fields[f]
		assert.True(t, ok, "no mapper rule for %s", f)
	}
	for _, c := range storetype.Specific() {
		_, ok := r.Detector.Signatures[c]
		assert.True(t, ok, "no signature for %s", c)
	}
}

func TestLookupsFallBack(t *testing.T) {
	r := Default()
	assert.Equal(t, 0.35, r.CostRatio(storetype.Fashion))
	assert.Equal(t, 0.50, r.CostRatio(storetype.HomeGarden))
	assert.Equal(t, 12.0, r.Turnover(storetype.Food))
	assert.Equal(t, 5.0, r.Turnover(storetype.Digital))

	b, used := r.Benchmark(storetype.Handmade)
	assert.Equal(t, storetype.General, used)
	assert.Equal(t, 75.0, b.AOV)
	b, used = r.Benchmark(storetype.Beauty)
	assert.Equal(t, storetype.Beauty, used)
	assert.Equal(t, 45.80, b.AOV)

	assert.Equal(t, "Add a size guide", r.ProductAdvice(storetype.Fashion, "en")[3])
	assert.Equal(t, "تحسين SEO للمنتجات", r.MarketingAdvice(storetype.Food, "ar")[0])
	assert.Equal(t, r.Recommendations.Immediate["en"], r.Recommendations.Immediate.For("de"))
}

func TestAdviceIsACopy(t *testing.T) {
	r := Default()
	got := r.ProductAdvice(storetype.General, "en")
	got[0] = "changed"
	assert.NotEqual(t, "changed", r.ProductAdvice(storetype.General, "en")[0])
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `
finance:
  cost_ratios:
    fashion: 0.4
detector:
  value_match: 1
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.4, r.CostRatio(storetype.Fashion))
	assert.Equal(t, 0.65, r.CostRatio(storetype.Electronics), "other entries kept")
	assert.Equal(t, 1.0, r.Detector.ValueMatch)
	assert.Equal(t, 2.0, r.Detector.ColumnKeyword)
}

func TestLoadFileRejectsBadRules(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("finance:\n  cost_ratios:\n    fashion: 1.5\n"), 0o644))
	_, err := LoadFile(bad)
	assert.Error(t, err)

	badRe := filepath.Join(dir, "re.yaml")
	require.NoError(t, os.WriteFile(badRe, []byte("mapper:\n  fields:\n    quantity:\n      patterns: ['(']\n"), 0o644))
	_, err = LoadFile(badRe)
	assert.Error(t, err)

	for _, body := range []string{
		"detector:\n  column_keyword: -2\n",
		"detector:\n  value_match: -0.5\n",
		"detector:\n  category_keyword: -1\n",
		"mapper:\n  pattern: -3\n",
		"mapper:\n  keyword: -1\n",
	} {
		neg := filepath.Join(dir, "neg.yaml")
		require.NoError(t, os.WriteFile(neg, []byte(body), 0o644))
		_, err = LoadFile(neg)
		assert.Error(t, err, "negative weight accepted: %q", body)
	}

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("nonsense: 1\n"), 0o644))
	_, err = LoadFile(unknown)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestEmptyPathAndEmptyFile(t *testing.T) {
	r, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default().Detector.SampleRows, r.Detector.SampleRows)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = LoadFile(empty)
	assert.NoError(t, err)
}

func TestYAMLRoundTrip(t *testing.T) {
	out, err := Default().YAML()
	require.NoError(t, err)
	var back Rules
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, Default().Finance, back.Finance)
	assert.Contains(t, string(out), "cost_ratios:")
}
