package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/storelens/internal/config"
	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/storetype"
	"github.com/KaramelBytes/storelens/internal/table"
)

const ordersCSV = `order_id,order_date,customer_id,size,color,quantity,price
O1,2024-01-01,C1,M,red,2,10
O2,2024-01-02,C2,S,blue,1,50
O3,2024-01-03,C1,L,red,3,10
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(nil)
	require.NoError(t, err)
	return s
}

func TestLoadAnalyzeReport(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, s.Load(ctx, writeFile(t, "orders.csv", ordersCSV)))

	assert.Equal(t, storetype.Fashion, s.Category())
	m := s.Mapping()
	col, ok := m.Column(schema.TransactionID)
	require.True(t, ok)
	assert.Equal(t, "order_id", col)
	assert.True(t, m.SynthesizeTotal)

	v, err := s.Validate()
	require.NoError(t, err)
	assert.True(t, v.Valid, v.Errors)

	res, err := s.Analyze(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 100, res.SalesPerformance.TotalRevenue, 1e-9)
	assert.Equal(t, "en", res.Language)

	out, err := s.Report(ctx, "", "md")
	require.NoError(t, err)
	assert.Contains(t, out, "100.00 SAR")

	c, err := s.Chart(ctx, "kpi", "")
	require.NoError(t, err)
	assert.Equal(t, 100.0, c.Series[0].Values[0])

	info := s.Info()
	assert.True(t, info.Analyzed)
	assert.Equal(t, 3, info.Rows)
	assert.Equal(t, "order_id", info.Mapping[schema.TransactionID])
}

func TestReportInOtherLanguage(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, s.Load(ctx, writeFile(t, "orders.csv", ordersCSV)))
	_, err := s.Analyze(ctx)
	require.NoError(t, err)

	out, err := s.Report(ctx, "ar", "txt")
	require.NoError(t, err)
	assert.Contains(t, out, "تقرير تحليل المتجر")
	assert.Equal(t, "ar", s.Result().Language)
}

func TestOperationsNeedState(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	_, err := s.Validate()
	assert.ErrorIs(t, err, ErrNoTable)
	_, err = s.Analyze(ctx)
	assert.ErrorIs(t, err, ErrNoTable)
	assert.ErrorIs(t, s.Override(ctx, nil), ErrNoTable)

	require.NoError(t, s.Load(ctx, writeFile(t, "orders.csv", ordersCSV)))
	_, err = s.Report(ctx, "en", "md")
	assert.ErrorIs(t, err, ErrNotAnalyzed)
	_, err = s.Chart(ctx, "kpi", "en")
	assert.ErrorIs(t, err, ErrNotAnalyzed)
}

func TestOverrideInvalidatesAndValidates(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, s.Load(ctx, writeFile(t, "orders.csv", ordersCSV)))
	_, err := s.Analyze(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Override(ctx, map[schema.Field]string{schema.OrderDate: ""}))
	assert.Nil(t, s.Result())

	_, err = s.Analyze(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMapping)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Result.MissingRequired, schema.OrderDate)
}

func TestEmptyLoadKeepsPreviousTable(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, s.Load(ctx, writeFile(t, "orders.csv", ordersCSV)))

	err := s.Load(ctx, writeFile(t, "empty.csv", "order_id,total\n"))
	assert.ErrorIs(t, err, table.ErrEmptyTable)
	assert.Equal(t, 3, s.Table().NumRows())

	err = s.LoadReader(ctx, "notes.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, table.ErrUnsupportedFormat)
}

func TestSetCategoryAndReset(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, s.Load(ctx, writeFile(t, "orders.csv", ordersCSV)))
	require.NoError(t, s.SetCategory(storetype.Electronics))
	res, err := s.Analyze(ctx)
	require.NoError(t, err)
	assert.Equal(t, storetype.Electronics, res.StoreProfile.StoreType)
	assert.Error(t, s.SetCategory("toys"))

	s.Reset()
	assert.Nil(t, s.Table())
	assert.Nil(t, s.Result())
	assert.Equal(t, 0, s.Mapping().Len())
}

func TestOptionsFromConfig(t *testing.T) {
	rulesPath := writeFile(t, "rules.yaml", "finance:\n  opex_ratio: 0.1\n")
	cfg := &config.Global{
		Language: "ar", Currency: "USD", RulesFile: rulesPath,
		MaxRows: 5, SampleRows: 7, UploadMaxMB: 1,
	}
	opt, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.1, opt.Rules.Finance.OpexRatio)
	assert.Equal(t, 7, opt.Rules.Detector.SampleRows)
	assert.Equal(t, int64(1<<20), opt.Load.MaxBytes)
	assert.Equal(t, 5, opt.Load.MaxRows)
	assert.Equal(t, "ar", opt.Language)

	cfg.RulesFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = OptionsFromConfig(cfg)
	assert.Error(t, err)
}
