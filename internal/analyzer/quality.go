package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/table"
)

type issueKey int

const (
	issueMissing issueKey = iota
	issueDuplicates
	issueNegative
	issueOutliers
	issueBadDates
	issueBadNumbers
)

var issueText = map[string]map[issueKey]string{
	"en": {
		issueMissing:    "%d of %d cells are missing",
		issueDuplicates: "%d duplicate rows",
		issueNegative:   "%d orders with a negative total",
		issueOutliers:   "%d order totals look like outliers (max |z| %.1f)",
		issueBadDates:   "%d order dates could not be parsed",
		issueBadNumbers: "%d numeric cells could not be parsed",
	},
	"ar": {
		issueMissing:    "%d من أصل %d خلية مفقودة",
		issueDuplicates: "%d صفوف مكررة",
		issueNegative:   "%d طلبات بإجمالي سالب",
		issueOutliers:   "%d إجماليات طلبات تبدو شاذة (أقصى |z| %.1f)",
		issueBadDates:   "%d تواريخ طلبات تعذر تحليلها",
		issueBadNumbers: "%d خلايا رقمية تعذر تحليلها",
	},
}

func issuef(lang string, k issueKey, args ...any) string {
	set, ok := issueText[lang]
	if !ok {
		set = issueText["en"]
	}
	return fmt.Sprintf(set[k], args...)
}

// dataQuality scores completeness over all source cells (typed cells that
// failed to parse count as missing), uniqueness over whole rows, and
// consistency as the share of typed cells that parsed. A synthesized total
// column is not source data and is left out of every count.
func (a *run) dataQuality() DataQuality {
	t := a.c.Table
	derived := -1
	if a.c.DerivedTotal != "" {
		if idx, ok := t.ColumnIndex(a.c.DerivedTotal); ok {
			derived = idx
		}
	}
	q := DataQuality{Issues: []string{}, Columns: []table.ColumnProfile{}}
	for j, p := range table.Profile(t) {
		if j != derived {
			q.Columns = append(q.Columns, p)
		}
	}
	rows, cols := t.NumRows(), t.NumCols()
	if derived >= 0 {
		cols--
	}
	q.TotalCells = rows * cols
	if rows == 0 {
		q.Grade = grade(0)
		return q
	}

	var typedPresent, typedFailed, badDates, badNumbers int
	seen := make(map[string]struct{}, rows)
	for i, row := range t.Rows {
		for j, v := range row {
			if j == derived {
				continue
			}
			typed, ok := a.c.Typed(i, j)
			switch {
			case table.IsMissing(v):
				q.MissingCells++
			case typed && !ok:
				q.MissingCells++
				typedPresent++
				typedFailed++
				if f, _ := a.c.Mapping.FieldFor(t.Columns[j]); f == schema.OrderDate {
					badDates++
				} else {
					badNumbers++
				}
			case typed:
				typedPresent++
			}
		}
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			q.DuplicateRows++
		} else {
			seen[key] = struct{}{}
		}
	}

	q.CompletenessScore = 100 * float64(q.TotalCells-q.MissingCells) / float64(q.TotalCells)
	q.UniquenessScore = 100 * float64(rows-q.DuplicateRows) / float64(rows)
	// Missing typed cells count against completeness only.
	q.ConsistencyScore = 100
	if typedPresent > 0 {
		q.ConsistencyScore = 100 * float64(typedPresent-typedFailed) / float64(typedPresent)
	}

	var totals []float64
	if a.hasTotals {
		for _, n := range a.totals {
			if !n.Valid {
				continue
			}
			totals = append(totals, n.Value)
			if n.Value < 0 {
				q.NegativeAmounts++
			}
		}
	}
	var maxZ float64
	q.Outliers, maxZ = table.CountOutliers(totals, a.opt.Rules.Quality.OutlierZ)

	w := a.opt.Rules.Quality
	wsum := w.CompletenessWeight + w.UniquenessWeight + w.ConsistencyWeight
	if wsum > 0 {
		q.OverallScore = (q.CompletenessScore*w.CompletenessWeight +
			q.UniquenessScore*w.UniquenessWeight +
			q.ConsistencyScore*w.ConsistencyWeight) / wsum
	}
	q.OverallScore = math.Round(q.OverallScore*10) / 10
	q.Grade = grade(q.OverallScore)

	lang := a.opt.Language
	if q.MissingCells > 0 {
		q.Issues = append(q.Issues, issuef(lang, issueMissing, q.MissingCells, q.TotalCells))
	}
	if q.DuplicateRows > 0 {
		q.Issues = append(q.Issues, issuef(lang, issueDuplicates, q.DuplicateRows))
	}
	if q.NegativeAmounts > 0 {
		q.Issues = append(q.Issues, issuef(lang, issueNegative, q.NegativeAmounts))
	}
	if q.Outliers > 0 {
		q.Issues = append(q.Issues, issuef(lang, issueOutliers, q.Outliers, maxZ))
	}
	if badDates > 0 {
		q.Issues = append(q.Issues, issuef(lang, issueBadDates, badDates))
	}
	if badNumbers > 0 {
		q.Issues = append(q.Issues, issuef(lang, issueBadNumbers, badNumbers))
	}
	return q
}

func grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
