package analyzer

import (
	"github.com/KaramelBytes/storelens/internal/storetype"
	"github.com/KaramelBytes/storelens/internal/table"
)

// Result is the full analysis snapshot. Percentages are 0–100 and money is
// unrounded. Sections whose fields are unmapped hold zero values.
type Result struct {
	Language          string            `json:"language" yaml:"language" toml:"language"`
	StoreProfile      StoreProfile      `json:"store_profile" yaml:"store_profile" toml:"store_profile"`
	SalesPerformance  SalesPerformance  `json:"sales_performance" yaml:"sales_performance" toml:"sales_performance"`
	CustomerAnalysis  CustomerAnalysis  `json:"customer_analysis" yaml:"customer_analysis" toml:"customer_analysis"`
	ProductAnalysis   ProductAnalysis   `json:"product_analysis" yaml:"product_analysis" toml:"product_analysis"`
	FinancialAnalysis FinancialAnalysis `json:"financial_analysis" yaml:"financial_analysis" toml:"financial_analysis"`
	MarketingAnalysis MarketingAnalysis `json:"marketing_analysis" yaml:"marketing_analysis" toml:"marketing_analysis"`
	InventoryAnalysis InventoryAnalysis `json:"inventory_analysis" yaml:"inventory_analysis" toml:"inventory_analysis"`
	SeasonalAnalysis  SeasonalAnalysis  `json:"seasonal_analysis" yaml:"seasonal_analysis" toml:"seasonal_analysis"`
	Benchmarks        Benchmarks        `json:"benchmarks" yaml:"benchmarks" toml:"benchmarks"`
	Recommendations   Recommendations   `json:"recommendations" yaml:"recommendations" toml:"recommendations"`
	DataQuality       DataQuality       `json:"data_quality" yaml:"data_quality" toml:"data_quality"`
}

// StoreProfile describes the dataset as a whole.
type StoreProfile struct {
	StoreType       storetype.Category `json:"store_type" yaml:"store_type" toml:"store_type"`
	StoreTypeName   string             `json:"store_type_name" yaml:"store_type_name" toml:"store_type_name"`
	AnalysisDate    string             `json:"analysis_date,omitempty" yaml:"analysis_date,omitempty" toml:"analysis_date,omitempty"`
	TotalOrders     int                `json:"total_orders" yaml:"total_orders" toml:"total_orders"`
	DateRange       *DateRange         `json:"date_range,omitempty" yaml:"date_range,omitempty" toml:"date_range,omitempty"`
	ActiveDays      int                `json:"active_days" yaml:"active_days" toml:"active_days"`
	UniqueCustomers int                `json:"unique_customers" yaml:"unique_customers" toml:"unique_customers"`
	UniqueProducts  int                `json:"unique_products" yaml:"unique_products" toml:"unique_products"`
}

// DateRange spans the valid order dates. Days is end minus start.
type DateRange struct {
	Start string `json:"start" yaml:"start" toml:"start"`
	End   string `json:"end" yaml:"end" toml:"end"`
	Days  int    `json:"days" yaml:"days" toml:"days"`
}

// SalesPerformance holds revenue and order-rate figures.
type SalesPerformance struct {
	TotalRevenue      float64 `json:"total_revenue" yaml:"total_revenue" toml:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value" yaml:"average_order_value" toml:"average_order_value"`
	OrdersPerDay      float64 `json:"orders_per_day" yaml:"orders_per_day" toml:"orders_per_day"`
	RevenuePerDay     float64 `json:"revenue_per_day" yaml:"revenue_per_day" toml:"revenue_per_day"`
	TotalQuantity     float64 `json:"total_quantity" yaml:"total_quantity" toml:"total_quantity"`
	TotalDiscount     float64 `json:"total_discount" yaml:"total_discount" toml:"total_discount"`
}

// CustomerAnalysis holds repeat-purchase figures and spend segments.
type CustomerAnalysis struct {
	TotalCustomers  int      `json:"total_customers" yaml:"total_customers" toml:"total_customers"`
	RepeatCustomers int      `json:"repeat_customers" yaml:"repeat_customers" toml:"repeat_customers"`
	RepeatRate      float64  `json:"repeat_rate" yaml:"repeat_rate" toml:"repeat_rate"`
	Segments        Segments `json:"customer_segments" yaml:"customer_segments" toml:"customer_segments"`
}

// Segments counts customers per spend band, cut at the 90th, 70th and
// 40th percentiles of per-customer revenue.
type Segments struct {
	VIP         int `json:"vip" yaml:"vip" toml:"vip"`
	HighValue   int `json:"high_value" yaml:"high_value" toml:"high_value"`
	MediumValue int `json:"medium_value" yaml:"medium_value" toml:"medium_value"`
	LowValue    int `json:"low_value" yaml:"low_value" toml:"low_value"`
}

// Total is the number of segmented customers.
func (s Segments) Total() int {
	return s.VIP + s.HighValue + s.MediumValue + s.LowValue
}

// ProductSales is one row of the best-seller ranking.
type ProductSales struct {
	Product  string  `json:"product" yaml:"product" toml:"product"`
	Quantity float64 `json:"quantity" yaml:"quantity" toml:"quantity"`
}

// ValueCount is a value and how many rows carry it.
type ValueCount struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Count int    `json:"count" yaml:"count" toml:"count"`
}

// ProductAnalysis ranks products and categories.
type ProductAnalysis struct {
	TotalProducts          int            `json:"total_products" yaml:"total_products" toml:"total_products"`
	TopProducts            []ProductSales `json:"top_products" yaml:"top_products" toml:"top_products"`
	CategoryDistribution   []ValueCount   `json:"category_distribution" yaml:"category_distribution" toml:"category_distribution"`
	ProductRecommendations []string       `json:"product_recommendations" yaml:"product_recommendations" toml:"product_recommendations"`
}

// FinancialAnalysis estimates profitability from a category cost ratio.
type FinancialAnalysis struct {
	Available         bool    `json:"available" yaml:"available" toml:"available"`
	CostRatio         float64 `json:"cost_ratio" yaml:"cost_ratio" toml:"cost_ratio"`
	TotalRevenue      float64 `json:"total_revenue" yaml:"total_revenue" toml:"total_revenue"`
	EstimatedCOGS     float64 `json:"estimated_cogs" yaml:"estimated_cogs" toml:"estimated_cogs"`
	GrossProfit       float64 `json:"gross_profit" yaml:"gross_profit" toml:"gross_profit"`
	GrossMargin       float64 `json:"gross_margin" yaml:"gross_margin" toml:"gross_margin"`
	NetProfitEstimate float64 `json:"net_profit_estimate" yaml:"net_profit_estimate" toml:"net_profit_estimate"`
}

// MarketingAnalysis lists traffic channels and advice.
type MarketingAnalysis struct {
	Channels                 []ValueCount `json:"channels" yaml:"channels" toml:"channels"`
	MarketingRecommendations []string     `json:"marketing_recommendations" yaml:"marketing_recommendations" toml:"marketing_recommendations"`
}

// InventoryAnalysis carries the industry turnover estimate and advice.
type InventoryAnalysis struct {
	TurnoverEstimate         float64  `json:"turnover_estimate" yaml:"turnover_estimate" toml:"turnover_estimate"`
	InventoryRecommendations []string `json:"inventory_recommendations" yaml:"inventory_recommendations" toml:"inventory_recommendations"`
}

// MonthRevenue is revenue for one calendar month (1–12), across years.
type MonthRevenue struct {
	Month   int     `json:"month" yaml:"month" toml:"month"`
	Name    string  `json:"name" yaml:"name" toml:"name"`
	Revenue float64 `json:"revenue" yaml:"revenue" toml:"revenue"`
}

// WeekdayRevenue is revenue for one weekday.
type WeekdayRevenue struct {
	Weekday string  `json:"weekday" yaml:"weekday" toml:"weekday"`
	Revenue float64 `json:"revenue" yaml:"revenue" toml:"revenue"`
}

// DayRevenue is revenue and order count for one date.
type DayRevenue struct {
	Date    string  `json:"date" yaml:"date" toml:"date"`
	Revenue float64 `json:"revenue" yaml:"revenue" toml:"revenue"`
	Orders  int     `json:"orders" yaml:"orders" toml:"orders"`
}

// SeasonalAnalysis groups revenue by month, weekday and date.
type SeasonalAnalysis struct {
	MonthlyTrends  []MonthRevenue   `json:"monthly_trends" yaml:"monthly_trends" toml:"monthly_trends"`
	WeeklyPatterns []WeekdayRevenue `json:"weekly_patterns" yaml:"weekly_patterns" toml:"weekly_patterns"`
	// PeakPeriods are the top three months by revenue.
	PeakPeriods []int        `json:"peak_periods" yaml:"peak_periods" toml:"peak_periods"`
	DailyTrend  []DayRevenue `json:"daily_trend" yaml:"daily_trend" toml:"daily_trend"`
}

// Benchmarks are the industry reference values used for comparison.
type Benchmarks struct {
	// Category is the row used; unknown categories fall back to general.
	Category        storetype.Category `json:"category" yaml:"category" toml:"category"`
	AOV             float64            `json:"aov" yaml:"aov" toml:"aov"`
	ConversionRate  float64            `json:"conversion_rate" yaml:"conversion_rate" toml:"conversion_rate"`
	RepeatRate      float64            `json:"repeat_rate" yaml:"repeat_rate" toml:"repeat_rate"`
	CartAbandonment float64            `json:"cart_abandonment" yaml:"cart_abandonment" toml:"cart_abandonment"`
}

// Recommendations is the generic action plan.
type Recommendations struct {
	Immediate []string `json:"immediate" yaml:"immediate" toml:"immediate"`
	ShortTerm []string `json:"short_term" yaml:"short_term" toml:"short_term"`
	LongTerm  []string `json:"long_term" yaml:"long_term" toml:"long_term"`
}

// DataQuality scores the input. OverallScore is a weighted blend and only
// approximate.
type DataQuality struct {
	CompletenessScore float64               `json:"completeness_score" yaml:"completeness_score" toml:"completeness_score"`
	UniquenessScore   float64               `json:"uniqueness_score" yaml:"uniqueness_score" toml:"uniqueness_score"`
	ConsistencyScore  float64               `json:"consistency_score" yaml:"consistency_score" toml:"consistency_score"`
	OverallScore      float64               `json:"overall_score" yaml:"overall_score" toml:"overall_score"`
	Grade             string                `json:"grade" yaml:"grade" toml:"grade"`
	TotalCells        int                   `json:"total_cells" yaml:"total_cells" toml:"total_cells"`
	MissingCells      int                   `json:"missing_cells" yaml:"missing_cells" toml:"missing_cells"`
	DuplicateRows     int                   `json:"duplicate_rows" yaml:"duplicate_rows" toml:"duplicate_rows"`
	NegativeAmounts   int                   `json:"negative_amounts" yaml:"negative_amounts" toml:"negative_amounts"`
	Outliers          int                   `json:"outliers" yaml:"outliers" toml:"outliers"`
	Issues            []string              `json:"issues" yaml:"issues" toml:"issues"`
	Columns           []table.ColumnProfile `json:"columns" yaml:"columns" toml:"columns"`
}
