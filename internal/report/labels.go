package report

var labels = map[string]map[string]string{
	"en": {
		"title":            "Store Analysis Report",
		"summary":          "Executive Summary",
		"store_type":       "Store type",
		"analysis_date":    "Analysis date",
		"period":           "Period",
		"days":             "days",
		"orders":           "Orders",
		"revenue":          "Total revenue",
		"aov":              "Average order value",
		"quality_grade":    "Data quality grade",
		"performance":      "Sales Performance",
		"orders_per_day":   "Orders per day",
		"revenue_per_day":  "Revenue per day",
		"active_days":      "Active days",
		"quantity":         "Units sold",
		"discount":         "Total discount",
		"customers":        "Customers",
		"total_customers":  "Unique customers",
		"repeat_customers": "Repeat customers",
		"repeat_rate":      "Repeat rate",
		"industry":         "industry",
		"segments":         "Customer segments",
		"vip":              "VIP",
		"high_value":       "High value",
		"medium_value":     "Medium value",
		"low_value":        "Low value",
		"products":         "Products",
		"total_products":   "Distinct products",
		"top_products":     "Top products",
		"product":          "Product",
		"units":            "Units",
		"categories":       "Categories",
		"category":         "Category",
		"count":            "Count",
		"financial":        "Financial Estimate",
		"cost_ratio":       "Assumed cost ratio",
		"cogs":             "Estimated COGS",
		"gross_profit":     "Gross profit",
		"gross_margin":     "Gross margin",
		"net_profit":       "Net profit estimate",
		"no_financial":     "Revenue is not available, so no financial estimate was made.",
		"marketing":        "Marketing",
		"channels":         "Traffic channels",
		"seasonality":      "Seasonality",
		"month":            "Month",
		"peak_months":      "Peak months",
		"benchmarks":       "Industry Benchmarks",
		"conversion_rate":  "Conversion rate",
		"cart_abandonment": "Cart abandonment",
		"turnover":         "Inventory turnover estimate",
		"recommendations":  "Recommendations",
		"rec_products":     "Products",
		"rec_marketing":    "Marketing",
		"rec_inventory":    "Inventory",
		"rec_immediate":    "Immediate actions",
		"rec_short_term":   "Short term",
		"rec_long_term":    "Long term",
		"appendix":         "Appendix: Data Quality",
		"overall_score":    "Overall score",
		"completeness":     "Completeness",
		"uniqueness":       "Uniqueness",
		"consistency":      "Consistency",
		"issues":           "Issues",
		"no_issues":        "No issues found.",
		"columns":          "Columns",
		"column":           "Column",
		"kind":             "Kind",
		"missing":          "Missing",
		"unique":           "Unique",
		"none":             "n/a",
	},
	"ar": {
		"title":            "تقرير تحليل المتجر",
		"summary":          "الملخص التنفيذي",
		"store_type":       "نوع المتجر",
		"analysis_date":    "تاريخ التحليل",
		"period":           "الفترة",
		"days":             "يوم",
		"orders":           "الطلبات",
		"revenue":          "إجمالي الإيرادات",
		"aov":              "متوسط قيمة الطلب",
		"quality_grade":    "تقييم جودة البيانات",
		"performance":      "أداء المبيعات",
		"orders_per_day":   "الطلبات يومياً",
		"revenue_per_day":  "الإيرادات يومياً",
		"active_days":      "الأيام النشطة",
		"quantity":         "الوحدات المباعة",
		"discount":         "إجمالي الخصومات",
		"customers":        "العملاء",
		"total_customers":  "العملاء الفريدون",
		"repeat_customers": "العملاء المتكررون",
		"repeat_rate":      "معدل التكرار",
		"industry":         "الصناعة",
		"segments":         "شرائح العملاء",
		"vip":              "كبار العملاء",
		"high_value":       "قيمة عالية",
		"medium_value":     "قيمة متوسطة",
		"low_value":        "قيمة منخفضة",
		"products":         "المنتجات",
		"total_products":   "المنتجات المختلفة",
		"top_products":     "المنتجات الأكثر مبيعاً",
		"product":          "المنتج",
		"units":            "الوحدات",
		"categories":       "الفئات",
		"category":         "الفئة",
		"count":            "العدد",
		"financial":        "التقدير المالي",
		"cost_ratio":       "نسبة التكلفة المفترضة",
		"cogs":             "تكلفة البضاعة المقدرة",
		"gross_profit":     "إجمالي الربح",
		"gross_margin":     "هامش الربح الإجمالي",
		"net_profit":       "صافي الربح المقدر",
		"no_financial":     "الإيرادات غير متوفرة، لذلك لم يتم إجراء تقدير مالي.",
		"marketing":        "التسويق",
		"channels":         "قنوات الزيارات",
		"seasonality":      "الموسمية",
		"month":            "الشهر",
		"peak_months":      "أشهر الذروة",
		"benchmarks":       "معايير الصناعة",
		"conversion_rate":  "معدل التحويل",
		"cart_abandonment": "التخلي عن السلة",
		"turnover":         "معدل دوران المخزون المقدر",
		"recommendations":  "التوصيات",
		"rec_products":     "المنتجات",
		"rec_marketing":    "التسويق",
		"rec_inventory":    "المخزون",
		"rec_immediate":    "إجراءات فورية",
		"rec_short_term":   "المدى القصير",
		"rec_long_term":    "المدى الطويل",
		"appendix":         "ملحق: جودة البيانات",
		"overall_score":    "الدرجة الإجمالية",
		"completeness":     "الاكتمال",
		"uniqueness":       "التفرد",
		"consistency":      "الاتساق",
		"issues":           "المشكلات",
		"no_issues":        "لم يتم العثور على مشكلات.",
		"columns":          "الأعمدة",
		"column":           "العمود",
		"kind":             "النوع",
		"missing":          "مفقود",
		"unique":           "فريد",
		"none":             "غير متوفر",
	},
}

// label looks up key in lang, falling back to English and then to the key.
func label(lang, key string) string {
	if set, ok := labels[lang]; ok {
		if s, ok := set[key]; ok {
			return s
		}
	}
	if s, ok := labels["en"][key]; ok {
		return s
	}
	return key
}
