package charts

import "time"

var phrases = map[string]map[string]string{
	"en": {
		"revenue":         "Revenue",
		"aov":             "Average order value",
		"customers":       "Customers",
		"products":        "Products",
		"value":           "Value",
		"quantity":        "Units sold",
		"count":           "Count",
		"vip":             "VIP",
		"high_value":      "High value",
		"medium_value":    "Medium value",
		"low_value":       "Low value",
		"conversion_rate": "Conversion rate",
		"repeat_rate":     "Repeat rate",
		"store":           "Your store",
		"industry":        "Industry average",
		"overall":         "Overall",
		"completeness":    "Completeness",
		"uniqueness":      "Uniqueness",
		"consistency":     "Consistency",

		"title_kpi":                   "Key performance indicators",
		"title_sales_trend":           "Daily sales trend",
		"title_top_products":          "Top 10 products",
		"title_customer_segments":     "Customer segments",
		"title_category_distribution": "Sales by category",
		"title_seasonality":           "Seasonal patterns",
		"title_weekly":                "Sales by weekday",
		"title_benchmark":             "Industry benchmark comparison",
		"title_data_quality":          "Data quality",
	},
	"ar": {
		"revenue":         "الإيرادات",
		"aov":             "متوسط قيمة الطلب",
		"customers":       "العملاء",
		"products":        "المنتجات",
		"value":           "القيمة",
		"quantity":        "الكمية المباعة",
		"count":           "العدد",
		"vip":             "VIP",
		"high_value":      "عالية القيمة",
		"medium_value":    "متوسطة القيمة",
		"low_value":       "منخفضة القيمة",
		"conversion_rate": "معدل التحويل",
		"repeat_rate":     "معدل التكرار",
		"store":           "متجرك",
		"industry":        "متوسط الصناعة",
		"overall":         "الإجمالي",
		"completeness":    "الاكتمال",
		"uniqueness":      "التفرد",
		"consistency":     "الاتساق",

		"title_kpi":                   "مؤشرات الأداء الرئيسية",
		"title_sales_trend":           "اتجاه المبيعات اليومية",
		"title_top_products":          "أفضل 10 منتجات مبيعاً",
		"title_customer_segments":     "توزيع شرائح العملاء",
		"title_category_distribution": "توزيع المبيعات حسب الفئة",
		"title_seasonality":           "الأنماط الموسمية للمبيعات",
		"title_weekly":                "المبيعات حسب أيام الأسبوع",
		"title_benchmark":             "مقارنة مع معايير الصناعة",
		"title_data_quality":          "جودة البيانات",
	},
}

func text(lang, key string) string {
	if set, ok := phrases[lang]; ok {
		if s, ok := set[key]; ok {
			return s
		}
	}
	if s, ok := phrases["en"][key]; ok {
		return s
	}
	return key
}

func title(kind, lang string) string { return text(lang, "title_"+kind) }

var (
	arabicMonths   = []string{"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو", "يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر"}
	arabicWeekdays = map[string]string{
		"Monday": "الاثنين", "Tuesday": "الثلاثاء", "Wednesday": "الأربعاء", "Thursday": "الخميس",
		"Friday": "الجمعة", "Saturday": "السبت", "Sunday": "الأحد",
	}
)

func monthLabels(lang string) []string {
	if lang == "ar" {
		return append([]string(nil), arabicMonths...)
	}
	out := make([]string, 12)
	for i := range out {
		out[i] = time.Month(i + 1).String()
	}
	return out
}

func weekdayLabel(day, lang string) string {
	if lang == "ar" {
		if s, ok := arabicWeekdays[day]; ok {
			return s
		}
	}
	return day
}
