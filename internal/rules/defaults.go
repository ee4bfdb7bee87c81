package rules

import (
	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/storetype"
)

// Default returns a fresh copy of the built-in rule set.
func Default() *Rules {
	return &Rules{
		Detector: DetectorRules{
			ColumnKeyword:   2,
			ValueMatch:      0.5,
			CategoryKeyword: 3,
			SampleRows:      20,
			Signatures:      defaultSignatures(),
		},
		Mapper: MapperRules{
			Pattern:    3,
			Keyword:    2,
			DateSample: 10,
			DateRatio:  0.7,
			Fields:     defaultFields(),
		},
		Finance: FinanceRules{
			CostRatios: map[storetype.Category]float64{
				storetype.Fashion:      0.35,
				storetype.Electronics:  0.65,
				storetype.Beauty:       0.30,
				storetype.Digital:      0.10,
				storetype.Subscription: 0.40,
				storetype.Handmade:     0.45,
				storetype.Food:         0.55,
				storetype.General:      0.50,
			},
			DefaultCostRatio: 0.50,
			OpexRatio:        0.30,
			TurnoverRates: map[storetype.Category]float64{
				storetype.Fashion:     4.5,
				storetype.Electronics: 6.2,
				storetype.Beauty:      3.8,
				storetype.Food:        12.0,
				storetype.General:     5.0,
			},
			DefaultTurnover: 5.0,
		},
		Benchmarks: map[storetype.Category]Benchmark{
			storetype.Fashion:     {AOV: 85.20, ConversionRate: 1.8, RepeatRate: 28.5, CartAbandonment: 68.8},
			storetype.Electronics: {AOV: 120.50, ConversionRate: 1.5, RepeatRate: 22.3, CartAbandonment: 71.3},
			storetype.Beauty:      {AOV: 45.80, ConversionRate: 2.1, RepeatRate: 35.2, CartAbandonment: 67.4},
			storetype.General:     {AOV: 75.00, ConversionRate: 1.8, RepeatRate: 25.0, CartAbandonment: 69.6},
		},
		Recommendations: defaultRecommendations(),
		Quality: QualityRules{
			OutlierZ:           3.5,
			CompletenessWeight: 0.6,
			UniquenessWeight:   0.2,
			ConsistencyWeight:  0.2,
		},
	}
}

func defaultSignatures() map[storetype.Category]Signature {
	return map[storetype.Category]Signature{
		storetype.Fashion: {
			ColumnKeywords:   []string{"size", "color", "colour", "variant", "dress", "shirt", "pants", "fashion", "clothing"},
			ValuePatterns:    []string{`^(xs|s|m|l|xl|xxl)$`, `\b(red|blue|green|black|white)\b`},
			CategoryKeywords: []string{"clothing", "apparel", "wear", "fashion"},
		},
		storetype.Electronics: {
			ColumnKeywords:   []string{"model", "spec", "warranty", "tech", "gadget", "device"},
			ValuePatterns:    []string{`\d+\s?gb`, `\d+\s?mp`, `\d+"`, `\d+\s?ghz`},
			CategoryKeywords: []string{"electronics", "tech", "gadgets", "devices"},
		},
		storetype.Beauty: {
			ColumnKeywords:   []string{"skin", "type", "ml", "oz", "ingredient", "beauty", "cosmetic"},
			ValuePatterns:    []string{`\d+\s?ml`, `\d+\s?oz`, `\b(dry|oily|normal|combination)\b`},
			CategoryKeywords: []string{"beauty", "cosmetics", "skincare", "makeup"},
		},
		storetype.HomeGarden: {
			ColumnKeywords:   []string{"room", "size", "material", "dimension", "home", "garden"},
			ValuePatterns:    []string{`\d+x\d+x\d+`, `\b(wood|metal|plastic|fabric)\b`},
			CategoryKeywords: []string{"home", "garden", "furniture", "decor"},
		},
		storetype.Digital: {
			ColumnKeywords:   []string{"license", "download", "digital", "file", "format"},
			ValuePatterns:    []string{`\b(pdf|mp3|mp4|zip)\b`, `\d+\.\d+\s?mb`, `\d+\.\d+\s?gb`},
			CategoryKeywords: []string{"digital", "download", "software", "ebook"},
		},
		storetype.Subscription: {
			ColumnKeywords:   []string{"subscription", "renewal", "plan", "monthly", "yearly"},
			ValuePatterns:    []string{`\b(monthly|yearly|quarterly)\b`, `plan [abc]\b`},
			CategoryKeywords: []string{"subscription", "membership", "plan"},
		},
		storetype.Handmade: {
			ColumnKeywords:   []string{"handmade", "craft", "artisan", "material", "unique"},
			ValuePatterns:    []string{`handmade|handcrafted`, `limited edition`},
			CategoryKeywords: []string{"handmade", "craft", "artisan", "unique"},
		},
		storetype.Food: {
			ColumnKeywords:   []string{"expiry", "ingredient", "weight", "nutrition", "food"},
			ValuePatterns:    []string{`\d+\s?g\b`, `\d+\s?kg\b`, `\d+\s?calories`, `organic|gluten-free`},
			CategoryKeywords: []string{"food", "beverage", "snack", "grocery"},
		},
	}
}

func defaultFields() map[schema.Field]FieldRule {
	return map[schema.Field]FieldRule{
		schema.TransactionID: {
			Patterns: []string{`order.?id`, `transaction.?id`, `invoice.?no`, `رقم.?الطلب`, `معرف.?المعاملة`},
			Keywords: []string{"order", "transaction", "invoice", "رقم طلب", "id"},
			Priority: 10,
		},
		schema.OrderDate: {
			Patterns: []string{`order.?date`, `purchase.?date`, `created.?at`, `تاريخ.?الطلب`, `تاريخ.?الشراء`},
			Keywords: []string{"date", "created", "تاريخ", "وقت", "time"},
			Priority: 9,
		},
		schema.CustomerID: {
			Patterns: []string{`customer.?id`, `user.?id`, `client.?id`, `رقم.?العميل`, `معرف.?المستخدم`},
			Keywords: []string{"customer", "user", "client", "عميل", "مستخدم"},
			Priority: 8,
		},
		schema.CustomerEmail: {
			Patterns: []string{`email`, `customer.?email`, `user.?email`, `بريد.?إلكتروني`, `إيميل`},
			Keywords: []string{"email", "بريد", "إيميل"},
			Priority: 7,
		},
		schema.ProductID: {
			Patterns: []string{`product.?id`, `item.?id`, `sku`, `variant.?id`, `معرف.?المنتج`},
			Keywords: []string{"product", "item", "sku", "variant", "منتج", "سلعة"},
			Priority: 8,
		},
		schema.ProductName: {
			Patterns: []string{`product.?name`, `item.?name`, `title`, `اسم.?المنتج`, `عنوان`},
			Keywords: []string{"product", "item", "title", "name", "اسم", "عنوان"},
			Priority: 7,
		},
		schema.Quantity: {
			Patterns: []string{`quantity`, `qty`, `count`, `الكمية`, `عدد`},
			Keywords: []string{"quantity", "qty", "count", "كمية", "عدد"},
			Priority: 6,
		},
		schema.UnitPrice: {
			Patterns: []string{`unit.?price`, `price`, `cost`, `سعر`, `السعر`, `التكلفة`},
			Keywords: []string{"price", "cost", "سعر", "تكلفة"},
			Exclude:  []string{"shipping", "tax", "شحن"},
			Priority: 6,
		},
		schema.TotalAmount: {
			Patterns: []string{`total`, `amount`, `revenue`, `المبلغ`, `الإجمالي`},
			Keywords: []string{"total", "amount", "revenue", "إجمالي", "مبلغ"},
			Exclude:  []string{"discount", "coupon", "tax", "shipping", "خصم"},
			Priority: 9,
		},
		schema.PaymentMethod: {
			Patterns: []string{`payment.?method`, `payment.?type`, `طريقة.?الدفع`, `نوع.?الدفع`},
			Keywords: []string{"payment", "دفع", "method", "طريقة"},
			Priority: 5,
		},
		schema.ShippingAddress: {
			Patterns: []string{`shipping.?address`, `delivery.?address`, `عنوان.?الشحن`, `عنوان.?التوصيل`},
			Keywords: []string{"shipping", "delivery", "address", "عنوان", "شحن"},
			Priority: 4,
		},
		schema.DiscountAmount: {
			Patterns: []string{`discount`, `coupon.?amount`, `الخصم`},
			Keywords: []string{"discount", "coupon", "promo", "خصم"},
			Priority: 5,
		},
		schema.ProductCategory: {
			Patterns: []string{`product.?category`, `categor`, `department`, `فئة`, `التصنيف`},
			Keywords: []string{"category", "department", "segment", "فئة", "تصنيف"},
			Priority: 6,
		},
		schema.TrafficSource: {
			Patterns: []string{`traffic.?source`, `utm.?source`, `referr`, `channel`, `مصدر`},
			Keywords: []string{"source", "channel", "utm", "referrer", "campaign", "مصدر", "قناة"},
			Priority: 4,
		},
	}
}

func defaultRecommendations() RecommendationRules {
	return RecommendationRules{
		Products: map[storetype.Category]Localized{
			storetype.Fashion: {
				"en": {"Offer complete outfits", "Show matching products", "Improve product photos with multiple angles", "Add a size guide"},
				"ar": {"إضافة مجموعات متكاملة (Outfits)", "عرض المنتجات المتطابقة", "تحسين صور المنتجات بزوايا متعددة", "إضافة دليل المقاسات"},
			},
			storetype.Electronics: {
				"en": {"Add product comparisons", "Show recommended accessories", "Provide a digital user guide", "Show compatible products"},
				"ar": {"إضافة مقارنة بين المنتجات", "عرض الملحقات الموصى بها", "تقديم دليل المستخدم الرقمي", "عرض المنتجات المتوافقة"},
			},
			storetype.Beauty: {
				"en": {"Add a product finder by skin type", "Show products used together", "Offer trial samples", "Add how-to videos"},
				"ar": {"إضافة دليل اختيار المنتجات حسب نوع البشرة", "عرض المنتجات المستخدمة معاً", "تقديم عينات تجريبية", "إضافة فيديو توضيحي للاستخدام"},
			},
			storetype.General: {
				"en": {"Improve product descriptions", "Add customer reviews", "Improve product photos", "Add product Q&A"},
				"ar": {"تحسين توصيف المنتجات", "إضافة مراجعات العملاء", "تحسين صور المنتجات", "إضافة أسئلة وأجوبة عن المنتجات"},
			},
		},
		Marketing: map[storetype.Category]Localized{
			storetype.Fashion: {
				"en": {"Use Instagram Shopping", "Run lookalike audience campaigns", "Create product video content", "Partner with niche influencers"},
				"ar": {"استخدام Instagram Shopping", "تشغيل حملات Lookalike Audiences", "إنشاء محتوى فيديو للمنتجات", "التعاون مع المؤثرين في المجال"},
			},
			storetype.Electronics: {
				"en": {"Publish tutorials", "Use Google Shopping ads", "Offer bundles", "Publish product comparisons"},
				"ar": {"إنشاء محتوى تعليمي (Tutorials)", "استخدام Google Shopping Ads", "تقديم عروض الحزم (Bundles)", "إنشاء مقارنات بين المنتجات"},
			},
			storetype.General: {
				"en": {"Improve product SEO", "Use email marketing", "Offer welcome discounts", "Improve the mobile experience"},
				"ar": {"تحسين SEO للمنتجات", "استخدام التسويق عبر البريد الإلكتروني", "تقديم عروض ترحيبية", "تحسين تجربة الموبايل"},
			},
		},
		Inventory: Localized{
			"en": {"Automate inventory management", "Tune reorder levels", "Review slow-moving products", "Run clearance offers for old stock"},
			"ar": {"تنفيذ نظام إدارة المخزون الآلي", "ضبط مستويات إعادة الطلب", "تحليل المنتجات بطيئة الحركة", "تنفيذ عروض التخليص للمخزون القديم"},
		},
		Immediate: Localized{
			"en": {"Improve product pages", "Streamline checkout", "Add customer reviews", "Speed up the site"},
			"ar": {"تحسين صفحة المنتج", "تحسين عملية الدفع", "إضافة مراجعات العملاء", "تحسين سرعة الموقع"},
		},
		ShortTerm: Localized{
			"en": {"Raise conversion rate by 10%", "Reduce cart abandonment", "Increase average order value", "Improve the mobile customer experience"},
			"ar": {"زيادة معدل التحويل بنسبة 10%", "خفض معدل هجر عربة التسوق", "زيادة قيمة الطلب المتوسطة", "تحسين تجربة العملاء على الموبايل"},
		},
		LongTerm: Localized{
			"en": {"Build a loyalty program", "Expand into new sales channels", "Diversify revenue streams", "Build a strong brand"},
			"ar": {"بناء برنامج ولاء للعملاء", "التوسع في قنوات بيع جديدة", "تنويع مصادر الإيرادات", "بناء علامة تجارية قوية"},
		},
	}
}
