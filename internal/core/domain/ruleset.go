package domain

// Канонические типы недвижимости, закрытое множество.
const (
	TypeHouse      = "House"
	TypeApartment  = "Apartment"
	TypeCommercial = "Commercial"
	TypeLand       = "Land"
)

// Канонические типы сделки.
const (
	TransactionSale     = "Sale"
	TransactionRent     = "Rent"
	TransactionSeasonal = "Seasonal"
)

// TypePriority — фиксированный порядок приоритета типов недвижимости.
// Используется валидатором для детерминированного порядка кандидатов.
var TypePriority = []string{TypeHouse, TypeApartment, TypeCommercial, TypeLand}

// NeighborhoodStrategy — закрытое множество стратегий извлечения района.
// Каждое агентство выбирает одну стратегию под свою типографику.
type NeighborhoodStrategy string

const (
	StrategyBeforeColon      NeighborhoodStrategy = "before_colon"
	StrategyBeforeComma      NeighborhoodStrategy = "before_comma"
	StrategyBeforeDot        NeighborhoodStrategy = "before_dot"
	StrategyBeforeCurrency   NeighborhoodStrategy = "before_currency"
	StrategyLeadingUppercase NeighborhoodStrategy = "leading_uppercase"
	StrategyFirstLine        NeighborhoodStrategy = "first_line"
)

// MultiPricePolicy — политика выбора цены, когда в объявлении найдено
// несколько ценоподобных токенов. Обязана быть задана явно в правилах.
type MultiPricePolicy string

const (
	PickFirstPrice   MultiPricePolicy = "first_only"
	PickLargestPrice MultiPricePolicy = "largest"
)

// KeywordRule — одно правило ключевых слов: метка и список слов-триггеров.
// Правила применяются в объявленном порядке, побеждает первое совпадение.
type KeywordRule struct {
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// SectionHeader — заголовок раздела газетной полосы. При совпадении шаблона
// задаёт контекст сделки/типа для всех последующих объявлений до
// следующего заголовка.
type SectionHeader struct {
	Pattern      string `json:"pattern"`
	Transaction  string `json:"transaction"`
	PropertyType string `json:"property_type"`
}

// PriceBand — границы правдоподобных цен (в USD) для одного типа
// недвижимости: потолок аренды, пол продажи и допуск вокруг границ.
type PriceBand struct {
	RentMax   float64 `json:"rent_max"`
	SaleMin   float64 `json:"sale_min"`
	Tolerance float64 `json:"tolerance"`
}

// Ruleset — неизменяемый набор правил разбора для одного источника.
// Загружается один раз, передаётся по ссылке во все экстракторы и
// никогда не мутируется во время прогона.
type Ruleset struct {
	Agency   string `json:"agency"`
	Mnemonic string `json:"mnemonic"`

	// Разметка объявлений в сыром тексте.
	Marker         string   `json:"marker"`
	MarkerSynonyms []string `json:"marker_synonyms"`

	// Извлечение района.
	NeighborhoodStrategies []NeighborhoodStrategy `json:"neighborhood_strategies"`
	ParsingWindow          int                    `json:"parsing_window"`
	PrefixTokens           []string               `json:"prefix_tokens"`
	NeighborhoodAliases    map[string]string      `json:"neighborhood_aliases"`
	MinDotOffset           int                    `json:"min_dot_offset"`

	// Цена.
	CurrencyAliases  map[string]string `json:"currency_aliases"`
	PriceKeywords    []string          `json:"price_keywords"`
	MultiPricePolicy MultiPricePolicy  `json:"multi_price_policy"`
	RequireCurrency  bool              `json:"require_currency"`
	RangeSeparators  []string          `json:"range_separators"`

	// Площадь: семейства единиц для застройки (AC), участка (AT)
	// и мансаны (MZ).
	BuiltAreaUnits   []string `json:"built_area_units"`
	TerrainAreaUnits []string `json:"terrain_area_units"`
	ManzanaUnits     []string `json:"manzana_units"`

	// Комнаты.
	BedroomKeywords     []string `json:"bedroom_keywords"`
	BathroomKeywords    []string `json:"bathroom_keywords"`
	MaxBathrooms        float64  `json:"max_bathrooms"`
	AllowSlashShorthand bool     `json:"allow_slash_shorthand"`

	// Первичная классификация. Порядок правил значим.
	TypeKeywords        []KeywordRule `json:"type_keywords"`
	TransactionKeywords []KeywordRule `json:"transaction_keywords"`

	// Заголовки разделов, в объявленном порядке, самое длинное
	// совпадение выигрывает. HeaderMarker — префикс строки-заголовка;
	// пустой маркер означает, что заголовком может быть любая строка.
	HeaderMarker   string          `json:"header_marker"`
	SectionHeaders []SectionHeader `json:"section_headers"`

	// Пороговые цены для валидатора сделки, по типам недвижимости.
	PriceBands map[string]PriceBand `json:"price_bands"`

	// Дефолты ассемблера, когда экстракторы и контекст раздела молчат.
	DefaultTransaction  string `json:"default_transaction"`
	DefaultPropertyType string `json:"default_property_type"`

	// Дополнительные OCR-замены поверх встроенной таблицы.
	OCRRepairs map[string]string `json:"ocr_repairs"`
}

// Strategy возвращает единственную активную стратегию извлечения района.
func (r *Ruleset) Strategy() NeighborhoodStrategy {
	if len(r.NeighborhoodStrategies) == 0 {
		return ""
	}
	return r.NeighborhoodStrategies[0]
}
