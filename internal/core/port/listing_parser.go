package port

import (
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// ListingParserPort объединяет операции разбора сырого газетного текста:
// разметку полосы на объявления и превращение одного объявления в запись.
type ListingParserPort interface {
	// SplitListings размечает строки полосы на объявления: нормализует
	// синонимы маркера, склеивает строки-продолжения и протягивает
	// контекст заголовков разделов. Никогда не ошибается на содержимом.
	SplitListings(lines []string) []domain.RawListing

	// ParseListing разбирает одно объявление в запись с фиксированной
	// схемой. Неудача извлечения отдельного поля — это nil в поле,
	// а не ошибка.
	ParseListing(raw domain.RawListing) domain.ParsedRecord
}
