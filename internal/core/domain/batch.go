package domain

// ListingBatch — одна газетная полоса одного агентства: сырые строки
// вместе с провенансом (агентство и дата выпуска).
type ListingBatch struct {
	Agency string   `json:"agency"`
	Date   string   `json:"date"`
	Lines  []string `json:"lines"`
}
