package constants

// Имена очередей
const (
	QueueRawListingBatches = "raw_listing_batches"
	QueueParsedListings    = "parsed_listings"
)

// Ключи маршрутизации
const (
	RoutingKeyRawListingBatches = "parser.raw.batches"
	RoutingKeyParsedListings    = "parser.parsed.listings"
)

const (
	FinalDLXExchange   = "raw_listing_batches_final_dlx"
	FinalDLQ           = "raw_listing_batches_final_dlq"
	FinalDLQRoutingKey = "raw_batches.dlq.key"
)

// Типы и версии событий для проверки по контрактам
const (
	EventTypeRawListingBatch = "RawListingBatchEvent"
	EventTypeParsedListings  = "ParsedListingsEvent"
	EventVersionV1           = "1.0.0"
)
