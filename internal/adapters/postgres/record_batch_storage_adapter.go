package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/contextkeys"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordBatchStorageAdapter сохраняет разобранные записи и диагностику
// валидатора типа в PostgreSQL
type RecordBatchStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewRecordBatchStorageAdapter создает новый адаптер хранилища
func NewRecordBatchStorageAdapter(pool *pgxpool.Pool) (*RecordBatchStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres pool cannot be nil")
	}
	return &RecordBatchStorageAdapter{pool: pool}, nil
}

var recordColumnTypes = []string{
	"TEXT", "UUID", "TEXT", "DATE", "INT",
	"TEXT", "TEXT", "TEXT",
	"INT", "DOUBLE PRECISION",
	"DOUBLE PRECISION", "TEXT", "DOUBLE PRECISION", "TEXT",
	"DOUBLE PRECISION", "TEXT", "DOUBLE PRECISION",
	"TEXT", "TEXT", "TEXT", "TEXT",
	"TEXT", "BOOLEAN", "TEXT", "BOOLEAN",
}

var diagColumnTypes = []string{
	"TEXT", "TEXT", "TEXT", "TEXT", "JSONB",
}

// BatchSave сохраняет пачку записей и диагностических строк в одной
// транзакции. Повторная загрузка той же полосы перезаписывает записи
// по listing_uid
func (a *RecordBatchStorageAdapter) BatchSave(ctx context.Context, records []domain.ParsedRecord, diags []domain.TypeDiagnostics) (*port.BatchSaveStats, error) {

	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":    "RecordBatchStorageAdapter",
		"method":       "BatchSave",
		"record_count": len(records),
	})

	if len(records) == 0 {
		repoLogger.Info("No records to save, returning empty stats.", nil)
		return &port.BatchSaveStats{}, nil
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stats := &port.BatchSaveStats{}

	recordRows := make([][]interface{}, 0, len(records))
	for i := range records {
		recordRows = append(recordRows, recordToRow(&records[i]))
	}

	sql := `
		INSERT INTO parsed_listings (
			listing_uid, ingestion_id, agency, issue_date, listing_no,
			title, neighborhood, notes,
			bedrooms, bathrooms,
			area, area_unit, lot_area, lot_area_unit,
			price, currency, price_usd,
			property_type, property_type_validated, transaction, transaction_validated,
			type_basis, type_ambiguous, transaction_basis, transaction_ambiguous
		)
		VALUES %s
		ON CONFLICT (listing_uid) DO UPDATE SET
			ingestion_id = EXCLUDED.ingestion_id,
			title = EXCLUDED.title,
			neighborhood = EXCLUDED.neighborhood,
			notes = EXCLUDED.notes,
			bedrooms = EXCLUDED.bedrooms,
			bathrooms = EXCLUDED.bathrooms,
			area = EXCLUDED.area,
			area_unit = EXCLUDED.area_unit,
			lot_area = EXCLUDED.lot_area,
			lot_area_unit = EXCLUDED.lot_area_unit,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			price_usd = EXCLUDED.price_usd,
			property_type = EXCLUDED.property_type,
			property_type_validated = EXCLUDED.property_type_validated,
			transaction = EXCLUDED.transaction,
			transaction_validated = EXCLUDED.transaction_validated,
			type_basis = EXCLUDED.type_basis,
			type_ambiguous = EXCLUDED.type_ambiguous,
			transaction_basis = EXCLUDED.transaction_basis,
			transaction_ambiguous = EXCLUDED.transaction_ambiguous,
			updated_at = NOW();
	`

	placeholders := buildValuesPlaceholders(recordColumnTypes, len(recordRows))
	formattedSQL := fmt.Sprintf(sql, placeholders)

	if _, err := tx.Exec(ctx, formattedSQL, flatten(recordRows)...); err != nil {
		repoLogger.Error("Failed to batch insert parsed listings", err, nil)
		return nil, fmt.Errorf("failed to batch insert parsed listings: %w", err)
	}
	stats.Records = len(recordRows)

	if len(diags) > 0 {
		// Старую диагностику по этим записям заменяем целиком
		uids := make([]string, 0, len(diags))
		for _, d := range diags {
			uids = append(uids, d.ListingUID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM type_score_diagnostics WHERE listing_uid = ANY($1)`, uids); err != nil {
			repoLogger.Error("Failed to clear stale diagnostics", err, nil)
			return nil, fmt.Errorf("failed to clear stale diagnostics: %w", err)
		}

		diagRows := make([][]interface{}, 0, len(diags))
		for i := range diags {
			row, err := diagToRow(&diags[i])
			if err != nil {
				repoLogger.Error("Failed to encode diagnostics candidates", err, nil)
				return nil, err
			}
			diagRows = append(diagRows, row)
		}

		diagSQL := `
			INSERT INTO type_score_diagnostics (
				listing_uid, original_type, winner, rationale, candidates
			)
			VALUES %s;
		`
		diagPlaceholders := buildValuesPlaceholders(diagColumnTypes, len(diagRows))
		if _, err := tx.Exec(ctx, fmt.Sprintf(diagSQL, diagPlaceholders), flatten(diagRows)...); err != nil {
			repoLogger.Error("Failed to batch insert diagnostics", err, nil)
			return nil, fmt.Errorf("failed to batch insert diagnostics: %w", err)
		}
		stats.Diagnostics = len(diagRows)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Batch saved successfully", port.Fields{
		"records_saved":     stats.Records,
		"diagnostics_saved": stats.Diagnostics,
	})
	return stats, nil
}

func recordToRow(r *domain.ParsedRecord) []interface{} {
	var typeBasis, txBasis *string
	var typeAmbiguous, txAmbiguous bool
	if r.TypeOutcome != nil {
		typeBasis = &r.TypeOutcome.Basis
		typeAmbiguous = r.TypeOutcome.Ambiguous
	}
	if r.TransactionOutcome != nil {
		txBasis = &r.TransactionOutcome.Basis
		txAmbiguous = r.TransactionOutcome.Ambiguous
	}

	return []interface{}{
		r.ListingUID, r.IngestionID, r.Agency, r.Date, r.ListingNo,
		r.Title, r.Neighborhood, r.Notes,
		r.Bedrooms, r.Bathrooms,
		r.Area, r.AreaUnit, r.LotArea, r.LotAreaUnit,
		r.Price, r.Currency, r.PriceUSD,
		r.PropertyType, r.PropertyTypeValidated, r.Transaction, r.TransactionValidated,
		typeBasis, typeAmbiguous, txBasis, txAmbiguous,
	}
}

func diagToRow(d *domain.TypeDiagnostics) ([]interface{}, error) {
	candidatesJSON, err := json.Marshal(d.Candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal candidates for %s: %w", d.ListingUID, err)
	}
	return []interface{}{
		d.ListingUID, d.OriginalType, d.Winner, d.Rationale, string(candidatesJSON),
	}, nil
}

// flatten преобразует срез срезов [][]interface{} в один плоский срез
// для передачи в variadic функции, такие как tx.Exec
func flatten(data [][]interface{}) []interface{} {
	if len(data) == 0 {
		return nil
	}

	flat := make([]interface{}, 0, len(data)*len(data[0]))
	for _, row := range data {
		flat = append(flat, row...)
	}

	return flat
}

// buildValuesPlaceholders генерирует строку плейсхолдеров с явным приведением
// типов. Например, для 2 строк с типами ["TEXT", "BIGINT"] он вернет
// "($1::TEXT, $2::BIGINT), ($3::TEXT, $4::BIGINT)"
func buildValuesPlaceholders(types []string, rows int) string {
	if rows == 0 || len(types) == 0 {
		return ""
	}
	columns := len(types)

	rowPlaceholders := make([]string, rows)
	paramIndex := 1

	for i := 0; i < rows; i++ {
		colPlaceholders := make([]string, columns)
		for j := 0; j < columns; j++ {
			colPlaceholders[j] = fmt.Sprintf("$%d::%s", paramIndex, types[j])
			paramIndex++
		}
		rowPlaceholders[i] = fmt.Sprintf("(%s)", strings.Join(colPlaceholders, ", "))
	}

	return strings.Join(rowPlaceholders, ", ")
}
