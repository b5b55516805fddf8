package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/adapters/rulesets"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/adapters/textparser"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/usecase"
)

// Офлайн-анализатор газетной полосы: читает текстовый файл с объявлениями,
// прогоняет его через разбор и оба валидатора и пишет рядом два CSV-отчета.
// Удобен для отладки наборов правил без очередей и базы.

func main() {
	var (
		filePath    = flag.String("file", "", "путь к текстовому файлу с объявлениями одной полосы")
		rulesetsDir = flag.String("rulesets", "rulesets", "каталог с JSON-файлами наборов правил")
		agency      = flag.String("agency", "", "код агентства (должен совпадать с набором правил)")
		date        = flag.String("date", "", "дата выпуска в формате YYYY-MM-DD")
		outputDir   = flag.String("output-dir", ".", "каталог для CSV-отчетов")
	)
	flag.Parse()

	if *filePath == "" || *agency == "" || *date == "" {
		flag.Usage()
		log.Fatal("Флаги --file, --agency и --date обязательны")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Не удалось прочитать файл %s: %v", *filePath, err)
	}

	provider, err := rulesets.NewProviderFromDir(*rulesetsDir)
	if err != nil {
		log.Fatalf("Не удалось загрузить наборы правил из %s: %v", *rulesetsDir, err)
	}

	ruleset, err := provider.Get(*agency)
	if err != nil {
		log.Fatalf("Набор правил для агентства %q не найден: %v (доступны: %v)",
			*agency, err, provider.Agencies())
	}

	parserFactory := func(rs *domain.Ruleset) (port.ListingParserPort, error) {
		return textparser.NewAdapter(rs)
	}

	parseUC := usecase.NewParseBatchUseCase(provider, parserFactory, 0)
	typeUC := usecase.NewValidatePropertyTypeUseCase(0)
	txUC := usecase.NewValidateTransactionUseCase(0)

	batch := domain.ListingBatch{
		Agency: *agency,
		Date:   *date,
		Lines:  strings.Split(string(data), "\n"),
	}

	ctx := context.Background()

	records, err := parseUC.Execute(ctx, batch, uuid.New())
	if err != nil {
		log.Fatalf("Ошибка разбора полосы: %v", err)
	}
	fmt.Printf("Разобрано объявлений: %d\n", len(records))

	// Цена уже в долларах считается стандартизированной
	for i := range records {
		if records[i].PriceUSD == nil && records[i].Currency != nil && *records[i].Currency == "USD" {
			records[i].PriceUSD = records[i].Price
		}
	}

	diags, err := typeUC.Execute(ctx, ruleset, records)
	if err != nil {
		log.Fatalf("Ошибка валидации типа недвижимости: %v", err)
	}

	if err := txUC.Execute(ctx, ruleset, records); err != nil {
		log.Fatalf("Ошибка валидации типа сделки: %v", err)
	}

	base := strings.TrimSuffix(filepath.Base(*filePath), filepath.Ext(*filePath))

	recordsPath := filepath.Join(*outputDir, base+".csv")
	if err := writeRecordsCSV(recordsPath, records); err != nil {
		log.Fatalf("Не удалось записать отчет %s: %v", recordsPath, err)
	}

	scoresPath := filepath.Join(*outputDir, base+"_scores.csv")
	if err := writeScoresCSV(scoresPath, diags); err != nil {
		log.Fatalf("Не удалось записать отчет %s: %v", scoresPath, err)
	}

	fmt.Printf("Отчеты сохранены: %s, %s\n", recordsPath, scoresPath)
}

// writeRecordsCSV пишет записи в порядке колонок RecordColumns.
func writeRecordsCSV(path string, records []domain.ParsedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(domain.RecordColumns); err != nil {
		return err
	}
	for i := range records {
		if err := w.Write(records[i].Row()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeScoresCSV разворачивает диагностику в плоский CSV: по строке на
// каждого кандидата, у строк одного объявления общие первые четыре колонки.
func writeScoresCSV(path string, diags []domain.TypeDiagnostics) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(domain.DiagnosticsColumns); err != nil {
		return err
	}
	for _, d := range diags {
		if len(d.Candidates) == 0 {
			row := []string{d.ListingUID, d.OriginalType, d.Winner, d.Rationale, "", "", ""}
			if err := w.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, c := range d.Candidates {
			row := []string{
				d.ListingUID, d.OriginalType, d.Winner, d.Rationale,
				c.Label, strconv.Itoa(c.Score), strings.Join(c.Rules, "; "),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}
