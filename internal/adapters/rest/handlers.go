package rest

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/contextkeys"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

var dateRx = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseHandler обслуживает QA-эндпоинты разбора объявлений
type ParseHandler struct {
	parseUC  usecases_port.ParseBatchPort
	typeUC   usecases_port.ValidatePropertyTypePort
	txUC     usecases_port.ValidateTransactionPort
	rulesets port.RulesetProviderPort
}

// NewParseHandler создает новый обработчик
func NewParseHandler(
	parseUC usecases_port.ParseBatchPort,
	typeUC usecases_port.ValidatePropertyTypePort,
	txUC usecases_port.ValidateTransactionPort,
	rulesets port.RulesetProviderPort,
) *ParseHandler {
	return &ParseHandler{
		parseUC:  parseUC,
		typeUC:   typeUC,
		txUC:     txUC,
		rulesets: rulesets,
	}
}

// ParseListing разбирает присланный фрагмент газетного текста и гоняет его
// через оба валидатора. Эндпоинт нужен для ручной проверки наборов правил
func (h *ParseHandler) ParseListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextkeys.LoggerFromContext(ctx)

	var req ParseListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Agency) == "" {
		WriteJSONError(w, http.StatusBadRequest, "agency is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		WriteJSONError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	}
	if !dateRx.MatchString(req.Date) {
		WriteJSONError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	rs, err := h.rulesets.Get(req.Agency)
	if err != nil {
		WriteJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	batch := domain.ListingBatch{
		Agency: req.Agency,
		Date:   req.Date,
		Lines:  strings.Split(req.Text, "\n"),
	}

	records, err := h.parseUC.Execute(ctx, batch, uuid.New())
	if err != nil {
		logger.Error("Parse failed for QA request", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "parse failed")
		return
	}

	for i := range records {
		if records[i].PriceUSD == nil && records[i].Currency != nil && *records[i].Currency == "USD" {
			records[i].PriceUSD = records[i].Price
		}
	}

	diags, err := h.typeUC.Execute(ctx, rs, records)
	if err != nil {
		logger.Error("Type validation failed for QA request", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "type validation failed")
		return
	}
	if err := h.txUC.Execute(ctx, rs, records); err != nil {
		logger.Error("Transaction validation failed for QA request", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "transaction validation failed")
		return
	}

	RespondWithJSON(w, http.StatusOK, ParseListingResponse{
		Records:     records,
		Diagnostics: diags,
	})
}

// ListRulesets возвращает имена всех загруженных агентств
func (h *ParseHandler) ListRulesets(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, RulesetsResponse{Agencies: h.rulesets.Agencies()})
}

// Healthz - проверка живости сервиса
func Healthz(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
