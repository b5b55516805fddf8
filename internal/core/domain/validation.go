package domain

// ValidationState — состояние записи в проходе валидации.
// Переходы только вперёд: unvalidated -> scored -> decided.
type ValidationState string

const (
	StateUnvalidated ValidationState = "unvalidated"
	StateScored      ValidationState = "scored"
	StateConfirmed   ValidationState = "confirmed"
	StateCorrected   ValidationState = "corrected"
	StateAmbiguous   ValidationState = "ambiguous"
)

// ValidationOutcome — итог одного прохода валидации над записью.
// Исходная метка сохраняется всегда; после завершения прохода
// структура не мутируется.
type ValidationOutcome struct {
	Original  string          `json:"original"`
	Final     string          `json:"final"`
	Basis     string          `json:"basis"`
	Ambiguous bool            `json:"ambiguous"`
	State     ValidationState `json:"state"`
}

// Confirmed строит итог без исправления.
func Confirmed(label, basis string) *ValidationOutcome {
	return &ValidationOutcome{
		Original: label,
		Final:    label,
		Basis:    basis,
		State:    StateConfirmed,
	}
}

// Corrected строит итог с исправлением метки и указанием сработавшего правила.
func Corrected(original, final, basis string) *ValidationOutcome {
	return &ValidationOutcome{
		Original: original,
		Final:    final,
		Basis:    basis,
		State:    StateCorrected,
	}
}

// Ambiguous строит итог "неоднозначно": исходная метка сохраняется,
// запись помечается для ручного просмотра.
func Ambiguous(label, basis string) *ValidationOutcome {
	return &ValidationOutcome{
		Original:  label,
		Final:     label,
		Basis:     basis,
		Ambiguous: true,
		State:     StateAmbiguous,
	}
}

// CandidateScore — оценка одного кандидата типа недвижимости вместе со
// списком правил, давших вклад. Список правил — полноценная часть
// результата, он нужен для аудита решений.
type CandidateScore struct {
	Label string   `json:"label"`
	Score int      `json:"score"`
	Rules []string `json:"rules"`
}

// TypeDiagnostics — диагностическая строка валидатора типа: все кандидаты
// с оценками и обоснование победителя, привязанные к записи по её UID.
type TypeDiagnostics struct {
	ListingUID   string           `json:"listing_uid"`
	OriginalType string           `json:"original_type"`
	Winner       string           `json:"winner"`
	Rationale    string           `json:"rationale"`
	Candidates   []CandidateScore `json:"candidates"`
}

// DiagnosticsColumns — порядок колонок CSV-проекции диагностики.
var DiagnosticsColumns = []string{
	"Listing ID", "Original Type", "Winner", "Rationale",
	"Candidate", "Score", "Rules",
}
