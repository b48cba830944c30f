package shift

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/warp/shift-payroll/generic"
)

// =============================================================================
// KEYWORDS - Classification table
// =============================================================================

// Rule maps keyword stems to a shift type.
type Rule struct {
	Type  Type
	Stems []string
}

// Keywords is the localized classification table. Rules are tried in order
// and the first rule with a stem contained in the text wins; text matching no
// rule is Work.
type Keywords struct {
	Rules []Rule

	// A text is a technical study session when it contains a tech stem AND a
	// study stem.
	TechStems  []string
	StudyStems []string
}

// DefaultKeywords returns the Russian stems used in duty-roster logs.
func DefaultKeywords() Keywords {
	return Keywords{
		Rules: []Rule{
			{Type: TypeSick, Stems: []string{"бл", "больничный"}},
			{Type: TypeVacation, Stems: []string{"отпуск", "отп"}},
			{Type: TypeDonor, Stems: []string{"донор", "кровь"}},
			{Type: TypeTraining, Stems: []string{"упц", "учеба", "обучение"}},
			{Type: TypeMedCheck, Stems: []string{"мед.ком", "комиссия", "медком"}},
			{Type: TypeReserve, Stems: []string{"рез"}},
			{Type: TypeOther, Stems: []string{"вых"}},
		},
		TechStems:  []string{"тех"},
		StudyStems: []string{"учеба"},
	}
}

// Classify returns the shift type of a lower-cased text.
func (k Keywords) Classify(lower string) Type {
	for _, rule := range k.Rules {
		if containsAny(lower, rule.Stems) {
			return rule.Type
		}
	}
	return TypeWork
}

// IsTech reports whether a lower-cased text is a technical study session.
func (k Keywords) IsTech(lower string) bool {
	return containsAny(lower, k.TechStems) && containsAny(lower, k.StudyStems)
}

func containsAny(s string, stems []string) bool {
	for _, stem := range stems {
		if strings.Contains(s, stem) {
			return true
		}
	}
	return false
}

// =============================================================================
// PARSER
// =============================================================================

// timePattern matches H:MM, HH:MM, H.MM and HH.MM.
var timePattern = regexp.MustCompile(`(\d{1,2})[:.](\d{2})`)

// Parser converts a raw log line into a Record.
type Parser struct {
	Keywords Keywords

	// Strict rejects hours above 23 and minutes above 59. Off by default:
	// free-text logs are carried through as written.
	Strict bool
}

// NewParser returns a permissive parser with the default keyword table.
func NewParser() *Parser {
	return &Parser{Keywords: DefaultKeywords()}
}

var defaultParser = NewParser()

// Parse is the permissive parser with default keywords. It returns nil only
// for empty text.
func Parse(text string, date generic.TimePoint) *Record {
	rec, _ := defaultParser.Parse(text, date)
	return rec
}

// Parse classifies the text and extracts the first two time-like tokens as
// the shift interval. Fewer than two tokens leave the interval absent.
//
// Returns (nil, nil) for empty text. Errors are only returned in strict mode.
func (p *Parser) Parse(text string, date generic.TimePoint) (*Record, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil, nil
	}

	rec := &Record{
		Date:         date,
		OriginalText: text,
		Type:         p.Keywords.Classify(lower),
		IsTech:       p.Keywords.IsTech(lower),
	}

	matches := timePattern.FindAllStringSubmatch(text, 2)
	if len(matches) < 2 {
		return rec, nil
	}

	start, err := p.toTime(text, matches[0])
	if err != nil {
		return nil, err
	}
	end, err := p.toTime(text, matches[1])
	if err != nil {
		return nil, err
	}
	rec.Start = &start
	rec.End = &end
	return rec, nil
}

func (p *Parser) toTime(text string, m []string) (generic.TimeOfDay, error) {
	// The pattern guarantees digits, so Atoi cannot fail.
	h, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	t := generic.NewTimeOfDay(h, minute)
	if p.Strict && !t.Valid() {
		return generic.TimeOfDay{}, &generic.InvalidTimeError{Text: text, Token: m[0], Time: t}
	}
	return t, nil
}
