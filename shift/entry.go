package shift

import (
	"fmt"

	"github.com/warp/shift-payroll/generic"
)

// FromEntry parses a stored log entry and applies the caller-supplied
// sub-intervals and flags. Returns (nil, nil) when the entry text is empty.
func (p *Parser) FromEntry(e generic.Entry) (*Record, error) {
	rec, err := p.Parse(e.Text, e.Date)
	if err != nil || rec == nil {
		return nil, err
	}

	if rec.LineStart, err = optionalTime(e.LineStart); err != nil {
		return nil, fmt.Errorf("line start: %w", err)
	}
	if rec.LineEnd, err = optionalTime(e.LineEnd); err != nil {
		return nil, fmt.Errorf("line end: %w", err)
	}
	if rec.TPStart, err = optionalTime(e.TPStart); err != nil {
		return nil, fmt.Errorf("tp start: %w", err)
	}
	if rec.TPEnd, err = optionalTime(e.TPEnd); err != nil {
		return nil, fmt.Errorf("tp end: %w", err)
	}

	rec.IsFullMedical = e.FullMedical
	rec.IsPostTrip = e.PostTrip
	rec.CustomSenior = e.CustomSenior
	rec.CustomMentor = e.CustomMentor
	return rec, nil
}

// FromEntries converts entries, skipping empty ones. Order is preserved; call
// Link afterwards.
func (p *Parser) FromEntries(entries []generic.Entry) ([]*Record, error) {
	records := make([]*Record, 0, len(entries))
	for _, e := range entries {
		rec, err := p.FromEntry(e)
		if err != nil {
			return nil, fmt.Errorf("entry %s (%s): %w", e.ID, e.Date, err)
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	return records, nil
}

func optionalTime(s string) (*generic.TimeOfDay, error) {
	if s == "" {
		return nil, nil
	}
	t, err := generic.ParseTimeOfDay(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
