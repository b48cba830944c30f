/*
Package factory converts stored and user-supplied pay profiles into
payroll.Settings.

PURPOSE:
  Settings live as JSON in the people table and in API requests, and as TOML
  profile files for the CLI. The factory is the one place that knows both
  encodings and turns them into the decimal-typed Go struct the calculator
  consumes.

JSON SCHEMA:
  {
    "rate": "1000",
    "class_percent": "10",
    "premium_percent": "25",
    "start_date": "2015-01-01",
    "senior": true,
    "mentor": false,
    "union": true
  }

  Numbers may be given as JSON numbers or strings.

TOML PROFILE:
  rate = 1000
  class_percent = 10
  start_date = "2015-01-01"
  union = true

USAGE:
  f := factory.NewSettingsFactory()
  s, err := f.ParseSettings(jsonString)
  s, err := f.LoadProfile("profile.toml")

SEE ALSO:
  - payroll/settings.go: Settings type definition
  - store/sqlite: Persists the JSON form per person
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/generic"
	"github.com/warp/shift-payroll/payroll"
)

// =============================================================================
// SCHEMA TYPES
// =============================================================================

// SettingsJSON is the serialized form of payroll.Settings.
type SettingsJSON struct {
	Rate           decimal.Decimal `json:"rate" toml:"rate"`
	ClassPercent   decimal.Decimal `json:"class_percent" toml:"class_percent"`
	PremiumPercent decimal.Decimal `json:"premium_percent" toml:"premium_percent"`
	StartDate      string          `json:"start_date,omitempty" toml:"start_date"`
	Senior         bool            `json:"senior" toml:"senior"`
	Mentor         bool            `json:"mentor" toml:"mentor"`
	Union          bool            `json:"union" toml:"union"`
}

// =============================================================================
// SETTINGS FACTORY
// =============================================================================

// SettingsFactory converts serialized profiles to payroll.Settings.
type SettingsFactory struct{}

// NewSettingsFactory creates a new settings factory.
func NewSettingsFactory() *SettingsFactory {
	return &SettingsFactory{}
}

// ParseSettings parses a JSON string into validated Settings.
func (f *SettingsFactory) ParseSettings(jsonStr string) (payroll.Settings, error) {
	var sj SettingsJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return payroll.Settings{}, fmt.Errorf("%w: failed to parse settings JSON: %v", generic.ErrInvalidSettings, err)
	}
	return f.FromJSON(sj)
}

// LoadProfile reads a TOML profile file into validated Settings.
func (f *SettingsFactory) LoadProfile(path string) (payroll.Settings, error) {
	var sj SettingsJSON
	if _, err := toml.DecodeFile(path, &sj); err != nil {
		return payroll.Settings{}, fmt.Errorf("%w: failed to read profile %s: %v", generic.ErrInvalidSettings, path, err)
	}
	return f.FromJSON(sj)
}

// DecodeProfile is LoadProfile for in-memory TOML.
func (f *SettingsFactory) DecodeProfile(data string) (payroll.Settings, error) {
	var sj SettingsJSON
	if _, err := toml.Decode(data, &sj); err != nil {
		return payroll.Settings{}, fmt.Errorf("%w: failed to parse profile: %v", generic.ErrInvalidSettings, err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts SettingsJSON to payroll.Settings.
func (f *SettingsFactory) FromJSON(sj SettingsJSON) (payroll.Settings, error) {
	s := payroll.Settings{
		Rate:           sj.Rate,
		ClassPercent:   sj.ClassPercent,
		PremiumPercent: sj.PremiumPercent,
		Senior:         sj.Senior,
		Mentor:         sj.Mentor,
		Union:          sj.Union,
	}

	if sj.StartDate != "" {
		start, err := generic.ParseDate(sj.StartDate)
		if err != nil {
			return payroll.Settings{}, fmt.Errorf("%w: start_date: %w", generic.ErrInvalidSettings, err)
		}
		s.StartDate = &start
	}

	if err := s.Validate(); err != nil {
		return payroll.Settings{}, err
	}
	return s, nil
}

// ToJSON converts Settings to SettingsJSON.
func (f *SettingsFactory) ToJSON(s payroll.Settings) SettingsJSON {
	sj := SettingsJSON{
		Rate:           s.Rate,
		ClassPercent:   s.ClassPercent,
		PremiumPercent: s.PremiumPercent,
		Senior:         s.Senior,
		Mentor:         s.Mentor,
		Union:          s.Union,
	}
	if s.StartDate != nil {
		sj.StartDate = s.StartDate.String()
	}
	return sj
}

// EncodeSettings returns the JSON string stored alongside a person.
func (f *SettingsFactory) EncodeSettings(s payroll.Settings) (string, error) {
	data, err := json.Marshal(f.ToJSON(s))
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return string(data), nil
}
