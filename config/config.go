package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadSettingsFromFile will take settings from a JSON file at path
func ReadSettingsFromFile(path string) (*Settings, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadSettings(fileData)
}

// LoadSettings unmarshals byte data into a validated Settings struct
func LoadSettings(data []byte) (*Settings, error) {
	resp := &Settings{}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return resp, nil
}

// Validate checks all settings fields, returning an error naming the first
// offending field. No partially validated Settings should ever be used
func (s *Settings) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil settings", ErrInvalidConfiguration)
	}
	if !s.StartingCapital.IsPositive() {
		return fmt.Errorf("%w: starting capital must be positive, received %v",
			ErrInvalidConfiguration,
			s.StartingCapital)
	}
	if s.Currency == "" {
		return fmt.Errorf("%w: currency unset", ErrInvalidConfiguration)
	}
	if s.SlippageTicks < 0 {
		return fmt.Errorf("%w: slippage ticks cannot be negative, received %v",
			ErrInvalidConfiguration,
			s.SlippageTicks)
	}
	if s.CommissionRateBps.IsNegative() {
		return fmt.Errorf("%w: commission rate cannot be negative, received %v",
			ErrInvalidConfiguration,
			s.CommissionRateBps)
	}
	return nil
}

// NewMarketModel validates the five fill probabilities and returns an
// immutable MarketModel. Each probability must lie within [0, 1]
func NewMarketModel(fillLimitAtBest, fillLimitAtMid, fillLimitAtCross, fillStop, slippage float64) (*MarketModel, error) {
	for _, check := range []struct {
		name  string
		value float64
	}{
		{"prob-fill-limit-at-best", fillLimitAtBest},
		{"prob-fill-limit-at-mid", fillLimitAtMid},
		{"prob-fill-limit-at-cross", fillLimitAtCross},
		{"prob-fill-stop", fillStop},
		{"prob-slippage", slippage},
	} {
		if check.value < 0 || check.value > 1 {
			return nil, fmt.Errorf("%w: %s %v: %v",
				ErrInvalidConfiguration,
				check.name,
				check.value,
				errProbabilityOutOfRange)
		}
	}
	return &MarketModel{
		probFillLimitAtBest:  fillLimitAtBest,
		probFillLimitAtMid:   fillLimitAtMid,
		probFillLimitAtCross: fillLimitAtCross,
		probFillStop:         fillStop,
		probSlippage:         slippage,
	}, nil
}

// NewMarketModelFromSettings builds a MarketModel from its file readable form
func NewMarketModelFromSettings(f FillModelSettings) (*MarketModel, error) {
	return NewMarketModel(
		f.ProbFillLimitAtBest,
		f.ProbFillLimitAtMid,
		f.ProbFillLimitAtCross,
		f.ProbFillStop,
		f.ProbSlippage)
}

// DefaultMarketModel returns the deterministic pessimistic model: limit
// orders only ever fill at their best price, stops always fill, slippage
// never occurs
func DefaultMarketModel() *MarketModel {
	return &MarketModel{
		probFillLimitAtBest: 1,
		probFillStop:        1,
	}
}

// ProbFillLimitAtBest returns the probability a marketable limit order
// fills at its best price
func (m *MarketModel) ProbFillLimitAtBest() float64 {
	return m.probFillLimitAtBest
}

// ProbFillLimitAtMid returns the probability a marketable limit order
// fills at the bid/ask midpoint
func (m *MarketModel) ProbFillLimitAtMid() float64 {
	return m.probFillLimitAtMid
}

// ProbFillLimitAtCross returns the probability a marketable limit order
// fills by crossing the spread
func (m *MarketModel) ProbFillLimitAtCross() float64 {
	return m.probFillLimitAtCross
}

// ProbFillStop returns the probability a triggered stop order fills
func (m *MarketModel) ProbFillStop() float64 {
	return m.probFillStop
}

// ProbSlippage returns the probability slippage occurs on a fill
func (m *MarketModel) ProbSlippage() float64 {
	return m.probSlippage
}
