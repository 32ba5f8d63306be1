package config

import (
	"fmt"
	"regexp"
)

// Band is a [Min, Max] tolerance on target/base length for base strings of
// at most MaxLength code points. MaxLength 0 means unbounded.
type Band struct {
	MaxLength int     `yaml:"max_length"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
}

// RulesConfig holds the static data driving the comparator: exception word
// lists, key patterns, tolerance bands and thresholds.
type RulesConfig struct {
	// Keys whose values are exempt from similarity and length checks
	ExemptKeyPatterns []string `yaml:"exempt_key_patterns"`

	// Keys whose values get WideBand instead of the length bands
	WideBandKeyPatterns []string `yaml:"wide_band_key_patterns"`

	// Substrings of normalized text expected to stay (near) identical across languages
	ExceptionWords []string `yaml:"exception_words"`

	// Day and month names and abbreviations, substrings of normalized text
	TemporalWords []string `yaml:"temporal_words"`

	BrandPattern     string `yaml:"brand_pattern"`
	PhonePattern     string `yaml:"phone_pattern"`
	FourDigitPattern string `yaml:"four_digit_pattern"`

	// Texts of at most this many code points are treated as acronyms or proper nouns
	ShortTextMax int `yaml:"short_text_max"`

	SimilarityThreshold   float64 `yaml:"similarity_threshold"`
	UntranslatedMinLength int     `yaml:"untranslated_min_length"`
	IdenticalMinLength    int     `yaml:"identical_min_length"`

	Bands    []Band `yaml:"bands"`
	WideBand Band   `yaml:"wide_band"`

	// Ratios beyond these make a length issue HIGH instead of MEDIUM
	HighLongRatio  float64 `yaml:"high_long_ratio"`
	HighShortRatio float64 `yaml:"high_short_ratio"`
}

// DefaultRules returns the rule set tuned for the shop's fr/de/en/it catalogs.
func DefaultRules() RulesConfig {
	keyPatterns := []string{
		`(?i)(^|\.)days?\.`,
		`(?i)(^|\.)(monday|tuesday|wednesday|thursday|friday|saturday|sunday)$`,
		`(?i)(^|\.)stats?\.`,
		`(?i)badge`,
		`(?i)(^|\.)cta(\.|$)`,
	}
	return RulesConfig{
		ExemptKeyPatterns:   keyPatterns,
		WideBandKeyPatterns: append([]string(nil), keyPatterns...),
		ExceptionWords: []string{
			"vallorbe", "email", "contact", "info", "instagram", "facebook",
			"whatsapp", "twint", "google", "maps", "copyright",
		},
		TemporalWords: []string{
			// fr
			"lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi", "dimanche",
			"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août",
			"septembre", "octobre", "novembre", "décembre",
			"lun", "mar", "mer", "jeu", "ven", "sam", "dim",
			// de
			"montag", "dienstag", "mittwoch", "donnerstag", "freitag", "samstag", "sonntag",
			"januar", "februar", "märz", "juni", "juli", "august", "oktober", "dezember",
			// en
			"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
			"january", "february", "march", "april", "may", "june", "july",
			"september", "october", "november", "december",
			"mon", "tue", "wed", "thu", "fri", "sat", "sun",
			"jan", "feb", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
			// it
			"lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato", "domenica",
			"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno", "luglio",
			"agosto", "settembre", "ottobre", "dicembre",
			"gio", "sab", "dom",
		},
		BrandPattern:          `(?i)\b(vallorbe|jura|vaud)\b`,
		PhonePattern:          `^[\d\s+()\-]+$`,
		FourDigitPattern:      `\d{4}`,
		ShortTextMax:          3,
		SimilarityThreshold:   0.90,
		UntranslatedMinLength: 5,
		IdenticalMinLength:    3,
		Bands: []Band{
			{MaxLength: 5, Min: 0.4, Max: 3.0},
			{MaxLength: 15, Min: 0.6, Max: 1.8},
			{MaxLength: 30, Min: 0.7, Max: 1.5},
			{MaxLength: 0, Min: 0.8, Max: 1.3},
		},
		WideBand:       Band{Min: 0.3, Max: 3.0},
		HighLongRatio:  2.0,
		HighShortRatio: 0.4,
	}
}

// Validate checks patterns compile and bands are well formed.
func (r *RulesConfig) Validate() error {
	for _, group := range [][]string{r.ExemptKeyPatterns, r.WideBandKeyPatterns} {
		for _, p := range group {
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("invalid key pattern %q: %w", p, err)
			}
		}
	}
	for name, p := range map[string]string{
		"brand_pattern":      r.BrandPattern,
		"phone_pattern":      r.PhonePattern,
		"four_digit_pattern": r.FourDigitPattern,
	} {
		if p == "" {
			continue
		}
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, p, err)
		}
	}

	if len(r.Bands) == 0 {
		return fmt.Errorf("at least one tolerance band is required")
	}
	prev := 0
	for i, b := range r.Bands {
		if b.Min <= 0 || b.Max <= b.Min {
			return fmt.Errorf("band %d: need 0 < min < max (got %v..%v)", i, b.Min, b.Max)
		}
		last := i == len(r.Bands)-1
		if b.MaxLength == 0 && !last {
			return fmt.Errorf("band %d: only the last band may be unbounded", i)
		}
		if b.MaxLength != 0 && b.MaxLength <= prev {
			return fmt.Errorf("band %d: max_length must increase (got %d after %d)", i, b.MaxLength, prev)
		}
		prev = b.MaxLength
	}
	if r.Bands[len(r.Bands)-1].MaxLength != 0 {
		return fmt.Errorf("last band must be unbounded (max_length 0)")
	}
	if r.WideBand.Min <= 0 || r.WideBand.Max <= r.WideBand.Min {
		return fmt.Errorf("wide_band: need 0 < min < max (got %v..%v)", r.WideBand.Min, r.WideBand.Max)
	}
	if r.SimilarityThreshold <= 0 || r.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be within (0, 1] (got %v)", r.SimilarityThreshold)
	}
	return nil
}
