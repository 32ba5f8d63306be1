package audit

import (
	"regexp"

	"i18ncheck/internal/config"
)

// Policy maps a base string to its acceptable target/base length ratio.
// Bands tighten as strings grow: short phrases vary more in translation.
type Policy struct {
	bands     []config.Band
	wide      config.Band
	wideKeys  []*regexp.Regexp
	highLong  float64
	highShort float64
}

// NewPolicy builds a tolerance policy from rules. Bands must already be
// validated (ascending, last one unbounded).
func NewPolicy(rules config.RulesConfig) (*Policy, error) {
	wideKeys, err := compileAll(rules.WideBandKeyPatterns)
	if err != nil {
		return nil, err
	}
	return &Policy{
		bands:     append([]config.Band(nil), rules.Bands...),
		wide:      rules.WideBand,
		wideKeys:  wideKeys,
		highLong:  rules.HighLongRatio,
		highShort: rules.HighShortRatio,
	}, nil
}

// BandFor returns the band for key and a base string of baseLen code points.
func (p *Policy) BandFor(key string, baseLen int) config.Band {
	for _, re := range p.wideKeys {
		if re.MatchString(key) {
			return p.wide
		}
	}
	for _, b := range p.bands {
		if b.MaxLength == 0 || baseLen <= b.MaxLength {
			return b
		}
	}
	return p.bands[len(p.bands)-1]
}

// Check compares targetLen/baseLen against the band. ok is false when the
// ratio is outside the band; category and severity then describe the issue.
func (p *Policy) Check(key string, baseLen, targetLen int) (ratio float64, cat Category, sev Severity, ok bool) {
	if baseLen == 0 {
		return 0, "", "", true
	}
	ratio = float64(targetLen) / float64(baseLen)
	band := p.BandFor(key, baseLen)
	switch {
	case ratio > band.Max:
		sev = SeverityMedium
		if ratio > p.highLong {
			sev = SeverityHigh
		}
		return ratio, CategoryTooLong, sev, false
	case ratio < band.Min:
		sev = SeverityMedium
		if ratio < p.highShort {
			sev = SeverityHigh
		}
		return ratio, CategoryTooShort, sev, false
	}
	return ratio, "", "", true
}
