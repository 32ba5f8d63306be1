package audit

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"i18ncheck/internal/config"
)

// Reason names the rule that made a key/text pair an exception.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonKeyPattern   Reason = "key-pattern"
	ReasonShortText    Reason = "short-text"
	ReasonDomainWord   Reason = "domain-word"
	ReasonTemporalWord Reason = "temporal-word"
	ReasonPhoneNumber  Reason = "phone-number"
	ReasonFourDigitRun Reason = "four-digit-run"
	ReasonBrandPattern Reason = "brand-pattern"
)

// Classifier decides which key/text pairs are expected to look the same, or
// vary freely in length, across languages.
type Classifier struct {
	keyPatterns []*regexp.Regexp
	words       []string
	temporal    []string
	brand       *regexp.Regexp
	phone       *regexp.Regexp
	fourDigit   *regexp.Regexp
	shortMax    int
}

// NewClassifier compiles the exception rules.
func NewClassifier(rules config.RulesConfig) (*Classifier, error) {
	keyPatterns, err := compileAll(rules.ExemptKeyPatterns)
	if err != nil {
		return nil, err
	}
	c := &Classifier{
		keyPatterns: keyPatterns,
		shortMax:    rules.ShortTextMax,
	}
	// Word lists are compared against normalized text, so normalize them the same way.
	for _, w := range rules.ExceptionWords {
		if n := Normalize(w); n != "" {
			c.words = append(c.words, n)
		}
	}
	for _, w := range rules.TemporalWords {
		if n := Normalize(w); n != "" {
			c.temporal = append(c.temporal, n)
		}
	}
	if c.brand, err = compileOptional("brand_pattern", rules.BrandPattern); err != nil {
		return nil, err
	}
	if c.phone, err = compileOptional("phone_pattern", rules.PhonePattern); err != nil {
		return nil, err
	}
	if c.fourDigit, err = compileOptional("four_digit_pattern", rules.FourDigitPattern); err != nil {
		return nil, err
	}
	return c, nil
}

// Classify returns the first exception rule matching key/text, or ReasonNone.
func (c *Classifier) Classify(key, text string) Reason {
	for _, re := range c.keyPatterns {
		if re.MatchString(key) {
			return ReasonKeyPattern
		}
	}
	if utf8.RuneCountInString(text) <= c.shortMax {
		return ReasonShortText
	}

	normalized := Normalize(text)
	for _, w := range c.words {
		if strings.Contains(normalized, w) {
			return ReasonDomainWord
		}
	}
	// Hour ranges such as "lun-sam" normalize to a single run, so temporal
	// words are matched as substrings too.
	for _, w := range c.temporal {
		if strings.Contains(normalized, w) {
			return ReasonTemporalWord
		}
	}

	if c.phone != nil && c.phone.MatchString(text) {
		return ReasonPhoneNumber
	}
	if c.fourDigit != nil && c.fourDigit.MatchString(text) {
		return ReasonFourDigitRun
	}
	if c.brand != nil && c.brand.MatchString(text) {
		return ReasonBrandPattern
	}
	return ReasonNone
}

// IsException reports whether key/text is exempt from similarity and length checks.
func (c *Classifier) IsException(key, text string) bool {
	return c.Classify(key, text) != ReasonNone
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid key pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func compileOptional(name, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, pattern, err)
	}
	return re, nil
}
