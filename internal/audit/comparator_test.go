package audit

import (
	"testing"

	"i18ncheck/internal/catalog"
	"i18ncheck/internal/config"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComparator(t *testing.T) *Comparator {
	t.Helper()
	c, err := NewComparator(config.DefaultRules())
	require.NoError(t, err)
	return c
}

func categories(issues []Issue) []Category {
	out := make([]Category, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Category)
	}
	return out
}

func TestCompareKey_IdenticalText(t *testing.T) {
	c := newTestComparator(t)

	issues := c.CompareKey("about.shop", "Notre boutique", "Notre boutique")

	// Identical text is also maximally similar, so both fire.
	assert.Equal(t, []Category{CategoryUntranslated, CategoryIdentical}, categories(issues))
	assert.Equal(t, SeverityInfo, issues[0].Severity)
	assert.Equal(t, SeverityMedium, issues[1].Severity)
}

func TestCompareKey_IdenticalShortTextIgnored(t *testing.T) {
	c := newTestComparator(t)

	// 4 code points: above the identical threshold but a temporal abbreviation.
	assert.Empty(t, c.CompareKey("hours.label", "Sept", "Sept"))
	// Not an exception, length 4 > 3, too short for the similarity check.
	assert.Equal(t, []Category{CategoryIdentical}, categories(c.CompareKey("nav.blog", "Blog", "Blog")))
}

func TestCompareKey_EmptyTarget(t *testing.T) {
	c := newTestComparator(t)

	for _, key := range []string{"home.title", "days.monday", "footer.phone"} {
		issues := c.CompareKey(key, "Bienvenue", "")
		require.Len(t, issues, 1, key)
		assert.Equal(t, CategoryEmpty, issues[0].Category)
		assert.Equal(t, SeverityCritical, issues[0].Severity)
		assert.Equal(t, 9, issues[0].BaseLength)
	}
}

func TestCompareKey_BothEmpty(t *testing.T) {
	c := newTestComparator(t)
	assert.Empty(t, c.CompareKey("home.empty", "", ""))
}

func TestCompareKey_TooLongHigh(t *testing.T) {
	c := newTestComparator(t)

	issues := c.CompareKey("products.title", "Nos viande", "Unsere Fleischspezialität")

	require.Len(t, issues, 1)
	assert.Equal(t, CategoryTooLong, issues[0].Category)
	assert.Equal(t, SeverityHigh, issues[0].Severity)
	assert.Equal(t, 10, issues[0].BaseLength)
	assert.Equal(t, 25, issues[0].TargetLength)
	assert.InDelta(t, 2.5, issues[0].Ratio, 1e-9)
}

func TestCompareKey_DayPathNeverFlagged(t *testing.T) {
	c := newTestComparator(t)

	assert.Empty(t, c.CompareKey("days.monday", "Mon", "Montag"))
	assert.Empty(t, c.CompareKey("days.monday", "Lun.", "Montag Vormittag geschlossen"))
}

func TestCompareKey_HourRangesNeverFlagged(t *testing.T) {
	c := newTestComparator(t)

	assert.Empty(t, c.CompareKey("hours.weekdays", "Lundi-Vendredi", "Mo-Fr"))
	assert.Empty(t, c.CompareKey("hours.open", "Ouvert lun-sam", "Geöffnet Montag bis Samstag"))
}

func TestCompareKey_LengthSeverityBoundaries(t *testing.T) {
	c := newTestComparator(t)
	base := "Nos produits" // 12 code points, band 0.6..1.8

	tests := []struct {
		name      string
		targetLen int
		wantCat   Category
		wantSev   Severity
	}{
		{name: "inside band", targetLen: 12},
		{name: "at max", targetLen: 21}, // 1.75
		{name: "just above max", targetLen: 22, wantCat: CategoryTooLong, wantSev: SeverityMedium},
		{name: "exactly 2x", targetLen: 24, wantCat: CategoryTooLong, wantSev: SeverityMedium},
		{name: "above 2x", targetLen: 25, wantCat: CategoryTooLong, wantSev: SeverityHigh},
		{name: "just below min", targetLen: 7, wantCat: CategoryTooShort, wantSev: SeverityMedium},
		{name: "just above 0.4", targetLen: 5, wantCat: CategoryTooShort, wantSev: SeverityMedium}, // 0.416
		{name: "below 0.4", targetLen: 4, wantCat: CategoryTooShort, wantSev: SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := make([]rune, tt.targetLen)
			for i := range target {
				target[i] = 'x'
			}
			issues := c.CompareKey("products.heading", base, string(target))
			if tt.wantCat == "" {
				assert.Empty(t, issues)
				return
			}
			require.Len(t, issues, 1)
			assert.Equal(t, tt.wantCat, issues[0].Category)
			assert.Equal(t, tt.wantSev, issues[0].Severity)
		})
	}
}

func TestCompareKey_UntranslatedNeedsLongBase(t *testing.T) {
	c := newTestComparator(t)

	// 5 code points is not > 5.
	assert.NotContains(t, categories(c.CompareKey("nav.x", "Viand", "Viande")), CategoryUntranslated)
	assert.Contains(t, categories(c.CompareKey("nav.x", "Viandes", "Viandes!")), CategoryUntranslated)
}

func TestCompareLanguage(t *testing.T) {
	c := newTestComparator(t)

	base := catalog.New("fr",
		catalog.Entry{Key: "nav.home", Value: "Accueil"},
		catalog.Entry{Key: "nav.products", Value: "Nos produits"},
		catalog.Entry{Key: "home.title", Value: "Bienvenue"},
		catalog.Entry{Key: "days.monday", Value: "Lun"},
	)
	target := catalog.New("de",
		catalog.Entry{Key: "nav.home", Value: "Startseite"},
		catalog.Entry{Key: "home.title", Value: ""},
		catalog.Entry{Key: "days.monday", Value: "Montag"},
		catalog.Entry{Key: "legacy.banner", Value: "Alt"},
	)

	r := c.CompareLanguage(base, target)

	assert.Equal(t, "de", r.Language)
	assert.Equal(t, []string{"nav.products"}, r.Missing)
	assert.Equal(t, []string{"legacy.banner"}, r.Stale)
	want := []Issue{{
		Key:        "home.title",
		Base:       "Bienvenue",
		BaseLength: 9,
		Severity:   SeverityCritical,
		Category:   CategoryEmpty,
	}}
	if diff := cmp.Diff(want, r.Issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, r.LengthIssueCount())
}
