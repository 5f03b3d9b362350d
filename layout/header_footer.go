package layout

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/ledgerscan/model"
)

// HeaderFooterRegion is a row that repeats near the top or bottom of
// several pages.
type HeaderFooterRegion struct {
	// Type indicates if this is a header or footer
	Type RegionType

	// Text is the row text with digit runs replaced by "#".
	Text string

	// Y is the distance from the top of the page for headers, or from the
	// bottom of the content for footers, on the first page it was seen.
	Y float64

	// IsPageNumber indicates if the row carries a page number
	IsPageNumber bool

	// PageIndices lists which pages have this header/footer
	PageIndices []int
}

// RegionType indicates whether a region is a header or footer
type RegionType int

const (
	Header RegionType = iota
	Footer
)

func (r RegionType) String() string {
	if r == Header {
		return "header"
	}
	return "footer"
}

// HeaderFooterConfig holds configuration for header/footer detection
type HeaderFooterConfig struct {
	// HeaderRegionHeight is the distance from the top of the page within
	// which rows are header candidates.
	// Default: 72 points (1 inch)
	HeaderRegionHeight float64

	// FooterRegionHeight is the distance from the bottom of the page
	// content within which rows are footer candidates.
	// Default: 72 points (1 inch)
	FooterRegionHeight float64

	// MinOccurrenceRatio is the minimum fraction of pages a row must appear
	// on to be considered a header/footer (0.0 to 1.0)
	// Default: 0.5 (50% of pages)
	MinOccurrenceRatio float64

	// PositionTolerance is the maximum vertical difference for rows to be
	// considered at the same position.
	// Default: 5 points
	PositionTolerance float64

	// MinPages is the minimum number of pages required for detection
	// Default: 2
	MinPages int
}

// DefaultHeaderFooterConfig returns sensible default configuration
func DefaultHeaderFooterConfig() HeaderFooterConfig {
	return HeaderFooterConfig{
		HeaderRegionHeight: 72.0,
		FooterRegionHeight: 72.0,
		MinOccurrenceRatio: 0.5,
		PositionTolerance:  5.0,
		MinPages:           2,
	}
}

// PageRows holds the rows of one page.
type PageRows struct {
	PageIndex int
	Rows      []model.RowGroup
}

// HeaderFooterDetector finds page headers and footers: rows repeated at the
// same position across pages.
type HeaderFooterDetector struct {
	config HeaderFooterConfig
}

// NewHeaderFooterDetector creates a new detector with default configuration
func NewHeaderFooterDetector() *HeaderFooterDetector {
	return &HeaderFooterDetector{
		config: DefaultHeaderFooterConfig(),
	}
}

// NewHeaderFooterDetectorWithConfig creates a detector with custom configuration
func NewHeaderFooterDetectorWithConfig(config HeaderFooterConfig) *HeaderFooterDetector {
	return &HeaderFooterDetector{
		config: config,
	}
}

// HeaderFooterResult contains the detection results
type HeaderFooterResult struct {
	Headers []HeaderFooterRegion
	Footers []HeaderFooterRegion
	Config  HeaderFooterConfig
}

// Detect finds the headers and footers of a document's pages.
//
// Rows are grouped by text with digit runs masked. A group becomes a region
// when it appears on enough pages at a consistent position, and either its
// rows are identical or the digits form a page number sequence. Rows that
// differ in other numbers, such as dated transactions, never match.
func (d *HeaderFooterDetector) Detect(pages []PageRows) *HeaderFooterResult {
	result := &HeaderFooterResult{Config: d.config}
	if len(pages) < d.config.MinPages || len(pages) < 2 {
		return result
	}

	result.Headers = d.findRepeatingPatterns(d.extractCandidates(pages, Header), len(pages), Header)
	result.Footers = d.findRepeatingPatterns(d.extractCandidates(pages, Footer), len(pages), Footer)
	return result
}

// candidate is a row that may be a header or footer
type candidate struct {
	Text      string
	Y         float64
	PageIndex int
}

// contentBottom returns the lowest row bottom on a page.
func contentBottom(rows []model.RowGroup) float64 {
	bottom := 0.0
	for _, r := range rows {
		if b := r.Bottom(); b > bottom {
			bottom = b
		}
	}
	return bottom
}

// regionOffset returns a row's distance from the page top (headers) or the
// content bottom (footers), and whether it lies inside the region.
func (d *HeaderFooterDetector) regionOffset(row model.RowGroup, bottom float64, regionType RegionType) (float64, bool) {
	if regionType == Header {
		return row.Top, row.Top < d.config.HeaderRegionHeight
	}
	dist := bottom - row.Bottom()
	return dist, dist < d.config.FooterRegionHeight
}

// extractCandidates extracts header or footer candidates from pages
func (d *HeaderFooterDetector) extractCandidates(pages []PageRows, regionType RegionType) []candidate {
	var candidates []candidate

	for _, page := range pages {
		bottom := contentBottom(page.Rows)
		for _, row := range page.Rows {
			y, ok := d.regionOffset(row, bottom, regionType)
			if !ok {
				continue
			}
			text := strings.TrimSpace(row.Text())
			if text == "" {
				continue
			}
			candidates = append(candidates, candidate{Text: text, Y: y, PageIndex: page.PageIndex})
		}
	}

	return candidates
}

// findRepeatingPatterns finds rows that repeat across pages
func (d *HeaderFooterDetector) findRepeatingPatterns(candidates []candidate, totalPages int, regionType RegionType) []HeaderFooterRegion {
	if len(candidates) == 0 {
		return nil
	}

	groups := make(map[string][]candidate)
	var order []string
	for _, c := range candidates {
		normalized := normalizeForComparison(c.Text)
		if _, ok := groups[normalized]; !ok {
			order = append(order, normalized)
		}
		groups[normalized] = append(groups[normalized], c)
	}

	minOccurrences := int(float64(totalPages) * d.config.MinOccurrenceRatio)
	if minOccurrences < 2 {
		minOccurrences = 2
	}

	var regions []HeaderFooterRegion
	for _, normalized := range order {
		group := groups[normalized]

		// Single characters are likely stray marks
		if len(normalized) <= 2 && !isPageNumberPattern(normalized) {
			continue
		}

		pageSet := make(map[int]bool)
		for _, c := range group {
			pageSet[c.PageIndex] = true
		}
		if len(pageSet) < minOccurrences {
			continue
		}
		if !d.hasConsistentPosition(group) {
			continue
		}

		isPageNum := isPageNumberPattern(normalized) || containsPageNumberPattern(group)
		if !isPageNum && !identicalTexts(group) {
			continue
		}

		var pageIndices []int
		for idx := range pageSet {
			pageIndices = append(pageIndices, idx)
		}
		sort.Ints(pageIndices)

		regions = append(regions, HeaderFooterRegion{
			Type:         regionType,
			Text:         normalized,
			Y:            group[0].Y,
			IsPageNumber: isPageNum,
			PageIndices:  pageIndices,
		})
	}

	return regions
}

// hasConsistentPosition checks if candidates appear at consistent positions
func (d *HeaderFooterDetector) hasConsistentPosition(group []candidate) bool {
	if len(group) < 2 {
		return false
	}
	refY := group[0].Y
	for _, c := range group[1:] {
		if absFloat(c.Y-refY) > d.config.PositionTolerance {
			return false
		}
	}
	return true
}

func identicalTexts(group []candidate) bool {
	for _, c := range group[1:] {
		if c.Text != group[0].Text {
			return false
		}
	}
	return true
}

var digitRun = regexp.MustCompile(`\d+`)

// normalizeForComparison replaces digit runs with "#"
func normalizeForComparison(text string) string {
	return digitRun.ReplaceAllString(text, "#")
}

// pageNumberPatterns are common page number rows after normalization
var pageNumberPatterns = []string{
	"#",
	"Page #",
	"- # -",
	"# of #",
	"Page # of #",
	"#/#",
	"p. #",
	"pg #",
	"Pagina #",
	"Pagina # de #",
	"Hoja #",
	"Hoja # de #",
}

// isPageNumberPattern checks if normalized text looks like a page number
func isPageNumberPattern(normalizedText string) bool {
	trimmed := strings.TrimSpace(normalizedText)
	for _, pattern := range pageNumberPatterns {
		if strings.EqualFold(trimmed, pattern) {
			return true
		}
	}
	return false
}

var pageWord = regexp.MustCompile(`(?i)\b(page|pg|pagina|página|hoja|folio)\b`)

// containsPageNumberPattern reports whether the rows name a page and their
// first number increases by one from page to page.
func containsPageNumberPattern(group []candidate) bool {
	if len(group) < 2 || !pageWord.MatchString(group[0].Text) {
		return false
	}

	sorted := make([]candidate, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PageIndex < sorted[j].PageIndex })

	var numbers []int
	for _, c := range sorted {
		m := digitRun.FindString(c.Text)
		if m == "" {
			return false
		}
		num := 0
		for _, r := range m {
			num = num*10 + int(r-'0')
		}
		numbers = append(numbers, num)
	}

	sequential := 0
	for i := 1; i < len(numbers); i++ {
		if numbers[i]-numbers[i-1] == 1 {
			sequential++
		}
	}
	// More than half sequential means page numbers
	return sequential*2 >= len(numbers)-1 && sequential > 0
}

// Filter returns the page's rows without its headers and footers.
func (r *HeaderFooterResult) Filter(page PageRows) []model.RowGroup {
	if r == nil || !r.HasHeadersOrFooters() || len(page.Rows) == 0 {
		return page.Rows
	}

	bottom := contentBottom(page.Rows)
	d := &HeaderFooterDetector{config: r.Config}

	out := make([]model.RowGroup, 0, len(page.Rows))
	for _, row := range page.Rows {
		if r.matches(d, row, bottom, page.PageIndex) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (r *HeaderFooterResult) matches(d *HeaderFooterDetector, row model.RowGroup, bottom float64, pageIndex int) bool {
	normalized := normalizeForComparison(strings.TrimSpace(row.Text()))
	check := func(regions []HeaderFooterRegion, regionType RegionType) bool {
		y, ok := d.regionOffset(row, bottom, regionType)
		if !ok {
			return false
		}
		for _, reg := range regions {
			if reg.Text == normalized && containsPage(reg.PageIndices, pageIndex) &&
				absFloat(y-reg.Y) <= r.Config.PositionTolerance {
				return true
			}
		}
		return false
	}
	return check(r.Headers, Header) || check(r.Footers, Footer)
}

func containsPage(pages []int, pageIndex int) bool {
	i := sort.SearchInts(pages, pageIndex)
	return i < len(pages) && pages[i] == pageIndex
}

// HasHeadersOrFooters reports whether anything was detected.
func (r *HeaderFooterResult) HasHeadersOrFooters() bool {
	return len(r.Headers) > 0 || len(r.Footers) > 0
}

// Texts returns the normalized text of every detected region.
func (r *HeaderFooterResult) Texts() []string {
	var out []string
	for _, reg := range r.Headers {
		out = append(out, reg.Text)
	}
	for _, reg := range r.Footers {
		out = append(out, reg.Text)
	}
	return out
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
