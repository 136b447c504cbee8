package docext

import (
	"log/slog"
	"regexp"
	"strings"
)

// Name extraction runs a priority chain: the combined "Patient Name" rule
// wins outright; only when it misses are the separate first/last label
// rules consulted. The remaining fields each have a single independent
// rule. Patterns deliberately tolerate flexible label spacing and accept
// either a colon or a hyphen as separator.
var (
	reFullName  = regexp.MustCompile(`(?i)Patient\s+Name\s*[:\-]\s*([A-Za-z'\-]+)\s+([A-Za-z'\-]+)`)
	reFirstName = regexp.MustCompile(`(?i)First\s*Name\s*[:\-]\s*([A-Za-z'\-]+)`)
	reLastName  = regexp.MustCompile(`(?i)Last\s*Name\s*[:\-]\s*([A-Za-z'\-]+)`)
	reDOB       = regexp.MustCompile(`(?i)(?:DOB|Date\s*of\s*Birth|Birth\s*Date|Birthdate)\s*[:\-]?\s*(\d{1,2}/\d{1,2}/\d{2,4})`)
	reAddress   = regexp.MustCompile(`(?i)(?:Address|Patient\s+Address)\s*[:\-]\s*(.+)`)
	rePhone     = regexp.MustCompile(`(?i)(?:Phone|Tel|Telephone)\s*[:\-]\s*([+\d\-()\s]+)`)

	// reAddressBound marks where an address capture must stop: the next
	// field label or end of text.
	reAddressBound = regexp.MustCompile(`(?i)Phone|Tel|Telephone|Medical`)
)

// firstNameExclusions guards against label-text bleed-through from
// adjacent form fields ("First Name: and Last Name: Smith").
var firstNameExclusions = map[string]struct{}{
	"and":     {},
	"name":    {},
	"address": {},
}

// Extractor recovers patient fields from normalized text. Extraction is
// best-effort by design: a rule that matches nothing leaves its field nil,
// and Extract never fails.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract applies every field rule to text. The five extractions are
// independent; none depends on another's success.
func (e *Extractor) Extract(text string, usedOCR bool) PatientFields {
	out := PatientFields{UsedOCR: usedOCR}

	out.FirstName, out.LastName = extractName(text)
	out.DateOfBirth = capture(reDOB, text)
	out.Address = extractAddress(text)
	if p := capture(rePhone, text); p != nil {
		trimmed := strings.TrimSpace(*p)
		out.Phone = &trimmed
	}

	e.logger.Debug("fields extracted",
		"first_name", out.FirstName != nil,
		"last_name", out.LastName != nil,
		"date_of_birth", out.DateOfBirth != nil,
		"address", out.Address != nil,
		"phone", out.Phone != nil,
		"used_ocr", usedOCR,
	)
	return out
}

func extractName(text string) (first, last *string) {
	if m := reFullName.FindStringSubmatch(text); m != nil {
		return &m[1], &m[2]
	}
	if m := reFirstName.FindStringSubmatch(text); m != nil {
		if _, excluded := firstNameExclusions[strings.ToLower(m[1])]; !excluded {
			first = &m[1]
		}
	}
	if m := reLastName.FindStringSubmatch(text); m != nil {
		last = &m[1]
	}
	return first, last
}

// extractAddress captures everything after the address label, then cuts
// the capture at the first occurrence of a bounding label so trailing
// fields like "Phone: ..." are not swallowed.
func extractAddress(text string) *string {
	m := reAddress.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	candidate := m[1]
	if loc := reAddressBound.FindStringIndex(candidate); loc != nil {
		candidate = candidate[:loc[0]]
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil
	}
	return &candidate
}

func capture(re *regexp.Regexp, text string) *string {
	if m := re.FindStringSubmatch(text); m != nil {
		return &m[1]
	}
	return nil
}
