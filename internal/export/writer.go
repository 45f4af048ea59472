package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"veridoc/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Index",
	"Full Name",
	"Passport Number",
	"Date of Birth",
	"Date of Issue",
	"Date of Expiry",
	"Nationality",
	"Place of Birth",
	"Issuing Authority",
	"Gender",
	"Overall Confidence",
	"Quality Score",
	"Valid",
	"Remarks",
}

// Writer wraps csv.Writer for exporting batch extraction results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteSummary converts a batch summary to CSV rows and writes them. Failed
// items appear with their index and error message in the remarks column so
// the export accounts for every input.
func (w *Writer) WriteSummary(summary *domain.BatchSummary) error {
	for i := range summary.Results {
		if err := w.csv.Write(resultToRow(&summary.Results[i])); err != nil {
			return err
		}
	}
	for _, e := range summary.Errors {
		row := make([]string, len(columns))
		row[0] = strconv.Itoa(e.Index + 1)
		row[12] = "No"
		row[13] = e.Message
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func resultToRow(item *domain.ItemResult) []string {
	row := make([]string, len(columns))
	row[0] = strconv.Itoa(item.Index + 1)
	if item.Result != nil {
		d := &item.Result.Data
		row[1] = d.FullName.String()
		row[2] = d.PassportNumber.String()
		row[3] = d.DateOfBirth.String()
		row[4] = d.DateOfIssue.String()
		row[5] = d.DateOfExpiry.String()
		row[6] = d.Nationality.String()
		row[7] = d.PlaceOfBirth.String()
		row[8] = d.IssuingAuthority.String()
		row[9] = d.Gender.String()
		row[10] = strconv.FormatFloat(item.Result.OverallConfidence, 'f', 2, 64)
	}
	if item.Report != nil {
		row[11] = strconv.Itoa(item.Report.QualityScore)
		row[12] = formatBool(item.Report.IsValid)
		row[13] = strings.Join(item.Report.Remarks, "; ")
	}
	return row
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a batch name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
