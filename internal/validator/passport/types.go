package passport

// Severity classifies a rule violation. Error-severity violations make the
// result invalid; warnings only reduce the quality score.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Check is the outcome of running one rule against one field. Penalty is the
// quality-score deduction applied when the check fails.
type Check struct {
	Passed  bool
	Field   string
	Message string
	Penalty int
}

// Quality-score weights per rule class. Violations subtract from a starting
// score of 100; the final score is clamped to [0,100].
const (
	WeightRequired      = 15
	WeightFormat        = 15
	WeightDateInvalid   = 20
	WeightDateExpired   = 10
	WeightNationality   = 15
	WeightMRZ           = 20
	WeightConfidenceMax = 10
	WeightScoreRange    = 25
)

// ConfidenceThreshold is the per-field confidence below which a remark is
// emitted with a penalty proportional to the shortfall.
const ConfidenceThreshold = 0.6
