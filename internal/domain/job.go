package domain

// RawRecord is one scraped row keyed by raw column name.
// A missing key is a null cell.
type RawRecord map[string]string

// Get returns the cell for col and whether it is present.
func (r RawRecord) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

type RawTable struct {
	Columns []string
	Records []RawRecord
}

func (t RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Semantic column names.
const (
	FieldRating             = "rating"
	FieldTotalSpentByClient = "total_spent_by_client"
	FieldCountry            = "country"
	FieldPaymentVerified    = "payment_verified"
	FieldJobURLMain         = "job_url_main"
	FieldJobTitle           = "job_title"
	FieldJobDescription     = "job_description"
	FieldTimePosted         = "time_posted"
	FieldHourlyRate         = "hourly_rate"
	FieldSkillLevel         = "skill_level"
	FieldEstimatedTime      = "estimated_time"
	FieldEstimatedBudget    = "estimated_budget"
	FieldTags               = "tags"
	FieldGoldenScore        = "golden_score"
)

// ProjectedRecord holds the renamed, still unparsed cells of one row.
type ProjectedRecord struct {
	Values map[string]string // semantic field -> raw text; missing = null
	Tags   []string
}

func (p ProjectedRecord) Value(field string) string {
	return p.Values[field]
}

type JobRecord struct {
	Rating             float64
	TotalSpentByClient float64
	Country            string
	PaymentVerified    string
	JobURLMain         string
	JobTitle           string
	JobDescription     string
	TimePosted         string
	HourlyRate         float64
	SkillLevel         string
	EstimatedTime      string
	EstimatedBudget    float64
	Tags               []string
	GoldenScore        float64
}

// Value returns the cell for a semantic column: float64 for numeric
// columns, []string for tags, string otherwise. Unknown columns yield nil.
func (j JobRecord) Value(col string) any {
	switch col {
	case FieldRating:
		return j.Rating
	case FieldTotalSpentByClient:
		return j.TotalSpentByClient
	case FieldCountry:
		return j.Country
	case FieldPaymentVerified:
		return j.PaymentVerified
	case FieldJobURLMain:
		return j.JobURLMain
	case FieldJobTitle:
		return j.JobTitle
	case FieldJobDescription:
		return j.JobDescription
	case FieldTimePosted:
		return j.TimePosted
	case FieldHourlyRate:
		return j.HourlyRate
	case FieldSkillLevel:
		return j.SkillLevel
	case FieldEstimatedTime:
		return j.EstimatedTime
	case FieldEstimatedBudget:
		return j.EstimatedBudget
	case FieldTags:
		return j.Tags
	case FieldGoldenScore:
		return j.GoldenScore
	default:
		return nil
	}
}

// Table is the finished, ordered pipeline result handed to sinks.
type Table struct {
	Columns []string
	Rows    []JobRecord
}
