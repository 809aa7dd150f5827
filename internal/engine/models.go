package engine

// Status is the tri-state outcome of an evaluation.
type Status string

const (
	StatusApproved       Status = "APPROVED"
	StatusRequiresReview Status = "REQUIRES_REVIEW"
	StatusRejected       Status = "REJECTED"
)

// Severity orders findings: reject > review > none.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityReview
	SeverityReject
)

// Status maps a severity onto the decision status it forces.
func (s Severity) Status() Status {
	switch s {
	case SeverityReject:
		return StatusRejected
	case SeverityReview:
		return StatusRequiresReview
	default:
		return StatusApproved
	}
}

// Severity is the inverse of Severity.Status.
func (s Status) Severity() Severity {
	switch s {
	case StatusRejected:
		return SeverityReject
	case StatusRequiresReview:
		return SeverityReview
	default:
		return SeverityNone
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityReject:
		return "reject"
	case SeverityReview:
		return "review"
	default:
		return "none"
	}
}

// Finding is one piece of evidence produced by a single check.
type Finding struct {
	Severity Severity
	Message  string
}

// Result is what a text policy check returns: a status and the reasons behind it.
type Result struct {
	Status  Status
	Reasons []string
}

func approved() Result { return Result{Status: StatusApproved} }

// ImageFacts are the decoded properties of an uploaded image.
type ImageFacts struct {
	Format   string // PNG | JPEG | GIF
	Width    int
	Height   int
	Size     int     // raw byte length
	Contrast float64 // stddev of grayscale luminance
}

// Metadata describes the placement context. Absent fields are empty strings.
type Metadata struct {
	Market    string `json:"market"`
	Placement string `json:"placement"`
	Audience  string `json:"audience"`
	Category  string `json:"category"`
}

// Submission is everything one evaluation looks at.
type Submission struct {
	Image    ImageFacts
	Filename string
	Metadata *Metadata // nil when no metadata was sent
}

// Decision is the final verdict. Status is APPROVED iff Reasons is empty.
type Decision struct {
	Status  Status   `json:"status"`
	Reasons []string `json:"reasons"`
	Format  string   `json:"img_format"`
	Width   int      `json:"img_width"`
	Height  int      `json:"img_height"`
	Size    int      `json:"img_size"`
}

// Thresholds bound the image property checks.
type Thresholds struct {
	MinWidth       int
	MinHeight      int
	MaxWidth       int
	MaxHeight      int
	MinAspectRatio float64
	MaxAspectRatio float64
	MinContrast    float64
}

// DefaultThresholds mirrors the config defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinWidth:       200,
		MinHeight:      200,
		MaxWidth:       10000,
		MaxHeight:      10000,
		MinAspectRatio: 0.5,
		MaxAspectRatio: 2.0,
		MinContrast:    15,
	}
}
