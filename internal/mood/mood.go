package mood

// Analysis is the structured interpretation of free-text mood input produced
// by the remote inference service. The JSON keys mirror the service's own
// field names verbatim, capitalization and spaces included. An analysis is
// immutable once returned.
type Analysis struct {
	MoodTags         []string `json:"Mood tags"`
	Energy           string   `json:"Energy"`
	ConfidenceScore  string   `json:"confidence score"`
	Cravings         []string `json:"Cravings,omitempty"`
	PersonalizedTips string   `json:"personalized tips,omitempty"`
}
