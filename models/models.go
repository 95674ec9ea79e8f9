package models

// Bookmark represents one normalized link extracted from a bookmark export.
// Records are immutable after extraction and ordered by document position.
type Bookmark struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Context   []string `json:"context"`   // folder path, root to immediate parent
	Timestamp string   `json:"timestamp"` // "2006-01-02 15:04:05" local time, or ""
	Tags      []string `json:"tags"`
}

// Cluster is a topic group produced by the clustering stage
type Cluster struct {
	ID       int        `json:"cluster_id"`
	Topic    string     `json:"topic"`
	Size     int        `json:"size"` // total assigned records, not capped like Members
	Keywords []string   `json:"keywords"`
	Members  []Bookmark `json:"nodes"` // preview, capped at 10
}

// NameCount is a ranked tally entry (domain ranking, keyword cloud)
type NameCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// RiverPoint is one cell of the month-by-theme frequency grid
type RiverPoint struct {
	Date  string `json:"date"` // YYYY-MM
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// RadarDimension is one axis of the skill radar.
// Max is a display ceiling shared across all six dimensions.
type RadarDimension struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Max   int    `json:"max"`
}

// Persona summarizes the profile derived from aggregate statistics
type Persona struct {
	Level     string   `json:"level"`
	Tags      []string `json:"tags"`
	TopDomain string   `json:"top_domain"`
	TopTopic  string   `json:"top_cluster"`
}

// AnalysisResult bundles every analytic computed over one record sequence.
// All fields are independently serializable; nothing references shared state.
type AnalysisResult struct {
	Persona       Persona          `json:"persona"`
	SkillRadar    []RadarDimension `json:"skill_radar"`
	Timeline      map[string]int   `json:"timeline"`
	Clusters      []Cluster        `json:"clusters"`
	Domains       []NameCount      `json:"domains"`
	ActivityHours map[string]int   `json:"activity_hours"`
	KeywordCloud  []NameCount      `json:"keyword_cloud"`
	ThemeRiver    []RiverPoint     `json:"theme_river"`
}
