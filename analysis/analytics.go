package analysis

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/zombar/bookminer/models"
	"github.com/zombar/bookminer/token"
)

// timestampLayout is the canonical record timestamp format produced by the
// extractor
const timestampLayout = "2006-01-02 15:04:05"

// parseTimestamp parses a record's canonical timestamp. ok is false for
// empty or malformed values, which every analytic silently skips.
func parseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(timestampLayout, ts, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Timeline counts records per calendar month. Map keys are "YYYY-MM", so
// encoding/json's sorted key order is chronological.
func (a *Analyzer) Timeline(records []models.Bookmark) map[string]int {
	counts := map[string]int{}
	for _, b := range records {
		if t, ok := parseTimestamp(b.Timestamp); ok {
			counts[t.Format("2006-01")]++
		}
	}
	return counts
}

// ActivityHours counts records per hour of day, keyed "00" through "23"
func (a *Analyzer) ActivityHours(records []models.Bookmark) map[string]int {
	hours := map[string]int{}
	for _, b := range records {
		if t, ok := parseTimestamp(b.Timestamp); ok {
			hours[t.Format("15")]++
		}
	}
	return hours
}

// Domains ranks the normalized URL hosts, top N by count
func (a *Analyzer) Domains(records []models.Bookmark) []models.NameCount {
	return a.topDomains(records, a.config.TopDomains)
}

func (a *Analyzer) topDomains(records []models.Bookmark, topN int) []models.NameCount {
	counts := map[string]int{}
	for _, b := range records {
		if d := domainOf(b.URL); d != "" {
			counts[d]++
		}
	}
	return rankCounts(counts, topN)
}

// domainOf returns the normalized host of a URL, "" when unparseable.
// A leading www. is stripped so both spellings tally together.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// KeywordCloud ranks token frequency over every record's title and tags
func (a *Analyzer) KeywordCloud(records []models.Bookmark) []models.NameCount {
	return a.topKeywords(records, a.config.TopKeywords)
}

func (a *Analyzer) topKeywords(records []models.Bookmark, topN int) []models.NameCount {
	counts := map[string]int{}
	for _, b := range records {
		text := b.Title
		if len(b.Tags) > 0 {
			text += " " + strings.Join(b.Tags, " ")
		}
		for _, tok := range token.Tokenize(text) {
			counts[tok]++
		}
	}
	return rankCounts(counts, topN)
}

// rankCounts orders a tally by count descending, name ascending on ties, and
// truncates to topN
func rankCounts(counts map[string]int, topN int) []models.NameCount {
	ranked := make([]models.NameCount, 0, len(counts))
	for name, value := range counts {
		ranked = append(ranked, models.NameCount{Name: name, Value: value})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Name < ranked[j].Name
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// riverThemes is the number of global top terms used as river channels
const riverThemes = 5

// ThemeRiver produces a dense month-by-theme grid over the top global
// keyword-cloud terms. Every month emits one row per theme even at zero, so
// the series stays continuous for charting.
func (a *Analyzer) ThemeRiver(records []models.Bookmark) []models.RiverPoint {
	river := []models.RiverPoint{}

	themes := a.topKeywords(records, riverThemes)
	if len(themes) == 0 {
		return river
	}

	monthly := map[string][]models.Bookmark{}
	for _, b := range records {
		if t, ok := parseTimestamp(b.Timestamp); ok {
			month := t.Format("2006-01")
			monthly[month] = append(monthly[month], b)
		}
	}

	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)

	for _, month := range months {
		for _, theme := range themes {
			count := 0
			for _, b := range monthly[month] {
				if strings.Contains(strings.ToLower(b.Title), theme.Name) {
					count++
				}
			}
			river = append(river, models.RiverPoint{
				Date:  month,
				Name:  theme.Name,
				Value: count,
			})
		}
	}

	return river
}

// radarDimensions maps each skill axis to its curated keyword set, in
// display order
var radarDimensions = []struct {
	name     string
	keywords []string
}{
	{"Coding", []string{"github", "stackoverflow", "csdn", "juejin", "python", "java", "code", "git", "api", "dev"}},
	{"AI/ML", []string{"arxiv", "huggingface", "openai", "gpt", "model", "deep", "learning", "ai", "bot"}},
	{"Product", []string{"figma", "dribbble", "producthunt", "notion", "linear", "design", "ui", "ux"}},
	{"Media", []string{"bilibili", "youtube", "netflix", "spotify", "music", "video", "douban", "movie"}},
	{"Academic", []string{"scholar", "edu", "university", "paper", "research", "science", "wiki", "book"}},
	{"Life", []string{"taobao", "jd", "amazon", "map", "food", "travel", "news", "blog"}},
}

// radarHeadroom pads the display ceiling above the highest raw score
const radarHeadroom = 5

// SkillRadar scores six fixed dimensions. A record contributes at most one
// point per dimension when any of that dimension's keywords appears in its
// title or URL. All axes share one display ceiling so the chart stays
// proportional.
func (a *Analyzer) SkillRadar(records []models.Bookmark) []models.RadarDimension {
	scores := make([]int, len(radarDimensions))
	for _, b := range records {
		content := strings.ToLower(b.Title + " " + b.URL)
		for i, dim := range radarDimensions {
			for _, kw := range dim.keywords {
				if strings.Contains(content, kw) {
					scores[i]++
					break
				}
			}
		}
	}

	maxScore := 0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore == 0 {
		maxScore = 1
	}

	radar := make([]models.RadarDimension, len(radarDimensions))
	for i, dim := range radarDimensions {
		radar[i] = models.RadarDimension{
			Name:  dim.name,
			Value: scores[i],
			Max:   maxScore + radarHeadroom,
		}
	}
	return radar
}

// personaTiers maps collection size to a level label; thresholds are
// exclusive upper bounds
var personaTiers = []struct {
	below int
	label string
}{
	{100, "Lv.1 Explorer"},
	{500, "Lv.2 Collector"},
	{1000, "Lv.3 Knowledge Hoarder"},
	{5000, "Lv.4 Librarian"},
}

const personaTopTier = "Lv.5 Cyber Sage"

// personaRules derive qualitative tags from well-known hosts. Rules are
// evaluated in order so tag selection is deterministic.
var personaRules = []struct {
	hosts []string
	tag   string
}{
	{[]string{"github.com", "stackoverflow.com"}, "Open Source Geek"},
	{[]string{"bilibili.com", "youtube.com"}, "Audiovisual Learner"},
	{[]string{"arxiv.org", "scholar.google"}, "Academic Researcher"},
	{[]string{"zhihu.com", "medium.com"}, "Deep Reader"},
	{[]string{"taobao.com", "jd.com"}, "Digital Lifestyle"},
	{[]string{"figma.com", "dribbble.com"}, "Design Aesthete"},
}

const maxPersonaTags = 3

// Persona summarizes the whole collection: a count-tiered level, up to three
// qualitative tags, the rank-1 domain, and the rank-1 cloud term. The top
// topic deliberately comes from the keyword cloud rather than the cluster
// labels, so persona generation never depends on the clustering stage.
func (a *Analyzer) Persona(records []models.Bookmark) models.Persona {
	if len(records) == 0 {
		return models.Persona{
			Level:     "Lv.0 Newcomer",
			Tags:      []string{},
			TopDomain: "N/A",
			TopTopic:  "N/A",
		}
	}

	level := personaTopTier
	for _, tier := range personaTiers {
		if len(records) < tier.below {
			level = tier.label
			break
		}
	}

	var hosts strings.Builder
	for _, b := range records {
		if u, err := url.Parse(b.URL); err == nil {
			hosts.WriteString(strings.ToLower(u.Hostname()))
			hosts.WriteString(" ")
		}
	}
	hostList := hosts.String()

	tags := []string{}
	for _, rule := range personaRules {
		if len(tags) == maxPersonaTags {
			break
		}
		for _, host := range rule.hosts {
			if strings.Contains(hostList, host) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}

	topDomain := "N/A"
	if domains := a.topDomains(records, 1); len(domains) > 0 {
		topDomain = domains[0].Name
	}

	topTopic := "Generalist"
	if cloud := a.topKeywords(records, 1); len(cloud) > 0 {
		topTopic = cloud[0].Name
	}

	return models.Persona{
		Level:     level,
		Tags:      tags,
		TopDomain: topDomain,
		TopTopic:  topTopic,
	}
}
