package analysis

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/zombar/bookminer/models"
)

func TestTimeline(t *testing.T) {
	a := New(DefaultConfig())

	records := []models.Bookmark{
		{Title: "a", Timestamp: "2023-11-14 10:30:00"},
		{Title: "b", Timestamp: "2023-11-20 22:00:00"},
		{Title: "c", Timestamp: "2024-01-02 08:15:00"},
		{Title: "d", Timestamp: ""},
		{Title: "e", Timestamp: "garbage"},
	}

	timeline := a.Timeline(records)

	expected := map[string]int{
		"2023-11": 2,
		"2024-01": 1,
	}
	if !reflect.DeepEqual(timeline, expected) {
		t.Errorf("Timeline = %v, expected %v", timeline, expected)
	}
}

func TestActivityHours(t *testing.T) {
	a := New(DefaultConfig())

	records := []models.Bookmark{
		{Timestamp: "2024-01-05 09:00:00"},
		{Timestamp: "2024-02-06 09:59:59"},
		{Timestamp: "2024-03-07 23:10:00"},
		{Timestamp: ""},
	}

	hours := a.ActivityHours(records)

	expected := map[string]int{
		"09": 2,
		"23": 1,
	}
	if !reflect.DeepEqual(hours, expected) {
		t.Errorf("ActivityHours = %v, expected %v", hours, expected)
	}
}

func TestDomainsMergeWWW(t *testing.T) {
	a := New(DefaultConfig())

	records := []models.Bookmark{
		{URL: "http://www.example.com/a"},
		{URL: "http://example.com/b"},
		{URL: "https://other.org/c"},
		{URL: "://not a url"},
	}

	domains := a.Domains(records)

	if len(domains) != 2 {
		t.Fatalf("Expected 2 domains, got %v", domains)
	}
	if domains[0].Name != "example.com" || domains[0].Value != 2 {
		t.Errorf("Top domain = %+v, expected example.com with count 2", domains[0])
	}
	if domains[1].Name != "other.org" || domains[1].Value != 1 {
		t.Errorf("Second domain = %+v, expected other.org with count 1", domains[1])
	}
}

func TestDomainsTopN(t *testing.T) {
	a := New(Config{TopDomains: 2})

	records := []models.Bookmark{
		{URL: "https://a.example/1"},
		{URL: "https://a.example/2"},
		{URL: "https://b.example/1"},
		{URL: "https://c.example/1"},
	}

	domains := a.Domains(records)
	if len(domains) != 2 {
		t.Fatalf("Expected ranking truncated to 2, got %d", len(domains))
	}
	if domains[0].Name != "a.example" {
		t.Errorf("Top domain = %q, expected a.example", domains[0].Name)
	}
}

func TestKeywordCloudIncludesTags(t *testing.T) {
	a := New(DefaultConfig())

	records := []models.Bookmark{
		{Title: "golang profiling", Tags: []string{"golang", "performance"}},
		{Title: "memory management", Tags: []string{}},
	}

	cloud := a.KeywordCloud(records)
	counts := map[string]int{}
	for _, nc := range cloud {
		counts[nc.Name] = nc.Value
	}

	if counts["golang"] != 2 {
		t.Errorf("golang count = %d, expected 2 (title plus tag)", counts["golang"])
	}
	if counts["performance"] != 1 {
		t.Errorf("performance count = %d, expected 1", counts["performance"])
	}
}

func TestThemeRiverDenseGrid(t *testing.T) {
	a := New(DefaultConfig())

	records := []models.Bookmark{
		{Title: "golang tips", Timestamp: "2024-01-05 10:00:00"},
		{Title: "golang tricks", Timestamp: "2024-01-15 11:00:00"},
		{Title: "pasta recipe", Timestamp: "2024-02-01 12:00:00"},
	}

	river := a.ThemeRiver(records)

	// 2 months x 5 themes, zero cells included
	if len(river) != 10 {
		t.Fatalf("Expected dense 2x5 grid (10 points), got %d", len(river))
	}

	byCell := map[string]int{}
	for _, p := range river {
		byCell[p.Date+"|"+p.Name] = p.Value
	}

	checks := map[string]int{
		"2024-01|golang": 2,
		"2024-01|pasta":  0,
		"2024-02|pasta":  1,
		"2024-02|golang": 0,
		"2024-02|recipe": 1,
	}
	for cell, want := range checks {
		if byCell[cell] != want {
			t.Errorf("River cell %s = %d, expected %d", cell, byCell[cell], want)
		}
	}

	// months ascending within the series
	if river[0].Date != "2024-01" || river[len(river)-1].Date != "2024-02" {
		t.Errorf("River months out of order: first %s, last %s", river[0].Date, river[len(river)-1].Date)
	}
}

func TestSkillRadar(t *testing.T) {
	a := New(DefaultConfig())

	records := []models.Bookmark{
		{Title: "Concurrency patterns", URL: "https://github.com/a"},
		{Title: "Testing tricks", URL: "https://github.com/b"},
		{Title: "Neural networks", URL: "https://arxiv.org/abs/1"},
	}

	radar := a.SkillRadar(records)
	if len(radar) != 6 {
		t.Fatalf("Expected 6 dimensions, got %d", len(radar))
	}

	scores := map[string]int{}
	for _, d := range radar {
		scores[d.Name] = d.Value
	}
	if scores["Coding"] != 2 {
		t.Errorf("Coding score = %d, expected 2", scores["Coding"])
	}
	if scores["AI/ML"] != 1 {
		t.Errorf("AI/ML score = %d, expected 1", scores["AI/ML"])
	}

	// one shared ceiling across every axis: global max plus headroom
	for _, d := range radar {
		if d.Max != 2+radarHeadroom {
			t.Errorf("Dimension %s ceiling = %d, expected %d", d.Name, d.Max, 2+radarHeadroom)
		}
	}
}

func TestSkillRadarNoMatches(t *testing.T) {
	a := New(DefaultConfig())

	radar := a.SkillRadar([]models.Bookmark{{Title: "zzz", URL: "https://zzz.example"}})
	for _, d := range radar {
		if d.Value != 0 {
			t.Errorf("Dimension %s score = %d, expected 0", d.Name, d.Value)
		}
		if d.Max != 1+radarHeadroom {
			t.Errorf("Dimension %s ceiling = %d, expected %d", d.Name, d.Max, 1+radarHeadroom)
		}
	}
}

func TestPersonaTiers(t *testing.T) {
	a := New(DefaultConfig())

	tests := []struct {
		count    int
		expected string
	}{
		{0, "Lv.0 Newcomer"},
		{99, "Lv.1 Explorer"},
		{100, "Lv.2 Collector"},
		{999, "Lv.3 Knowledge Hoarder"},
		{1000, "Lv.4 Librarian"},
		{5000, "Lv.5 Cyber Sage"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("count_%d", tt.count), func(t *testing.T) {
			records := make([]models.Bookmark, tt.count)
			for i := range records {
				records[i] = models.Bookmark{
					Title: fmt.Sprintf("item %d", i),
					URL:   fmt.Sprintf("https://site%d.example/page", i),
				}
			}

			persona := a.Persona(records)
			if persona.Level != tt.expected {
				t.Errorf("Persona level for %d records = %q, expected %q", tt.count, persona.Level, tt.expected)
			}
		})
	}
}

func TestPersonaTagsCapped(t *testing.T) {
	a := New(DefaultConfig())

	records := []models.Bookmark{
		{Title: "repo", URL: "https://github.com/x"},
		{Title: "video", URL: "https://youtube.com/watch"},
		{Title: "paper", URL: "https://arxiv.org/abs/1"},
		{Title: "answer", URL: "https://zhihu.com/question/1"},
	}

	persona := a.Persona(records)

	expected := []string{"Open Source Geek", "Audiovisual Learner", "Academic Researcher"}
	if !reflect.DeepEqual(persona.Tags, expected) {
		t.Errorf("Persona tags = %v, expected %v", persona.Tags, expected)
	}
}

func TestPersonaTopFields(t *testing.T) {
	a := New(DefaultConfig())

	records := []models.Bookmark{
		{Title: "kubernetes networking", URL: "https://blog.example/1"},
		{Title: "kubernetes storage", URL: "https://blog.example/2"},
		{Title: "gardening basics", URL: "https://other.example/1"},
	}

	persona := a.Persona(records)

	if persona.TopDomain != "blog.example" {
		t.Errorf("TopDomain = %q, expected blog.example", persona.TopDomain)
	}
	if persona.TopTopic != "kubernetes" {
		t.Errorf("TopTopic = %q, expected kubernetes", persona.TopTopic)
	}
}

func TestAnalyzeBundlesEverything(t *testing.T) {
	a := New(DefaultConfig())
	records := twoTopicRecords()

	result := a.Analyze(records, 2)

	if len(result.Clusters) == 0 {
		t.Error("Expected clusters in bundled result")
	}
	if len(result.SkillRadar) != 6 {
		t.Errorf("Expected 6 radar dimensions, got %d", len(result.SkillRadar))
	}
	if result.Persona.Level == "" {
		t.Error("Expected persona level to be populated")
	}
	if len(result.KeywordCloud) == 0 {
		t.Error("Expected keyword cloud entries")
	}
}
