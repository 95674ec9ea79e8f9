// Package analysis turns extracted bookmark records into topic clusters and
// derived descriptive statistics. Every operation is a stateless pure
// function of its input slice; nothing is cached between invocations.
package analysis

import (
	"sort"
	"strings"

	"github.com/zombar/bookminer/models"
	"github.com/zombar/bookminer/token"
)

// Config contains analyzer configuration
type Config struct {
	TopDomains  int // domain ranking size
	TopKeywords int // keyword cloud size
}

// DefaultConfig returns default analyzer configuration
func DefaultConfig() Config {
	return Config{
		TopDomains:  10,
		TopKeywords: 50,
	}
}

// Analyzer owns the clustering pipeline and the derived analytics. The
// cluster count is a per-call parameter, never a field, so concurrent
// invocations cannot race on a shared setting.
type Analyzer struct {
	config Config
}

// New creates a new Analyzer instance
func New(config Config) *Analyzer {
	defaults := DefaultConfig()
	if config.TopDomains <= 0 {
		config.TopDomains = defaults.TopDomains
	}
	if config.TopKeywords <= 0 {
		config.TopKeywords = defaults.TopKeywords
	}
	return &Analyzer{config: config}
}

// DefaultClusterCount implements the recommended volume-based policy
// k = clamp(count/10, 2, 8)
func DefaultClusterCount(count int) int {
	k := count / 10
	if k < 2 {
		k = 2
	}
	if k > 8 {
		k = 8
	}
	return k
}

// Analyze runs every analytic over one record sequence and bundles the result
func (a *Analyzer) Analyze(records []models.Bookmark, k int) models.AnalysisResult {
	return models.AnalysisResult{
		Persona:       a.Persona(records),
		SkillRadar:    a.SkillRadar(records),
		Timeline:      a.Timeline(records),
		Clusters:      a.Cluster(records, k),
		Domains:       a.Domains(records),
		ActivityHours: a.ActivityHours(records),
		KeywordCloud:  a.KeywordCloud(records),
		ThemeRiver:    a.ThemeRiver(records),
	}
}

const (
	// minTokensPerTitle excludes titles with too few distinctive terms to
	// place reliably in the vector space
	minTokensPerTitle = 2

	// samplesPerCluster is the minimum eligible-record multiple of k;
	// below 2k the partition degenerates into noise
	samplesPerCluster = 2

	previewMembers = 10
	labelKeywords  = 3
)

// Cluster groups records into at most k topic clusters over their tokenized
// titles. Returns an empty result for under-determined samples or an empty
// vocabulary instead of a degenerate partition.
func (a *Analyzer) Cluster(records []models.Bookmark, k int) []models.Cluster {
	clusters := []models.Cluster{}
	if k < 1 {
		return clusters
	}

	var corpus [][]string
	var eligible []models.Bookmark
	for _, b := range records {
		tokens := token.Tokenize(b.Title)
		if len(tokens) >= minTokensPerTitle {
			corpus = append(corpus, tokens)
			eligible = append(eligible, b)
		}
	}

	if len(corpus) < samplesPerCluster*k {
		return clusters
	}

	matrix, ok := vectorize(corpus)
	if !ok {
		return clusters
	}

	labels, centroids := kmeans(matrix.rows, k)

	members := make([][]models.Bookmark, k)
	for i, label := range labels {
		members[label] = append(members[label], eligible[i])
	}

	for id := 0; id < k; id++ {
		if len(members[id]) == 0 {
			continue
		}

		// the centroid's heaviest terms name the cluster
		keywords := topCentroidTerms(centroids[id], matrix.terms, labelKeywords)

		preview := members[id]
		if len(preview) > previewMembers {
			preview = preview[:previewMembers]
		}

		clusters = append(clusters, models.Cluster{
			ID:       id,
			Topic:    strings.ToUpper(strings.Join(keywords, " + ")),
			Size:     len(members[id]),
			Keywords: keywords,
			Members:  preview,
		})
	}

	// size descending; stable sort keeps id order on ties
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Size > clusters[j].Size
	})

	return clusters
}

// topCentroidTerms selects the n highest-weighted vocabulary terms of a centroid
func topCentroidTerms(centroid []float64, terms []string, n int) []string {
	idx := make([]int, len(centroid))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return centroid[idx[i]] > centroid[idx[j]]
	})
	if n > len(idx) {
		n = len(idx)
	}
	selected := make([]string, 0, n)
	for _, i := range idx[:n] {
		selected = append(selected, terms[i])
	}
	return selected
}
