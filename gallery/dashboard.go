package gallery

import (
	"sort"
	"time"

	"github.com/siyuanink/siteweb/apiclient"
)

// MaxRecentRepos is the number of recently pushed repositories shown.
const MaxRecentRepos = 6

// LanguageCount is one bar of the language histogram.
type LanguageCount struct {
	Language string
	Repos    int
	Percent  float64
}

// Dashboard is the projects page summary of a GitHub snapshot.
type Dashboard struct {
	User         apiclient.GitHubUser
	RepoCount    int
	TotalStars   int
	TotalForks   int
	TotalCommits int
	Recent       []apiclient.Repo
	Languages    []LanguageCount
	LastSync     string
}

// BuildDashboard summarizes d. Recent repos are ordered by last push,
// newest first, and capped at MaxRecentRepos.
func BuildDashboard(d apiclient.GitHubData) Dashboard {
	dash := Dashboard{
		User:         d.User,
		RepoCount:    len(d.Repos),
		TotalCommits: d.TotalCommits,
		LastSync:     d.LastSyncTime,
	}
	for _, r := range d.Repos {
		dash.TotalStars += r.Stars
		dash.TotalForks += r.Forks
	}
	dash.Recent = RecentRepos(d.Repos, MaxRecentRepos)
	dash.Languages = Languages(d.Repos)
	return dash
}

// RecentRepos returns up to limit repos ordered by pushed_at descending.
func RecentRepos(repos []apiclient.Repo, limit int) []apiclient.Repo {
	out := make([]apiclient.Repo, len(repos))
	copy(out, repos)
	sort.SliceStable(out, func(i, j int) bool {
		return pushedAt(out[i]).After(pushedAt(out[j]))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func pushedAt(r apiclient.Repo) time.Time {
	t, err := time.Parse(time.RFC3339, r.PushedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Languages counts repositories per primary language, most used first.
// Repos without a language are left out.
func Languages(repos []apiclient.Repo) []LanguageCount {
	counts := map[string]int{}
	total := 0
	for _, r := range repos {
		if r.Language == "" {
			continue
		}
		counts[r.Language]++
		total++
	}
	out := make([]LanguageCount, 0, len(counts))
	for lang, n := range counts {
		out = append(out, LanguageCount{
			Language: lang,
			Repos:    n,
			Percent:  float64(n) * 100 / float64(total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Repos != out[j].Repos {
			return out[i].Repos > out[j].Repos
		}
		return out[i].Language < out[j].Language
	})
	return out
}
