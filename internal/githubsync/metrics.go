package githubsync

import "github.com/prometheus/client_golang/prometheus"

var (
	syncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "github_sync_runs_total", Help: "GitHub sync runs by outcome"},
		[]string{"outcome"},
	)
	syncProjects = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "github_sync_projects_total", Help: "Projects touched by GitHub sync"},
		[]string{"action"},
	)
)

func init() { prometheus.MustRegister(syncRuns, syncProjects) }
