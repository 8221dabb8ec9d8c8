package handler

import (
	"github.com/locvowork/company_dashboard/internal/domain"
)

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status     string `json:"status"`
	DataSource string `json:"data_source"`
}

// SectionSummary lists a section without its metrics.
type SectionSummary struct {
	Key    domain.SectionKey `json:"key"`
	Title  string            `json:"title"`
	Charts []string          `json:"charts"`
}

func summarize(report *domain.Report) []SectionSummary {
	out := make([]SectionSummary, len(report.Sections))
	for i, sec := range report.Sections {
		charts := make([]string, len(sec.Charts))
		for j, c := range sec.Charts {
			charts[j] = c.ID
		}
		out[i] = SectionSummary{Key: sec.Key, Title: sec.Title, Charts: charts}
	}
	return out
}

// metricGroup is a titled card of metrics on the dashboard page.
type metricGroup struct {
	Title   string
	Metrics []domain.Metric
}

// chartView carries a chart to the page as Chart.js data.
type chartView struct {
	ID     string
	Title  string
	Kind   domain.ChartKind
	Labels []string
	Values []float64
	PNG    string
}

type sectionView struct {
	Key    domain.SectionKey
	Title  string
	Groups []metricGroup
	Charts []chartView
}

type dashboardView struct {
	Title    string
	AsOf     string
	Sections []sectionView
}

func newDashboardView(report *domain.Report) dashboardView {
	view := dashboardView{Title: report.Title, AsOf: report.AsOf}
	for _, sec := range report.Sections {
		sv := sectionView{Key: sec.Key, Title: sec.Title}
		index := make(map[string]int)
		for _, m := range sec.Metrics {
			i, ok := index[m.Group]
			if !ok {
				i = len(sv.Groups)
				index[m.Group] = i
				sv.Groups = append(sv.Groups, metricGroup{Title: m.Group})
			}
			sv.Groups[i].Metrics = append(sv.Groups[i].Metrics, m)
		}
		for _, c := range sec.Charts {
			cv := chartView{ID: c.ID, Title: c.Title, Kind: c.Kind, PNG: "/charts/" + string(sec.Key) + "/" + c.ID}
			for _, p := range c.Points {
				cv.Labels = append(cv.Labels, p.X)
				cv.Values = append(cv.Values, p.Y.InexactFloat64())
			}
			sv.Charts = append(sv.Charts, cv)
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}
