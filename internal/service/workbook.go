package service

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/pkg/simpleexcel"
)

// WorkbookContentType is the MIME type of an exported report workbook.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type metricRow struct {
	Group string
	Label string
	Value string
}

type chartRow struct {
	Label string
	Value float64
}

var (
	titleStyle = &simpleexcel.StyleTemplate{
		Font: &simpleexcel.FontTemplate{Bold: true, Color: "#FFFFFF"},
		Fill: &simpleexcel.FillTemplate{Color: "#2F5597"},
	}
	headerStyle = &simpleexcel.StyleTemplate{
		Font: &simpleexcel.FontTemplate{Bold: true},
		Fill: &simpleexcel.FillTemplate{Color: "#D9E1F2"},
	}
)

// AmountFormatter is the column formatter name that rounds chart values to
// two decimals.
const AmountFormatter = "amount"

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// MetricsSectionID, MetricGroupSectionID and ChartSectionID name the data a
// YAML layout can bind. MetricsSectionID holds every metric of the section.
func MetricsSectionID(key domain.SectionKey) string { return string(key) + "_metrics" }

func MetricGroupSectionID(key domain.SectionKey, group string) string {
	slug := strings.Trim(nonWord.ReplaceAllString(strings.ToLower(group), "_"), "_")
	return MetricsSectionID(key) + "_" + slug
}

func ChartSectionID(key domain.SectionKey, chartID string) string {
	return string(key) + "_" + chartID
}

type metricBlock struct {
	id    string
	title string
	rows  []metricRow
}

// metricBlocks splits the section's metrics by group in first-seen order.
func metricBlocks(sec domain.Section) []metricBlock {
	var blocks []metricBlock
	index := make(map[string]int)
	for _, m := range sec.Metrics {
		i, seen := index[m.Group]
		if !seen {
			i = len(blocks)
			index[m.Group] = i
			blocks = append(blocks, metricBlock{id: MetricGroupSectionID(sec.Key, m.Group), title: m.Group})
		}
		blocks[i].rows = append(blocks[i].rows, metricRow{Group: m.Group, Label: m.Label, Value: m.Value})
	}
	return blocks
}

func roundAmount(v interface{}) interface{} {
	if x, ok := v.(float64); ok {
		return math.Round(x*100) / 100
	}
	return v
}

// NewWorkbookExporter lays the report out as one sheet per section. With a
// layout path the sheets come from that YAML file and the report is bound to
// its section IDs; otherwise a default layout is generated.
func NewWorkbookExporter(report *domain.Report, layoutPath string) (*simpleexcel.DataExporter, error) {
	if layoutPath != "" {
		exporter, err := simpleexcel.NewDataExporterFromYamlFile(layoutPath)
		if err != nil {
			return nil, fmt.Errorf("load report layout: %w", err)
		}
		exporter.RegisterFormatter(AmountFormatter, roundAmount)

		bound := make(map[string]bool)
		bind := func(id string, data interface{}) {
			exporter.BindSectionData(id, data)
			bound[id] = true
		}
		for _, sec := range report.Sections {
			bind(MetricsSectionID(sec.Key), metricRows(sec.Metrics))
			for _, b := range metricBlocks(sec) {
				bind(b.id, b.rows)
			}
			for _, c := range sec.Charts {
				bind(ChartSectionID(sec.Key, c.ID), chartRows(c))
			}
		}
		for _, st := range exporter.Template().Sheets {
			for _, sc := range st.Sections {
				if sc.ID != "" && !bound[sc.ID] {
					return nil, fmt.Errorf("report layout: section %q on sheet %q matches no report data", sc.ID, st.Name)
				}
			}
		}
		return exporter, nil
	}

	exporter := simpleexcel.NewDataExporter().RegisterFormatter(AmountFormatter, roundAmount)
	for _, sec := range report.Sections {
		sheet := exporter.AddSheet(sec.Title)
		for _, b := range metricBlocks(sec) {
			sheet.AddSection(&simpleexcel.SectionConfig{
				ID:          b.id,
				Title:       b.title,
				Locked:      true,
				ShowHeader:  true,
				TitleStyle:  titleStyle,
				HeaderStyle: headerStyle,
				Data:        b.rows,
				Columns: []simpleexcel.ColumnConfig{
					{FieldName: "Label", Header: "Metric", Width: 36},
					{FieldName: "Value", Header: "Value", Width: 20},
				},
			})
		}
		for _, c := range sec.Charts {
			sheet.AddSection(&simpleexcel.SectionConfig{
				ID:          ChartSectionID(sec.Key, c.ID),
				Title:       c.Title,
				Locked:      true,
				ShowHeader:  true,
				TitleStyle:  titleStyle,
				HeaderStyle: headerStyle,
				Data:        chartRows(c),
				Columns: []simpleexcel.ColumnConfig{
					{FieldName: "Label", Header: c.XLabel},
					{FieldName: "Value", Header: c.YLabel, FormatterName: AmountFormatter},
				},
			})
		}
	}
	return exporter, nil
}

// ExportWorkbook renders the report as xlsx bytes.
func ExportWorkbook(report *domain.Report, layoutPath string) ([]byte, error) {
	exporter, err := NewWorkbookExporter(report, layoutPath)
	if err != nil {
		return nil, err
	}
	return exporter.ToBytes()
}

func metricRows(metrics []domain.Metric) []metricRow {
	rows := make([]metricRow, len(metrics))
	for i, m := range metrics {
		rows[i] = metricRow{Group: m.Group, Label: m.Label, Value: m.Value}
	}
	return rows
}

func chartRows(c domain.Chart) []chartRow {
	rows := make([]chartRow, len(c.Points))
	for i, p := range c.Points {
		rows[i] = chartRow{Label: p.X, Value: p.Y.InexactFloat64()}
	}
	return rows
}
