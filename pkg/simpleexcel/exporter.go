package simpleexcel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

const (
	SectionDirectionHorizontal = "horizontal"
	SectionDirectionVertical   = "vertical"
)

// Formatter rewrites a cell value before it is written.
type Formatter func(v interface{}) interface{}

// DataExporter lays out sections of tabular data into an xlsx workbook.
// Sheets come from a YAML template, from AddSheet, or both; template sheets
// are rendered after programmatic ones.
type DataExporter struct {
	template   *ReportTemplate
	data       map[string]interface{}
	sheets     []*SheetBuilder
	formatters map[string]Formatter
}

// ReportTemplate is the YAML layout document.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig is one block of rows on a sheet.
type SectionConfig struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Data        interface{}    `yaml:"-"`
	Locked      bool           `yaml:"locked"`
	ShowHeader  bool           `yaml:"show_header"`
	Direction   string         `yaml:"direction"`
	Position    string         `yaml:"position"`
	TitleStyle  *StyleTemplate `yaml:"title_style"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig maps a struct field or map key to a column.
type ColumnConfig struct {
	FieldName     string    `yaml:"field_name"`
	Header        string    `yaml:"header"`
	Width         float64   `yaml:"width"`
	FormatterName string    `yaml:"formatter"`
	Formatter     Formatter `yaml:"-"`
}

type StyleTemplate struct {
	Font   *FontTemplate `yaml:"font"`
	Fill   *FillTemplate `yaml:"fill"`
	Locked *bool         `yaml:"locked"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"`
}

type FillTemplate struct {
	Color string `yaml:"color"`
}

func NewDataExporter() *DataExporter {
	return &DataExporter{
		data:       make(map[string]interface{}),
		formatters: make(map[string]Formatter),
	}
}

// NewDataExporterFromYamlConfig parses an inline YAML layout.
func NewDataExporterFromYamlConfig(config string) (*DataExporter, error) {
	return decodeTemplate(strings.NewReader(config))
}

func NewDataExporterFromYamlFile(path string) (*DataExporter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read yaml file: %w", err)
	}
	return NewDataExporterFromYamlConfig(string(b))
}

func decodeTemplate(r io.Reader) (*DataExporter, error) {
	var tmpl ReportTemplate
	if err := yaml.NewDecoder(r).Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	e := NewDataExporter()
	e.template = &tmpl
	return e, nil
}

// Template exposes the parsed YAML layout, nil for programmatic exporters.
func (e *DataExporter) Template() *ReportTemplate {
	return e.template
}

// AddSheet starts a new programmatic sheet.
func (e *DataExporter) AddSheet(name string) *SheetBuilder {
	sb := &SheetBuilder{exporter: e, name: name}
	e.sheets = append(e.sheets, sb)
	return sb
}

// GetSheet returns the programmatic sheet with the given name, or nil.
func (e *DataExporter) GetSheet(name string) *SheetBuilder {
	for _, sb := range e.sheets {
		if sb.name == name {
			return sb
		}
	}
	return nil
}

// BindSectionData binds rows to a template section ID.
func (e *DataExporter) BindSectionData(id string, data interface{}) *DataExporter {
	e.data[id] = data
	return e
}

// RegisterFormatter makes fn available to columns by name.
func (e *DataExporter) RegisterFormatter(name string, fn Formatter) *DataExporter {
	e.formatters[name] = fn
	return e
}

// BuildExcel renders every sheet into a new workbook. The caller closes it.
func (e *DataExporter) BuildExcel() (*excelize.File, error) {
	f := excelize.NewFile()
	first := true
	addSheet := func(name string) error {
		if first {
			first = false
			return f.SetSheetName("Sheet1", name)
		}
		if idx, _ := f.GetSheetIndex(name); idx != -1 {
			return nil
		}
		_, err := f.NewSheet(name)
		return err
	}

	for _, sb := range e.sheets {
		if err := addSheet(sb.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("add sheet %s: %w", sb.name, err)
		}
		if err := e.renderSections(f, sb.name, sb.sections); err != nil {
			f.Close()
			return nil, err
		}
	}

	if e.template != nil {
		for _, st := range e.template.Sheets {
			if err := addSheet(st.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("add sheet %s: %w", st.Name, err)
			}
			sections := make([]*SectionConfig, len(st.Sections))
			for j := range st.Sections {
				sec := st.Sections[j]
				if data, ok := e.data[sec.ID]; ok {
					sec.Data = data
				}
				sections[j] = &sec
			}
			if err := e.renderSections(f, st.Name, sections); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	return f, nil
}

// ExportToExcel writes the workbook to path.
func (e *DataExporter) ExportToExcel(path string) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// ToBytes renders the workbook in memory.
func (e *DataExporter) ToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.ToWriter(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *DataExporter) ToWriter(w io.Writer) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

type SheetBuilder struct {
	exporter *DataExporter
	name     string
	sections []*SectionConfig
}

func (sb *SheetBuilder) AddSection(config *SectionConfig) *SheetBuilder {
	sb.sections = append(sb.sections, config)
	return sb
}

func (sb *SheetBuilder) Build() *DataExporter {
	return sb.exporter
}

func (e *DataExporter) renderSections(f *excelize.File, sheet string, sections []*SectionConfig) error {
	// next free row for vertical sections, next free column for horizontal ones
	maxRow := 1
	nextCol := 1
	protect := false

	for _, sec := range sections {
		if sec.Locked {
			protect = true
		}

		startCol, startRow := 1, maxRow
		if sec.Direction == SectionDirectionHorizontal {
			startCol, startRow = nextCol, 1
		}
		if sec.Position != "" {
			c, r, err := excelize.CellNameToCoordinates(sec.Position)
			if err != nil {
				return fmt.Errorf("section %q position: %w", sec.ID, err)
			}
			startCol, startRow = c, r
		}

		styles := &styleCache{f: f, locked: sec.Locked}
		row := startRow

		if sec.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(startCol, row)
			if err := f.SetCellValue(sheet, cell, sec.Title); err != nil {
				return err
			}
			id, err := styles.get(sec.TitleStyle)
			if err != nil {
				return err
			}
			end := cell
			if len(sec.Columns) > 1 {
				end, _ = excelize.CoordinatesToCellName(startCol+len(sec.Columns)-1, row)
				if err := f.MergeCell(sheet, cell, end); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sheet, cell, end, id); err != nil {
				return err
			}
			row++
		}

		if sec.ShowHeader {
			id, err := styles.get(sec.HeaderStyle)
			if err != nil {
				return err
			}
			for i, col := range sec.Columns {
				cell, _ := excelize.CoordinatesToCellName(startCol+i, row)
				if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
					return err
				}
				if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
					return err
				}
				if col.Width > 0 {
					name, _ := excelize.ColumnNumberToName(startCol + i)
					if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
						return err
					}
				}
			}
			row++
		}

		dataID, err := styles.get(nil)
		if err != nil {
			return err
		}
		items := reflect.ValueOf(sec.Data)
		if items.Kind() == reflect.Slice {
			for i := 0; i < items.Len(); i++ {
				item := items.Index(i)
				for j, col := range sec.Columns {
					cell, _ := excelize.CoordinatesToCellName(startCol+j, row)
					v := e.format(col, extractValue(item, col.FieldName))
					if err := f.SetCellValue(sheet, cell, v); err != nil {
						return err
					}
					if err := f.SetCellStyle(sheet, cell, cell, dataID); err != nil {
						return err
					}
				}
				row++
			}
		}

		if sec.Direction == SectionDirectionHorizontal {
			nextCol = startCol + len(sec.Columns) + 1
			if row > maxRow {
				maxRow = row
			}
		} else if row+1 > maxRow {
			maxRow = row + 1
		}
	}

	// Locked only takes effect on a protected sheet.
	if protect {
		return f.ProtectSheet(sheet, &excelize.SheetProtectionOptions{
			SelectLockedCells:   true,
			SelectUnlockedCells: true,
		})
	}
	return nil
}

func (e *DataExporter) format(col ColumnConfig, v interface{}) interface{} {
	if col.Formatter != nil {
		return col.Formatter(v)
	}
	if col.FormatterName != "" {
		if fn, ok := e.formatters[col.FormatterName]; ok {
			return fn(v)
		}
	}
	return v
}

// extractValue reads a struct field or a string-keyed map entry.
func extractValue(item reflect.Value, fieldName string) interface{} {
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return ""
		}
		item = item.Elem()
	}
	switch item.Kind() {
	case reflect.Struct:
		if f := item.FieldByName(fieldName); f.IsValid() && f.CanInterface() {
			return f.Interface()
		}
	case reflect.Map:
		if item.Type().Key().Kind() == reflect.String {
			if v := item.MapIndex(reflect.ValueOf(fieldName).Convert(item.Type().Key())); v.IsValid() {
				return v.Interface()
			}
		}
	}
	return ""
}

// styleCache registers each style template once per section.
type styleCache struct {
	f      *excelize.File
	locked bool
	ids    map[*StyleTemplate]int
}

func (c *styleCache) get(tmpl *StyleTemplate) (int, error) {
	if id, ok := c.ids[tmpl]; ok {
		return id, nil
	}
	id, err := createStyle(c.f, tmpl, c.locked)
	if err != nil {
		return 0, err
	}
	if c.ids == nil {
		c.ids = make(map[*StyleTemplate]int)
	}
	c.ids[tmpl] = id
	return id, nil
}

func createStyle(f *excelize.File, tmpl *StyleTemplate, locked bool) (int, error) {
	style := &excelize.Style{Protection: &excelize.Protection{Locked: locked}}
	if tmpl == nil {
		return f.NewStyle(style)
	}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	if tmpl.Locked != nil {
		style.Protection.Locked = *tmpl.Locked
	}
	return f.NewStyle(style)
}
