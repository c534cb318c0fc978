package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"mihonorg/internal/organizer"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, footer []string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	style := table.StyleRounded
	style.Format.Footer = text.FormatDefault
	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(toRow(headers, columns))
	for _, row := range rows {
		tw.AppendRow(toRow(row, columns))
	}
	if len(footer) > 0 {
		tw.AppendFooter(toRow(footer, columns))
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			AlignFooter: align,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func toRow(values []string, columns int) table.Row {
	row := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		if i < len(values) {
			row[i] = values[i]
		} else {
			row[i] = ""
		}
	}
	return row
}

func renderSummary(report *organizer.Report) string {
	if report == nil || len(report.Collections) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(report.Collections))
	for _, c := range report.Collections {
		result := "organized"
		if c.Skipped != "" {
			result = "skipped: " + string(c.Skipped)
		} else if report.DryRun {
			result = "planned"
		}
		rows = append(rows, []string{
			c.Title,
			result,
			strconv.Itoa(c.Images),
			strconv.Itoa(len(c.Chapters)),
			strconv.Itoa(c.Placed()),
			strconv.Itoa(len(c.Failures)),
		})
	}
	t := report.Totals
	footer := []string{
		fmt.Sprintf("%d titles", t.Collections),
		fmt.Sprintf("%d organized, %d skipped", t.Organized, t.Skipped),
		strconv.Itoa(t.Images),
		strconv.Itoa(t.Chapters),
		strconv.Itoa(t.Placed),
		strconv.Itoa(t.Failures),
	}
	return renderTable(
		[]string{"Title", "Result", "Images", "Chapters", "Placed", "Failed"},
		rows,
		footer,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}
