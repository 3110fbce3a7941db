package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"shelfscan/internal/analysis"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
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
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

var itemTableHeaders = []string{"#", "Title", "Category", "Location", "Qty", "Est. Price", "Conf"}

var itemTableAligns = []columnAlignment{
	alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight,
}

func buildItemRows(items []analysis.ItemDetails) [][]string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.Title,
			item.Category,
			item.Location,
			strconv.Itoa(item.Quantity),
			item.EstimatedPrice,
			fmt.Sprintf("%.2f", item.Confidence),
		})
	}
	return rows
}

func renderItemsTable(items []analysis.ItemDetails) string {
	return renderTable(itemTableHeaders, buildItemRows(items), itemTableAligns)
}

func summarizeResponse(response analysis.MultiItemAnalysisResponse) string {
	noun := "items"
	if response.DetectedCount == 1 {
		noun = "item"
	}
	return fmt.Sprintf("Detected %d %s (confidence %.2f)", response.DetectedCount, noun, response.Confidence)
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
