package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"rsvpd/internal/jobs"
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

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderRows(cmd *cobra.Command, headers []string, rows [][]string, aligns []columnAlignment) {
	out := cmd.OutOrStdout()
	if stdoutIsTerminal() {
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
		return
	}
	for _, row := range rows {
		fmt.Fprintln(out, strings.Join(row, "\t"))
	}
}

func jobSummaryRow(job *jobs.Job) []string {
	return []string{
		job.ID,
		string(job.Status),
		job.Filename,
		fmt.Sprintf("%.0f%%", job.ProgressPercent),
		job.CurrentStep,
		job.CreatedAt.Local().Format("2006-01-02 15:04:05"),
	}
}

func printJob(cmd *cobra.Command, job *jobs.Job) {
	rows := [][]string{
		{"id", job.ID},
		{"status", string(job.Status)},
		{"filename", job.Filename},
		{"progress", fmt.Sprintf("%.0f%% (%s)", job.ProgressPercent, job.CurrentStep)},
		{"words", fmt.Sprintf("%d/%d", job.ProcessedWords, job.TotalWords)},
		{"created", job.CreatedAt.Local().Format("2006-01-02 15:04:05")},
	}
	if job.StartedAt != nil {
		rows = append(rows, []string{"started", job.StartedAt.Local().Format("2006-01-02 15:04:05")})
	}
	if job.CompletedAt != nil {
		rows = append(rows, []string{"completed", job.CompletedAt.Local().Format("2006-01-02 15:04:05")})
	}
	if job.VideoDurationSeconds != nil {
		rows = append(rows, []string{"video duration", fmt.Sprintf("%.1fs", *job.VideoDurationSeconds)})
	}
	if len(job.OutputFiles) > 0 {
		rows = append(rows, []string{"outputs", strings.Join(job.OutputFiles, ", ")})
	}
	if job.ErrorMessage != "" {
		rows = append(rows, []string{"error", job.ErrorMessage})
	}
	renderRows(cmd, []string{"Field", "Value"}, rows, nil)
}
