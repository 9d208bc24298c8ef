package commands

import (
	"os"

	"bgg-pipeline/internal/load"
	"bgg-pipeline/internal/transform"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func printTransformResult(result transform.Result) {
	t := newTable()
	t.SetTitle("transform: %d files, %d items, %d skipped", result.Files, result.Items, result.Skipped)
	t.AppendHeader(table.Row{"Table", "File", "Rows"})
	for _, summary := range result.Tables {
		t.AppendRow(table.Row{summary.Table, summary.Table.Spec().FileName(), summary.Rows})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	t.Render()
}

func printLoadResult(results []load.TableResult, games int64) {
	t := newTable()
	t.SetTitle("load")
	t.AppendHeader(table.Row{"Table", "Rows"})
	for _, r := range results {
		if r.Skipped {
			t.AppendRow(table.Row{r.Table, "skipped"})
			continue
		}
		t.AppendRow(table.Row{r.Table, r.Rows})
	}
	t.AppendFooter(table.Row{"games in database", games})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
}

func printFiles(title string, files []string) {
	t := newTable()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "File"})
	for i, f := range files {
		t.AppendRow(table.Row{i, f})
	}
	t.Render()
}
