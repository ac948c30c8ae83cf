// Package inspect implements the container inspection command. It opens one
// or more .page files and reports their metadata and record inventory without
// starting a server.
package inspect

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/pageserve/internal/archive"
	"github.com/jonesrussell/pageserve/internal/logger"
)

// maxSampleRecords bounds how many record URLs are listed per container.
const maxSampleRecords = 3

// Command returns the inspect command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <container.page> [more...]",
		Short: "Show the contents of .page container files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args)
		},
	}
}

// run inspects each named container. A container that fails to open is
// reported and skipped; the command fails only if every file was unreadable.
func run(paths []string) error {
	reader := archive.NewReader(logger.NewNoOp())

	var inspected int
	for _, path := range paths {
		container, err := reader.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}
		render(container)
		inspected++
	}

	if inspected == 0 {
		return fmt.Errorf("no readable containers among %d file(s)", len(paths))
	}
	return nil
}

// render prints one container's summary and record samples.
func render(container *archive.Container) {
	meta := container.Metadata

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetTitle(container.Path)

	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"Main URL", meta.MainURL})
	t.AppendRow(table.Row{"Captured", formatTimestamp(meta.Timestamp)})
	t.AppendRow(table.Row{"Pages", fmt.Sprintf("%d loaded / %d recorded", len(container.Pages), meta.Pages)})
	t.AppendRow(table.Row{"Assets", fmt.Sprintf("%d loaded / %d recorded", len(container.Assets), meta.Assets)})
	t.AppendRow(table.Row{"Total size", fmt.Sprintf("%d bytes", meta.TotalSize)})
	t.AppendRow(table.Row{"Failed URLs", len(meta.FailedURLs)})
	t.Render()

	renderSamples("pages", container.PageURLs())
	renderSamples("assets", container.AssetURLs())
}

// renderSamples prints the first few record URLs of one kind.
func renderSamples(kind string, urls []string) {
	if len(urls) == 0 {
		return
	}
	fmt.Printf("  first %s:\n", kind)
	for i, u := range urls {
		if i == maxSampleRecords {
			fmt.Printf("    ... and %d more\n", len(urls)-maxSampleRecords)
			break
		}
		fmt.Printf("    %s\n", u)
	}
}

// formatTimestamp renders the capture timestamp, tolerating a missing value.
func formatTimestamp(ts float64) string {
	if ts == 0 {
		return "unknown"
	}
	return time.Unix(int64(ts), 0).UTC().Format(time.RFC3339)
}
