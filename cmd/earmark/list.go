package main

import (
	"fmt"
	"go/token"
	"io"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/toyz/earmark/internal/cli"
	"github.com/toyz/earmark/internal/models"
	"github.com/toyz/earmark/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list [directories]",
	Short: "List discovered markers and marked types",
	Long: `List scans the given directories and prints every marker interface
declaration and every marked type it finds, without validating marker
structure or generating anything.`,
	Example: `  earmark list
  earmark list ./internal/...`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := resolveConfig(cmd, args)
		if err != nil {
			reportCommandError(cmd, err)
			return err
		}

		driver := cli.NewDriverWithOutput(config, cmd.OutOrStdout(), cmd.ErrOrStderr())

		packages, err := driver.Discover(cmd.Context())
		if err != nil {
			driver.Reporter().ReportError(err)
			return err
		}

		renderMarkerTable(cmd.OutOrStdout(), packages, indexMarkers(packages))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// indexMarkers builds a marker index over the discovered packages.
// Listing does not validate, so registration conflicts are dropped here
// and the duplicate declarations still show up as separate rows.
func indexMarkers(packages []*models.PackageMetadata) registry.MarkerRegistry {
	markers := registry.NewMarkerRegistry()
	for _, metadata := range packages {
		_ = markers.RegisterPackage(metadata)
	}
	return markers
}

// markUsage counts how many marked types list each registered marker.
// Unqualified references resolve to the marking type's own package,
// qualified ones to the named package. References to markers outside
// the scanned directories resolve nowhere and are not counted.
func markUsage(packages []*models.PackageMetadata, markers registry.MarkerRegistry) map[string]int {
	counts := make(map[string]int)
	for _, metadata := range packages {
		for i := range metadata.Types {
			for _, ref := range metadata.Types[i].Markers.Refs {
				pkg := ref.Package
				if !ref.Qualified() {
					pkg = metadata.PackageName
				}
				if decl, found := markers.Lookup(pkg, ref.Name); found {
					counts[decl.QualifiedName()]++
				}
			}
		}
	}
	return counts
}

// renderMarkerTable prints discovered markers and marked types grouped
// by package, in scan order.
func renderMarkerTable(out io.Writer, packages []*models.PackageMetadata, markers registry.MarkerRegistry) {
	usage := markUsage(packages, markers)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Package", "Kind", "Name", "Details", "Declared At"})

	rows := 0
	for _, metadata := range packages {
		label := packageLabel(metadata)
		for _, marker := range metadata.Markers {
			t.AppendRow(table.Row{
				label, "marker", marker.Name,
				markerDetails(marker, usage[marker.QualifiedName()]), declaredAt(marker.Position),
			})
			rows++
		}
		for i := range metadata.Types {
			decl := &metadata.Types[i]
			t.AppendRow(table.Row{
				label, "type", decl.Name,
				typeDetails(decl), declaredAt(decl.Position),
			})
			rows++
		}
	}

	if rows == 0 {
		fmt.Fprintln(out, "no markers or marked types found")
		return
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
}

// packageLabel prefers the resolved import path over the bare package
// name, which disambiguates same-named packages in different trees.
func packageLabel(metadata *models.PackageMetadata) string {
	if metadata.ImportPath != "" {
		return metadata.ImportPath
	}
	return metadata.PackageName
}

// markerDetails summarizes one marker declaration for the table.
func markerDetails(marker models.MarkerDecl, uses int) string {
	var parts []string
	if marker.HasTagMethod {
		parts = append(parts, "declares tag method")
	}
	if len(marker.Embedded) > 0 {
		names := make([]string, len(marker.Embedded))
		for i, ref := range marker.Embedded {
			names[i] = ref.String()
		}
		parts = append(parts, "embeds "+strings.Join(names, ", "))
	}
	if uses > 0 {
		parts = append(parts, fmt.Sprintf("applied to %d type(s)", uses))
	}
	return strings.Join(parts, "; ")
}

// typeDetails summarizes one marked declaration for the table.
func typeDetails(decl *models.TypeDecl) string {
	if decl.Markers.IsEmpty() {
		return "empty mark list"
	}
	names := make([]string, 0, decl.Markers.Len())
	for _, ref := range decl.Markers.Refs {
		names = append(names, ref.String())
	}
	return "marks " + strings.Join(names, ", ")
}

// declaredAt renders a position as file:line using the base name only,
// which keeps the table narrow.
func declaredAt(pos token.Position) string {
	if pos.Filename == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(pos.Filename), pos.Line)
}
