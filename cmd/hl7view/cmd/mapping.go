package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
	"github.com/msto63/hl7view/foundation/utils/stringx"
	"github.com/msto63/hl7view/internal/hl7/export"
)

var mappingFormat string

var mappingCmd = &cobra.Command{
	Use:   "mapping <file>",
	Short: "Learn a mapping file and check it against the report",
	Long: `Learns a VMD mapping file and prints the bindings it found, followed
by lint findings: names the report never asks for (with the closest known
name) and paths that do not parse.

Examples:
  hl7view mapping site.vmd
  hl7view mapping --format yaml site.vmd`,
	Args: cobra.ExactArgs(1),
	RunE: runMapping,
}

func init() {
	rootCmd.AddCommand(mappingCmd)
	mappingCmd.Flags().StringVarP(&mappingFormat, "format", "f", "", "print the table as yaml or json")
}

func runMapping(cmd *cobra.Command, args []string) error {
	var format export.Format
	if mappingFormat != "" {
		f, err := export.ParseFormat(mappingFormat)
		if err != nil {
			return err
		}
		if f != export.FormatYAML && f != export.FormatJSON {
			return mdwerror.Newf("mapping tables print as yaml or json, not %s", f).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("cmd.mapping")
		}
		format = f
	}

	svc, _, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	fb, err := svc.LoadMappingFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, render(warningStyle, fb.Message))
		return err
	}
	fmt.Fprintln(os.Stderr, render(feedbackStyle, fb.Message))

	table := svc.Mapping()
	if format != "" {
		data, err := export.Mapping(table, format)
		if err != nil {
			return err
		}
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
	} else {
		entries := table.Entries()
		width := 0
		for _, e := range entries {
			width = max(width, len(e.Name))
		}
		for _, e := range entries {
			fmt.Printf("%4d  %s = %s\n", e.Line, render(segmentStyle, stringx.PadRight(e.Name, width, ' ')), e.Path)
		}
	}

	issues := svc.Lint()
	for _, line := range svc.LintMessages(issues) {
		style := feedbackStyle
		if len(issues) > 0 {
			style = warningStyle
		}
		fmt.Fprintln(os.Stderr, render(style, line))
	}
	return nil
}
