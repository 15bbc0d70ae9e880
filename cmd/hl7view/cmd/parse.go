package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/hl7view/internal/hl7/export"
	"github.com/msto63/hl7view/internal/hl7/message"
)

var (
	parseFormat string
	parseWidth  int
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Decode a message and print its structure",
	Long: `Decodes a message and prints it as a tree of segments, fields,
components and subcomponents, or in one of the export formats.

Formats:
  tree  - indented display tree (default)
  yaml  - display tree as YAML
  json  - display tree as JSON
  xml   - structural v2 XML
  pipe  - re-encoded pipe text, one segment per line

Examples:
  hl7view parse order.hl7
  hl7view parse --format xml order.hl7
  cat order.hl7 | hl7view parse --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", string(export.FormatTree), "output format (tree, yaml, json, xml, pipe)")
	parseCmd.Flags().IntVar(&parseWidth, "width", 0, "cut tree labels to this many characters (0 = no limit)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(parseFormat)
	if err != nil {
		return err
	}

	svc, _, err := decodeInput(args)
	if err != nil {
		return err
	}
	defer svc.Close()

	m, err := svc.Message()
	if err != nil {
		return err
	}

	if format == export.FormatTree {
		fmt.Print(renderTree(m, parseWidth))
		if m.Skipped > 0 {
			fmt.Fprintln(os.Stderr, render(warningStyle, fmt.Sprintf("%d line(s) skipped", m.Skipped)))
		}
		return nil
	}

	data, err := export.Encode(m, format)
	if err != nil {
		return err
	}
	if format == export.FormatPipe && stdoutIsTerminal() {
		// carriage returns overwrite each other on a terminal
		data = []byte(strings.ReplaceAll(string(data), message.SegmentSeparator, "\n"))
	}
	_, err = os.Stdout.Write(data)
	return err
}
