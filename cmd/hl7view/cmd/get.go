package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/hl7view/internal/hl7/locales"
	"github.com/msto63/hl7view/internal/hl7/resolve"
	"github.com/msto63/hl7view/internal/hl7/terser"
)

var (
	getName    string
	getMapping string
)

var getCmd = &cobra.Command{
	Use:   "get <path> [file]",
	Short: "Read one value by path or symbolic name",
	Long: `Reads the raw value at a terser path. With --name the mapping table
is consulted first and the path is the fallback.

Examples:
  hl7view get /PID-5-2 order.hl7
  hl7view get /OBX(1)-5 result.hl7
  hl7view get --name PIDGivenName --mapping site.vmd /PID-5-2 order.hl7`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVarP(&getName, "name", "n", "", "symbolic name looked up in the mapping")
	getCmd.Flags().StringVarP(&getMapping, "mapping", "m", "", "mapping (VMD) file")
}

func runGet(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := terser.Parse(path); err != nil {
		return err
	}

	svc, cfg, err := decodeInput(args[1:])
	if err != nil {
		return err
	}
	defer svc.Close()

	if getName == "" {
		res, err := svc.Get(path)
		if err != nil {
			return err
		}
		fmt.Println(res.Value)
		return nil
	}

	mappingFile := getMapping
	if mappingFile == "" {
		mappingFile = cfg.Mapping.File
	}
	if mappingFile != "" {
		if _, err := svc.LoadMappingFile(mappingFile); err != nil {
			return err
		}
	}

	tr, err := svc.Trace(getName, path)
	if err != nil {
		return err
	}
	fmt.Println(tr.Value)

	if verbose && tr.Source != resolve.SourceNone {
		used := tr.Fallback
		if tr.Source == resolve.SourceMapped {
			used = tr.MappedPath
		}
		fmt.Fprintln(os.Stderr, render(feedbackStyle, svc.Texts().T(locales.GetSource, map[string]interface{}{
			"Value":  tr.Value,
			"Source": string(tr.Source),
			"Path":   used,
		})))
	}
	return nil
}
