package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
	"github.com/msto63/hl7view/internal/hl7/service"
)

var (
	reportMapping string
	reportWatch   bool
)

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Render the pharmacy order report",
	Long: `Renders the fixed report for a decoded message. Values are read from
their default paths unless the mapping file binds the row name to another
path.

With --watch the mapping file is watched and the report is rendered again
every time the file changes, until interrupted.

Single quotes inside text values are doubled ('O''Brien'), like the group
name. Set escape_text = false in the [report] section of the config file
to print text values unchanged.

Examples:
  hl7view report order.hl7
  hl7view report --mapping site.vmd order.hl7
  hl7view report --mapping site.vmd --watch --locale de order.hl7`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportMapping, "mapping", "m", "", "mapping (VMD) file")
	reportCmd.Flags().BoolVarP(&reportWatch, "watch", "w", false, "re-render when the mapping file changes")
}

func runReport(cmd *cobra.Command, args []string) error {
	svc, cfg, err := decodeInput(args)
	if err != nil {
		return err
	}
	defer svc.Close()

	mappingFile := reportMapping
	if mappingFile == "" {
		mappingFile = cfg.Mapping.File
	}
	watch := reportWatch || (cfg.Mapping.Watch && reportMapping == "" && mappingFile != "")

	if !watch {
		if mappingFile != "" {
			fb, err := svc.LoadMappingFile(mappingFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, render(warningStyle, fb.Message))
				return err
			}
			fmt.Fprintln(os.Stderr, render(feedbackStyle, fb.Message))
		}
		return printReport(svc)
	}

	if mappingFile == "" {
		return mdwerror.New("--watch needs a mapping file").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("cmd.report")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fb, err := svc.WatchMapping(ctx, mappingFile, func(fb service.Feedback) {
		fmt.Fprintln(os.Stderr, render(feedbackStyle, fb.Message))
		if err := printReport(svc); err != nil {
			printError(err)
		}
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, render(warningStyle, fb.Message))
		return err
	}
	fmt.Fprintln(os.Stderr, render(feedbackStyle, fb.Message))
	if err := printReport(svc); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

func printReport(svc *service.Service) error {
	out, err := svc.Report()
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
