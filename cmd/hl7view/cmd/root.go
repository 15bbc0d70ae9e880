package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/hl7view/internal/hl7/service"
	"github.com/msto63/hl7view/pkg/core/config"
	"github.com/msto63/hl7view/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
	locale  string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "hl7view",
	Short: "HL7 v2 message inspector",
	Long: `hl7view decodes HL7 v2 pipe encoded messages, resolves field paths
and renders the pharmacy order report.

Paths use the terser syntax /SEG(n)-F(r)-C-S, for example /PID-5-2 or
/OBX(1)-5. Symbolic names can be mapped to paths with a VMD mapping file
containing a [Mapping] block.

Input is read from the file argument or from stdin.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HL7VIEW_CONFIG, ./configs/hl7view.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "locale for captions and messages (en, de)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable styled output")
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}

// newService builds a session from the configuration and global flags
func newService() (*service.Service, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	logger := logging.NewWithConfig(logging.LoggerConfig{
		Name:   cfg.General.Name,
		Level:  level,
		Format: cfg.General.LogFormat,
		Output: os.Stderr,
	})

	sc, err := service.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	sc.Logger = logger
	if locale != "" {
		sc.Locale = locale
	}

	svc, err := service.New(sc)
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

// decodeInput creates a session and decodes the input named by args
func decodeInput(args []string) (*service.Service, *config.Config, error) {
	svc, cfg, err := newService()
	if err != nil {
		return nil, nil, err
	}

	text, err := readInput(args)
	if err != nil {
		svc.Close()
		return nil, nil, err
	}
	if _, err := svc.Decode(text); err != nil {
		svc.Close()
		return nil, nil, err
	}
	return svc, cfg, nil
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, styleError("Error: "+err.Error()))
}
