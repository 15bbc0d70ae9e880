package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
	"github.com/msto63/hl7view/internal/hl7/locales"
	"github.com/msto63/hl7view/internal/hl7/message"
)

var locateCmd = &cobra.Command{
	Use:   "locate <SEG> <n> [file]",
	Short: "Show where the n-th segment of a kind sits in the message",
	Long: `Prints the byte offset and length of the n-th (1-based) segment with
the given id and the segment line with it highlighted.

Example:
  hl7view locate OBX 2 result.hl7`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runLocate,
}

var findCmd = &cobra.Command{
	Use:   "find <text> [file]",
	Short: "Find a report value or keyword in the message",
	Long: `Extracts a keyword from text and finds it in the message, ignoring
case. Text may be a report line ("PIDGivenName = 'John'"), a tree line
("PID-5: Doe^John") or a plain word; the value after ':' or '=' is
searched, otherwise a known segment id in the text, otherwise the text.

Examples:
  hl7view find "PIDGivenName = 'John'" order.hl7
  hl7view find NICOTINE order.hl7`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(findCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return mdwerror.Newf("occurrence must be a positive number, got %q", args[1]).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("cmd.locate")
	}

	svc, _, err := decodeInput(args[2:])
	if err != nil {
		return err
	}
	defer svc.Close()

	span, err := svc.Locate(args[0], n)
	if err != nil {
		return err
	}
	m, err := svc.Message()
	if err != nil {
		return err
	}

	key := message.NodeKey{SegmentID: m.Raw[span.Offset : span.Offset+3], Occurrence: n}
	fmt.Println(svc.Texts().T(locales.LocateFound, map[string]interface{}{
		"Key":    key.String(),
		"Offset": span.Offset,
		"Length": span.Length,
	}))
	fmt.Println(renderSpan(m.Raw, span))
	return nil
}

func runFind(cmd *cobra.Command, args []string) error {
	svc, _, err := decodeInput(args[1:])
	if err != nil {
		return err
	}
	defer svc.Close()

	keyword, span, err := svc.Search(args[0])
	if err != nil {
		return err
	}
	m, err := svc.Message()
	if err != nil {
		return err
	}

	key := "?"
	if seg, ok := m.SegmentAt(span.Offset); ok {
		key = message.NodeKey{SegmentID: seg.ID, Occurrence: seg.Occurrence}.String()
	}
	fmt.Println(svc.Texts().T(locales.FindFound, map[string]interface{}{
		"Keyword": keyword,
		"Offset":  span.Offset,
		"Key":     key,
	}))
	fmt.Println(renderSpan(m.Raw, span))
	return nil
}
