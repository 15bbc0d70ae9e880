package cmd

import (
	"io"
	"os"

	"golang.org/x/net/html/charset"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
)

// readInput reads the message from the file in args[0], or from stdin when
// no file is given. Non UTF-8 input such as Latin-1 exports is converted.
func readInput(args []string) (string, error) {
	var (
		r    io.Reader
		name = "stdin"
	)

	if len(args) > 0 && args[0] != "-" {
		name = args[0]
		f, err := os.Open(name)
		if err != nil {
			return "", mdwerror.Wrap(err, "failed to open input").
				WithCode(mdwerror.CodeIOError).
				WithOperation("cmd.readInput").
				WithDetail("file", name)
		}
		defer f.Close()
		r = f
	} else {
		stat, _ := os.Stdin.Stat()
		if stat != nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			return "", mdwerror.New("no input: pass a file or pipe a message on stdin").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("cmd.readInput")
		}
		r = os.Stdin
	}

	reader, err := charset.NewReader(r, "text/plain")
	if err != nil {
		return "", mdwerror.Wrap(err, "failed to detect input encoding").
			WithCode(mdwerror.CodeIOError).
			WithOperation("cmd.readInput").
			WithDetail("file", name)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", mdwerror.Wrap(err, "failed to read input").
			WithCode(mdwerror.CodeIOError).
			WithOperation("cmd.readInput").
			WithDetail("file", name)
	}
	return string(data), nil
}

// stdoutIsTerminal reports whether styled output makes sense
func stdoutIsTerminal() bool {
	stat, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
