package main

import (
	"os"

	"github.com/msto63/hl7view/cmd/hl7view/cmd"
	mdwerror "github.com/msto63/hl7view/foundation/core/error"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(mdwerror.GetCode(err).ExitCode())
	}
}
