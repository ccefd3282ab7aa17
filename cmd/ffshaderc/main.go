// Command ffshaderc generates and compiles fixed-function shaders.
package main

import (
	"fmt"
	"os"

	"github.com/gogpu/ffshader/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ffshaderc:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
