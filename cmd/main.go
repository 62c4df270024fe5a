// 指示: miu200521358
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/infra/controller/cli"
)

// main はBVHのhumanoidスロット推定を実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	rootCmd := cli.NewRootCommand(out, errOut)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
