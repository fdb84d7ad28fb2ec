package main

import (
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "urlchatd"}

	root.AddCommand(serveCMD(), migrateCMD(), crawlCMD())
	_ = root.Execute()
}
