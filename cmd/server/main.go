package main // coursehub entry point

import (
    "fmt"
    "os"

    "github.com/spf13/cobra"
)

func main() {
    root := &cobra.Command{
        Use:           "coursehub",
        Short:         "Online course platform backend",
        SilenceUsage:  true,
        SilenceErrors: true,
    }
    root.AddCommand(newServeCmd(), newMigrateCmd(), newConsumeCmd())

    if err := root.Execute(); err != nil {
        fmt.Fprintln(os.Stderr, "error:", err)
        os.Exit(1)
    }
}
