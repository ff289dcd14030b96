package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"keelc/internal/driver"
	"keelc/internal/expansion"
)

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [flags] <program.kexp|directory>... -o <library>",
		Short: "Write a precompiled library of module summaries",
		Long: `Summarize the modules of expanded programs into a precompiled library that
'keelc resolve --lib' resolves other programs against. Later programs win
when a module is defined more than once.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSummarize,
	}
	cmd.Flags().StringP("output", "o", "", "library file to write (required)")
	cmd.Flags().String("base", "", "existing library whose modules are included first")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runSummarize(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	base, err := cmd.Flags().GetString("base")
	if err != nil {
		return fmt.Errorf("failed to get base flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	files, err := driver.ExpandPaths(args)
	if err != nil {
		return fmt.Errorf("failed to collect programs: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s programs found", driver.ProgramExt)
	}

	var baseLib *driver.Library
	if base != "" {
		lib, err := driver.LoadLibrary(base)
		if err != nil {
			return err
		}
		baseLib = lib
	}
	progs := make([]*expansion.Program, 0, len(files))
	for _, path := range files {
		prog, err := driver.LoadProgram(path)
		if err != nil {
			return err
		}
		progs = append(progs, prog)
	}

	lib := baseLib.Extend(progs...)
	if err := driver.SaveLibrary(output, lib); err != nil {
		return fmt.Errorf("failed to write library: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d module(s) to %s (digest %s)\n",
			len(lib.ModuleSummaries()), output, lib.Digest().String()[:12])
	}
	return nil
}
