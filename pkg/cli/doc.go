/*
Package cli provides the output formatters, progress reporting and signal
handling used by the modlint command.

Output Formatting:

Reports can be written as compiler-style text, JSON or CSV:

	report := cli.NewReport(len(files), findings, nil)
	if err := cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, report); err != nil {
		return err
	}

Progress Reporting:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(files)))
	// call progress.Increment() as each file completes
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
