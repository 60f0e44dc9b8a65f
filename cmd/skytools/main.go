package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"skytools/internal/bootstrap"
	guidedto "skytools/internal/modules/guide/dto"
	measuredto "skytools/internal/modules/measure/dto"
	"skytools/internal/platform/config"
	"skytools/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configFile string
	format     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "skytools",
		Short:         "Sky avatar height toolbox",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default <state-dir>/config.yaml)")
	flags.String("state-dir", "", "directory holding the current measurement and plugins (default ~/.skytools)")
	flags.String("plugin-dir", "", "scanner plugin directory (default <state-dir>/plugins)")
	flags.String("scanner", "", "scanner plugin to use (default first enabled)")
	flags.String("log-level", "", "log level: trace|debug|info|warn|error")
	flags.StringVar(&opts.format, "format", "text", "output format: text|json|yaml|markdown")

	root.AddCommand(newMeasureCmd(opts))
	root.AddCommand(newHeightCmd(opts))
	root.AddCommand(newScannerCmd(opts))
	root.AddCommand(newGuideCmd(opts))
	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	return config.Load(opts.configFile, cmd.Flags())
}

func loadApp(cmd *cobra.Command, opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	return bootstrap.New(cfg, logger)
}

func newMeasureCmd(opts *rootOptions) *cobra.Command {
	measure := &cobra.Command{Use: "measure", Short: "Decode outfit QR codes into avatar heights"}

	var explain bool
	decodeCmd := &cobra.Command{
		Use:   "decode [text|-]",
		Short: "Decode pasted QR text or a share link",
		Long:  "Decode pasted QR text or a share link. With no argument or \"-\", the text is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(opts.format)
			if err != nil {
				return err
			}
			text, err := inputText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			if explain {
				report, err := app.MeasureCLI.Explain(context.Background(), text, "")
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), format, report,
					func(w io.Writer) { writeReportText(w, report) },
					func() (string, error) { return reportMarkdown(report) })
			}
			out, err := app.MeasureCLI.Decode(context.Background(), text)
			if err != nil {
				return err
			}
			return renderMeasurement(cmd, format, out)
		},
	}
	decodeCmd.Flags().BoolVar(&explain, "explain", false, "show the winning candidate and strategy without storing the result")

	var scanExplain bool
	scanCmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Scan an outfit QR screenshot with the scanner plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(opts.format)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			if scanExplain {
				report, err := app.MeasureCLI.Explain(context.Background(), "", args[0])
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), format, report,
					func(w io.Writer) { writeReportText(w, report) },
					func() (string, error) { return reportMarkdown(report) })
			}
			out, err := app.MeasureCLI.Scan(context.Background(), args[0])
			if err != nil {
				return err
			}
			return renderMeasurement(cmd, format, out)
		},
	}
	scanCmd.Flags().BoolVar(&scanExplain, "explain", false, "show the winning candidate and strategy without storing the result")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current measurement",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(opts.format)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			out, err := app.MeasureCLI.Show(context.Background())
			if err != nil {
				return err
			}
			return renderMeasurement(cmd, format, out)
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the current measurement to measure another avatar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			if _, err := app.MeasureCLI.Reset(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "measurement cleared")
			return nil
		},
	}

	measure.AddCommand(decodeCmd, scanCmd, showCmd, resetCmd)
	return measure
}

func renderMeasurement(cmd *cobra.Command, format outputFormat, out measuredto.MeasurementOutput) error {
	return render(cmd.OutOrStdout(), format, out,
		func(w io.Writer) { writeMeasurementText(w, out) },
		func() (string, error) { return measurementMarkdown(out) })
}

func newHeightCmd(opts *rootOptions) *cobra.Command {
	var scale, modifier float64
	cmd := &cobra.Command{
		Use:   "height",
		Short: "Compute height snapshots for a scale and height modifier",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(opts.format)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			out, err := app.HeightCLI.Range(context.Background(), scale, modifier)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, out,
				func(w io.Writer) { writeHeightText(w, out) },
				func() (string, error) { return heightMarkdown(out) })
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 0, "decoded scale value")
	cmd.Flags().Float64Var(&modifier, "modifier", 0, "decoded body height modifier")
	return cmd
}

func newScannerCmd(opts *rootOptions) *cobra.Command {
	scanner := &cobra.Command{Use: "scanner", Short: "Scanner plugin operations"}
	scanner.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List scanner plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(opts.format)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			scanners, err := app.ScannerCLI.List(context.Background())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, scanners, func(w io.Writer) {
				if len(scanners) == 0 {
					_, _ = fmt.Fprintln(w, "no scanners configured")
					return
				}
				for _, s := range scanners {
					_, _ = fmt.Fprintf(w, "%s@%s enabled=%t binary=%s\n", s.Name, s.Version, s.Enabled, s.Binary)
				}
			}, nil)
		},
	})

	scanner.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate scanner checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(opts.format)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			results, err := app.ScannerCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, results, func(w io.Writer) {
				if len(results) == 0 {
					_, _ = fmt.Fprintln(w, "no scanners configured")
					return
				}
				for _, r := range results {
					_, _ = fmt.Fprintf(w, "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
					if len(r.Formats) > 0 {
						_, _ = fmt.Fprintf(w, " formats=%s", strings.Join(r.Formats, ","))
					}
					if r.Error != "" {
						_, _ = fmt.Fprintf(w, " error=%q", r.Error)
					}
					_, _ = fmt.Fprintln(w)
				}
			}, nil)
		},
	})
	return scanner
}

func newGuideCmd(opts *rootOptions) *cobra.Command {
	var step int
	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Show how to find the outfit QR code in game",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(opts.format)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			var slides []guidedto.SlideOutput
			if step != 0 {
				slide, err := app.GuideCLI.Step(context.Background(), step)
				if err != nil {
					return err
				}
				slides = []guidedto.SlideOutput{slide}
			} else if slides, err = app.GuideCLI.All(context.Background()); err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, slides,
				func(w io.Writer) { writeSlidesText(w, slides) },
				func() (string, error) { return slidesMarkdown(slides) })
		},
	}
	cmd.Flags().IntVar(&step, "step", 0, "show a single step (1-based)")
	return cmd
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the skytools terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			// The alt screen owns the terminal; logs go to a file beside the state.
			logFile, err := openLogFile(cfg.StateDir)
			if err != nil {
				return err
			}
			defer logFile.Close()
			app, err := bootstrap.New(cfg, logging.New(cfg.LogLevel, logFile))
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stateless measurement HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			app, err := bootstrap.New(cfg, logging.New(cfg.LogLevel, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return bootstrap.Serve(ctx, cfg.HTTPAddr, app)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8080)")
	return cmd
}

// inputText returns the positional text, or stdin for no argument or "-".
func inputText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	raw, err := io.ReadAll(io.LimitReader(stdin, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(raw), nil
}

func openLogFile(stateDir string) (*os.File, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(stateDir, "skytools.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
