package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emu3/trivm/config"
	"github.com/emu3/trivm/loader"
	"github.com/emu3/trivm/ternary"
	"github.com/emu3/trivm/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	root := &cobra.Command{
		Use:   "btvm",
		Short: "A balanced-ternary virtual machine",
	}
	root.AddCommand(newRunCmd(), newDumpImageCmd(), newVersionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("btvm %s\n", Version)
			if Commit != "unknown" {
				fmt.Printf("commit: %s\n", Commit)
			}
			if Date != "unknown" {
				fmt.Printf("built: %s\n", Date)
			}
			return nil
		},
	}
}

func newDumpImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-image <image>",
		Short: "Print the decoded trytes of a memory image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trytes, err := loader.ReadImage(args[0])
			if err != nil {
				return err
			}
			for i, t := range trytes {
				n, err := ternary.ToInt([]ternary.Tryte{t})
				if err != nil {
					return fmt.Errorf("tryte %d: %w", i, err)
				}
				fmt.Printf("%6d: %s (%d)\n", i, ternary.TritString([]ternary.Tryte{t}), n)
			}
			fmt.Printf("%d trytes\n", len(trytes))
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var (
		entry        int64
		maxCycles    uint64
		traceOn      bool
		tracePath    string
		statsOn      bool
		statsPath    string
		coverageOn   bool
		coveragePath string
		configPath   string
	)

	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Load a memory image and execute it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("entry") {
				cfg.Execution.DefaultEntry = int32(entry) // #nosec G115 -- entry is an address, validated by memory bounds on first fetch
			}
			if cmd.Flags().Changed("max-cycles") {
				cfg.Execution.MaxCycles = maxCycles
			}
			if cmd.Flags().Changed("trace") {
				cfg.Execution.EnableTrace = traceOn
			}
			if cmd.Flags().Changed("stats") {
				cfg.Execution.EnableStats = statsOn
			}
			if cmd.Flags().Changed("coverage") {
				cfg.Coverage.EnableCover = coverageOn
			}

			machine := vm.NewVM(int(cfg.Execution.MemorySize))
			machine.CycleLimit = cfg.Execution.MaxCycles

			loaded, err := loader.LoadIntoMemory(machine.Memory, args[0])
			if err != nil {
				return err
			}

			if cfg.Execution.EnableTrace {
				path := tracePath
				if path == "" {
					path = cfg.Trace.OutputFile
				}
				traceFile, err := os.Create(path) // #nosec G304 -- operator-specified trace output path
				if err != nil {
					return fmt.Errorf("failed to create trace file: %w", err)
				}
				defer traceFile.Close()

				machine.Trace = vm.NewExecutionTrace(traceFile)
				machine.Trace.IncludeTiming = cfg.Trace.IncludeTiming
				if cfg.Trace.MaxEntries > 0 {
					machine.Trace.MaxEntries = cfg.Trace.MaxEntries
				}
				if cfg.Trace.FilterRegs != "" {
					regs, err := parseRegisterList(cfg.Trace.FilterRegs)
					if err != nil {
						return err
					}
					machine.Trace.SetFilterRegisters(regs)
				}
				machine.Trace.Start()
			}

			if cfg.Execution.EnableStats {
				machine.Statistics = vm.NewPerformanceStatistics()
				machine.Statistics.Start()
			}

			var coverageFile *os.File
			if cfg.Coverage.EnableCover {
				path := coveragePath
				if path == "" {
					path = cfg.Coverage.OutputFile
				}
				coverageFile, err = os.Create(path) // #nosec G304 -- operator-specified coverage output path
				if err != nil {
					return fmt.Errorf("failed to create coverage file: %w", err)
				}
				defer coverageFile.Close()

				machine.Coverage = vm.NewCodeCoverage(coverageFile)
				low, _ := machine.Memory.Bounds()
				machine.Coverage.SetCodeRange(uint32(low), uint32(low)+uint32(loaded)) // #nosec G115 -- addresses and image length are memory-bounded
				machine.Coverage.Start()
			}

			runErr := machine.Run(cfg.Execution.DefaultEntry)

			fmt.Printf("halted after %d cycles at pc=%d\n", machine.Cycles, machine.PC)
			if runErr != nil {
				slog.Error("runtime error", "pc", machine.PC, "cycles", machine.Cycles, "err", runErr)
			}

			if machine.Trace != nil {
				if err := machine.Trace.Flush(); err != nil {
					slog.Error("failed to flush execution trace", "err", err)
				}
			}

			if machine.Statistics != nil {
				path := statsPath
				if path == "" {
					path = cfg.Statistics.OutputFile
				}
				statsFile, err := os.Create(path) // #nosec G304 -- operator-specified statistics output path
				if err != nil {
					slog.Error("failed to create statistics file", "path", path, "err", err)
				} else {
					defer statsFile.Close()
					if cfg.Statistics.Format == "csv" {
						err = machine.Statistics.ExportCSV(statsFile)
					} else if cfg.Statistics.Format == "html" {
						err = machine.Statistics.ExportHTML(statsFile)
					} else {
						err = machine.Statistics.ExportJSON(statsFile)
					}
					if err != nil {
						slog.Error("failed to export statistics", "path", path, "err", err)
					}
				}
				fmt.Println(machine.Statistics.String())
			}

			if machine.Coverage != nil {
				if err := machine.Coverage.Flush(); err != nil {
					slog.Error("failed to flush code coverage report", "err", err)
				}
				fmt.Println(machine.Coverage.String())
			}

			return runErr
		},
	}

	cmd.Flags().Int64Var(&entry, "entry", 0, "Entry point address")
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", 1000000, "Maximum cycles before a forced halt (0 disables the limit)")
	cmd.Flags().BoolVar(&traceOn, "trace", false, "Enable execution tracing")
	cmd.Flags().StringVar(&tracePath, "trace-file", "", "Execution trace output path (default: the configured trace output file)")
	cmd.Flags().BoolVar(&statsOn, "stats", false, "Enable performance statistics")
	cmd.Flags().StringVar(&statsPath, "stats-file", "", "Statistics output path (default: the configured statistics output file)")
	cmd.Flags().BoolVar(&coverageOn, "coverage", false, "Track which loaded instruction addresses execute")
	cmd.Flags().StringVar(&coveragePath, "coverage-file", "", "Coverage report output path (default: the configured coverage output file)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a TOML config file (default: the platform config path)")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// parseRegisterList parses the comma-separated register name list stored in
// Config.Trace.FilterRegs (config/config.go).
func parseRegisterList(csv string) ([]vm.Register, error) {
	names := strings.Split(csv, ",")
	regs := make([]vm.Register, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r, err := vm.ParseRegister(name)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, nil
}
