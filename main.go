package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	vm "smaliemu/vm"
)

var (
	inputFile  string
	methodName string
	paramsJSON string
	configPath string
	verbose    bool
)

// exec -i FILE.smali -m METHOD [-p '{"p0":"1"}']
//
// Exit codes: 0 success, 1 VM error, 2 malformed invocation. The CLI
// itself is an external collaborator, not part of the VM core: it only
// parses flags, builds an Emulator, and prints what ExecMethod hands back.
func newExecCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Load a Smali class listing and execute one of its methods",
		RunE:  runExec,
	}
	flags := cmd.Flags()
	flags.StringVarP(&inputFile, "input", "i", "", "path to a .smali class listing")
	flags.StringVarP(&methodName, "method", "m", "", "method name to invoke")
	flags.StringVarP(&paramsJSON, "params", "p", "{}", `JSON object mapping "pN" to an argument value`)
	flags.StringVarP(&configPath, "config", "c", "", "optional TOML configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable structured trace logging")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("method")
	return cmd
}

func runExec(cmd *cobra.Command, _ []string) error {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			vm.SetLogger(logger)
		}
	}

	cfg := vm.DefaultConfig()
	if configPath != "" {
		loaded, err := vm.LoadConfigFile(configPath)
		if err != nil {
			cmd.SilenceUsage = true
			return exitError{code: 2, err: fmt.Errorf("loading config: %w", err)}
		}
		cfg = loaded
	}
	if verbose {
		cfg.Trace = true
	}

	loader := vm.NewLoader()
	emu := vm.NewEmulator(loader, cfg)
	jc, err := emu.LoadClassFile(inputFile)
	if err != nil {
		cmd.SilenceUsage = true
		return exitError{code: 1, err: err}
	}

	args, err := parseParams(emu, paramsJSON)
	if err != nil {
		cmd.SilenceUsage = true
		return exitError{code: 2, err: fmt.Errorf("parsing params: %w", err)}
	}

	result, err := emu.ExecMethod(jc.Name, methodName, args)
	if err != nil {
		cmd.SilenceUsage = true
		return exitError{code: 1, err: err}
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.String())
	return nil
}

// parseParams turns the CLI's JSON "pN": literal mapping into register
// Values. Whole numbers within int32 range become Int32, every other number
// becomes Float64, strings are allocated as StringObj on the emulator's heap, bool/null map
// directly onto their Value constructors.
func parseParams(emu *vm.Emulator, raw string) (map[string]vm.Value, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}
	out := make(map[string]vm.Value, len(parsed))
	for name, v := range parsed {
		switch val := v.(type) {
		case float64:
			if val == float64(int32(val)) {
				out[name] = vm.Int32Value(int32(val))
			} else {
				out[name] = vm.Float64Value(val)
			}
		case bool:
			out[name] = vm.BoolValue(val)
		case string:
			id := emu.Heap.New(vm.NewStringObj(val))
			out[name] = vm.RefValue(id)
		case nil:
			out[name] = vm.NullValue()
		default:
			return nil, fmt.Errorf("unsupported parameter value for %q: %v", name, v)
		}
	}
	return out, nil
}

// exitError carries the §6 exit-code contract (1 for VM errors, 2 for
// malformed invocations) through cobra's plain error-returning RunE.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }

func main() {
	root := &cobra.Command{Use: "smaliemu"}
	root.AddCommand(newExecCommand())

	if err := root.Execute(); err != nil {
		code := 2
		if ee, ok := err.(exitError); ok {
			code = ee.code
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}
