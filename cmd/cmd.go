// Package cmd is the sizing command tree.
//
// The root command computes conditioning values; buckets, fraction and
// presets inspect the tables and configuration behind that computation.
// Flags override the environment configuration and any selected preset.
package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sdxl_sizing/core"
	"sdxl_sizing/logging"
)

// ErrUsage wraps command line errors: unknown flags, bad flag values and
// wrong argument counts.
var ErrUsage = errors.New("cmd: invalid usage")

// Env holds what every command shares: the loaded configuration and the
// process logger.
type Env struct {
	Config *core.Config
	Logger *logging.Logger
}

// NewCLI builds the command tree. A nil Logger is replaced with a no-op
// logger and a nil Config with the environment defaults.
func NewCLI(env Env) *cobra.Command {
	cobra.EnableCommandSorting = false

	if env.Logger == nil {
		env.Logger = logging.Nop()
	}
	if env.Config == nil {
		env.Config = defaultConfig()
	}

	rootCmd := &cobra.Command{
		Use:           "sizing",
		Short:         "SDXL conditioning size calculator",
		Long:          "Compute the width, height, crop and target values SDXL is conditioned on.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ComputeHandler(cmd, env)
		},
	}
	addComputeFlags(rootCmd)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	rootCmd.AddCommand(
		newComputeCmd(env),
		newBucketsCmd(),
		newFractionCmd(),
		newPresetsCmd(env),
	)
	for _, c := range rootCmd.Commands() {
		c.Args = usageArgs(c.Args)
	}
	rootCmd.Args = usageArgs(rootCmd.Args)

	return rootCmd
}

// usageArgs wraps an argument validator so its errors match ErrUsage.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	if validate == nil {
		return nil
	}
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return nil
	}
}

// newRunID tags one invocation in the logs.
func newRunID() string {
	return uuid.NewString()
}

func defaultConfig() *core.Config {
	return &core.Config{
		NativeRes:   core.DefaultNativeRes,
		Aspect:      core.DefaultAspect,
		OriginalRes: core.DefaultOriginalRes,
		Bucketing:   core.DefaultBucketing,
		Verbose:     core.DefaultVerbose,
		LogFile:     core.DefaultLogFile,
	}
}
