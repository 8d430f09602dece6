package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	leadmagnet "github.com/hatlem/getanswers-sub001"
	"github.com/hatlem/getanswers-sub001/internal/config"
)

// runState carries what the error reporter needs from the command that ran.
type runState struct {
	configName string
	brands     []string
}

// newRootCmd builds the command tree bound to env.
func newRootCmd(env *Environment, state *runState) *cobra.Command {
	root := &cobra.Command{
		Use:   "leadmagnet",
		Short: "Generate branded three-page lead magnet PDFs",
		Long: `leadmagnet turns markdown or HTML content into a branded PDF with a cover,
a content page and a sales page, rendered by headless Chrome.

Usage:
  leadmagnet batch [flags]
  leadmagnet generate --title T --slug S --md-file F [flags]`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
			}
			return cmd.Help()
		},
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	root.AddCommand(
		newBatchCmd(env, state),
		newGenerateCmd(env, state),
		newBrandsCmd(env, state),
		newDoctorCmd(env),
	)
	return root
}

// prepare loads .env, config and logger for a pipeline command.
func prepare(f *commonFlags, env *Environment, state *runState) (*config.Config, zerolog.Logger, error) {
	nop := zerolog.Nop()
	if f.envFile != "" {
		if err := loadDotEnv(f.envFile); err != nil {
			return nil, nop, err
		}
	}
	if !f.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	ec := loadEnvConfig()
	state.configName = f.config
	if state.configName == "" {
		state.configName = ec.ConfigPath
	}

	cfg, err := loadConfig(f, ec)
	if err != nil {
		return nil, nop, err
	}
	return cfg, newLogger(env.Stderr, f.verbose, f.quiet), nil
}

// withGenerator runs fn with a generator built from f and closes it after.
func withGenerator(ctx context.Context, f *commonFlags, env *Environment, state *runState,
	fn func(context.Context, *config.Config, *leadmagnet.Generator, zerolog.Logger) error,
) error {
	cfg, logger, err := prepare(f, env, state)
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, f, env, logger)
	if err != nil {
		return err
	}
	state.brands = gen.Registry().Keys()
	defer func() {
		if cerr := gen.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("closing renderer")
		}
	}()

	return fn(ctx, cfg, gen, logger)
}

// execute runs the CLI with args and returns the process exit code.
func execute(ctx context.Context, args []string, env *Environment) int {
	state := &runState{}
	root := newRootCmd(env, state)
	if args == nil {
		args = []string{} // nil makes cobra fall back to os.Args
	}
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	brands := state.brands
	if brands == nil {
		brands = leadmagnet.DefaultRegistry().Keys()
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, state.configName, brands))
	return exitCodeFor(err)
}
