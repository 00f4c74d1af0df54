// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ros/gencpp/internal/logger"
)

const (
	envPrefix  = "GENCPP"
	configName = ".gencpp"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &app{stdout: stdout, stderr: stderr}
	defer logger.Reset()
	logger.SetOutput(stderr)

	gencppCmd := &cobra.Command{
		Use: "gencpp [options] COMMAND",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	gencppCmd.SetArgs(args)
	gencppCmd.SetOut(stdout)
	gencppCmd.SetErr(stderr)
	exitCode := 0
	gencppCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(stderr, gencppCmd.UsageString())
		exitCode = 1
		return nil
	}

	global := gencppCmd.PersistentFlags()
	global.StringVar(&app.configPath, "config", "", "Read settings from a YAML file (default ./"+configName+".yaml if present)")
	global.BoolP("verbose", "v", false, "Report each generated file")
	global.String("color", logger.ColorAuto, "Color diagnostics: auto, always, or never")
	global.Int("jobs", 0, "Number of input files processed in parallel (default: number of CPUs)")
	global.Bool("diff", false, "Print a unified diff against existing outputs instead of writing them")

	commands := []command{
		&cmdMsg{app: app},
		&cmdSrv{app: app},
		&cmdDeps{app: app},
		&cmdShow{app: app},
		&cmdPlugin{app: app},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
		}
		cobraCmd.RunE = func(_ *cobra.Command, args []string) error {
			if err := app.configure(cobraCmd.Flags()); err != nil {
				return err
			}
			exitCode = cmd.run(ctx, args)
			return nil
		}
		gencppCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	if _, err := gencppCmd.ExecuteC(); err != nil {
		logger.Error(err)
		return 1
	}
	return exitCode
}

// app holds the state shared by every command of one invocation.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string

	v *viper.Viper
}

// configure layers flags over $GENCPP_* variables over the config file.
func (a *app) configure(flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if a.configPath != "" {
		v.SetConfigFile(a.configPath)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config %s", a.configPath)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return errors.Wrap(err, "failed to read config")
			}
		}
	}
	if err := v.BindPFlags(flags); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}
	a.v = v

	logger.SetVerbose(v.GetBool("verbose"))
	if err := logger.SetColor(v.GetString("color")); err != nil {
		return err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Infof("using config %s", used)
	}
	return nil
}
