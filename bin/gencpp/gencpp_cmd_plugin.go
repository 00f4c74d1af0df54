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
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/ros/gencpp/gencpp/compiler"
	"github.com/ros/gencpp/gencpp/plugin"
	"github.com/ros/gencpp/gencpp/plugin/host"
	"github.com/ros/gencpp/internal/logger"
)

type cmdPlugin struct {
	app      *app
	language string
}

func (*cmdPlugin) help() *commandHelp {
	return &commandHelp{
		usage:   "plugin -p PKG [-I PKG:DIR]... --plugin-path DIR -o OUTDIR FILE...",
		summary: "Generate headers with a WebAssembly codegen plugin",
	}
}

func (cmd *cmdPlugin) flags(flags *pflag.FlagSet) {
	packageFlags(flags)
	outputFlags(flags)
	flags.String("plugin-path", "", "Directories searched for plugins, separated by ':' (default $"+host.PluginPathEnv+")")
	flags.StringVar(&cmd.language, "language", "cpp", "Plugin to run; loads gencpp-plugin-LANGUAGE.wasm")
}

func (cmd *cmdPlugin) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		return usageError(cmd.help())
	}
	s, err := cmd.app.settings(true)
	if err != nil {
		return report(err)
	}
	pluginPath, err := host.Locate(cmd.app.v.GetString("plugin-path"), cmd.language)
	if err != nil {
		return report(err)
	}
	logger.Infof("using plugin %s", pluginPath)
	p, err := host.Load(ctx, pluginPath)
	if err != nil {
		return report(errors.Wrapf(err, "failed to load plugin %s", pluginPath))
	}
	defer p.Close(ctx)

	err = cmd.app.batch(ctx, argv, s.jobs, func(ctx context.Context, file string, stdout io.Writer) error {
		req, err := buildRequest(s, file)
		if err != nil {
			return err
		}
		files, err := p.Generate(ctx, req)
		if err != nil {
			return errors.Wrapf(err, "plugin failed for %s", file)
		}
		return s.write(stdout, files)
	})
	if err != nil {
		return report(err)
	}
	return 0
}

func buildRequest(s *settings, file string) (*plugin.Request, error) {
	ld := s.newLoader()
	fullName := s.fullTypeName(file)
	if isService(file) {
		spec, err := ld.LoadServiceFile(file, fullName)
		if err != nil {
			return nil, err
		}
		res, err := compiler.CompileService(spec, compiler.WithLoader(ld))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compile %s", file)
		}
		return plugin.NewServiceRequest(res, filepath.Base(file)), nil
	}
	spec, err := ld.LoadMessageFile(file, fullName)
	if err != nil {
		return nil, err
	}
	res, err := compiler.Compile(spec, compiler.WithLoader(ld))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compile %s", file)
	}
	return plugin.NewMessageRequest(res, filepath.Base(file)), nil
}
