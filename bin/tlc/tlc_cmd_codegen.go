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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	wasm "github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/codegen"
	"go.tl-lang.org/tl/codegen/plugin"
	"go.tl-lang.org/tl/schema"
)

type cmdCodegen struct {
	schemaFlags
	outDir        string
	packageName   string
	runtimeImport string
	overridesPath string
	pluginName    string
	pluginPath    string
	options       []string
}

func (*cmdCodegen) help() *commandHelp {
	return &commandHelp{
		usage:   "codegen SCHEMA",
		summary: "Generate source code for a schema",
	}
}

func (cmd *cmdCodegen) flags(flags *pflag.FlagSet) {
	cmd.schemaFlags.register(flags)
	flags.StringVarP(&cmd.outDir, "output", "o", "", "output directory")
	flags.StringVar(&cmd.packageName, "package", codegen.DefaultPackage, "name of the generated package")
	flags.StringVar(&cmd.runtimeImport, "runtime", codegen.DefaultRuntime, "import path of the tl runtime package")
	flags.StringVar(&cmd.overridesPath, "overrides", "", "JSON file of placeholder and redirect overrides")
	flags.StringVar(&cmd.pluginName, "plugin", "", "generate with the WASM plugin tlc-codegen-NAME.wasm instead of the builtin Go emitter")
	flags.StringVar(&cmd.pluginPath, "plugin-path", "", "directories searched for plugins (default $TLC_PLUGIN_PATH)")
	flags.StringArrayVar(&cmd.options, "option", nil, "KEY=VALUE passed through to the plugin")
}

func (cmd *cmdCodegen) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		log.Error("usage: tlc codegen SCHEMA")
		return 1
	}
	if cmd.outDir == "" {
		log.Error("No output directory specified (set --output=)")
		return 1
	}

	model, src := cmd.load(argv[0])
	if model == nil {
		return 1
	}

	var overrides []byte
	if cmd.overridesPath != "" {
		var err error
		if overrides, err = os.ReadFile(cmd.overridesPath); err != nil {
			log.Error(err)
			return 1
		}
	}

	var files []*plugin.File
	var err error
	if cmd.pluginName == "" {
		files, err = cmd.generateBuiltin(model, overrides)
	} else {
		files, err = cmd.generatePlugin(ctx, src.text, overrides)
	}
	if err != nil {
		log.Error(err)
		return 1
	}
	if len(files) == 0 {
		log.Error("Code generator did not produce any output files")
		return 1
	}

	if err := os.MkdirAll(cmd.outDir, 0o755); err != nil {
		log.Error(err)
		return 1
	}
	for _, file := range files {
		path, err := outPath(cmd.outDir, file.Path)
		if err != nil {
			log.Error(err)
			return 1
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Error(err)
			return 1
		}
		if err := os.WriteFile(path, file.Content, 0o644); err != nil {
			log.Error(err)
			return 1
		}
		log.Debugf("wrote %s (%d bytes)", path, len(file.Content))
	}
	return 0
}

func (cmd *cmdCodegen) generateBuiltin(model *schema.Model, overridesJSON []byte) ([]*plugin.File, error) {
	opts := []codegen.Option{
		codegen.WithPackage(cmd.packageName),
		codegen.WithRuntimeImport(cmd.runtimeImport),
	}
	if overridesJSON != nil {
		overrides, err := codegen.ParseOverrides(overridesJSON)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codegen.WithOverrides(overrides))
	}
	generated, err := codegen.Generate(model, opts...)
	if err != nil {
		return nil, err
	}
	files := make([]*plugin.File, 0, len(generated))
	for _, f := range generated {
		files = append(files, &plugin.File{Path: f.Path, Content: f.Content})
	}
	return files, nil
}

func (cmd *cmdCodegen) request(source, overrides []byte) (*plugin.Request, error) {
	req := &plugin.Request{
		Source:      source,
		PackageName: cmd.packageName,
		Options: []*plugin.Option{
			{Key: plugin.OptionRuntime, Value: cmd.runtimeImport},
		},
	}
	if overrides != nil {
		req.Overrides = tl.Some(overrides)
	}
	for _, opt := range cmd.options {
		key, value, ok := strings.Cut(opt, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("Invalid plugin option %q (expected KEY=VALUE)", opt)
		}
		req.Options = append(req.Options, &plugin.Option{Key: key, Value: value})
	}
	return req, nil
}

func (cmd *cmdCodegen) generatePlugin(ctx context.Context, source, overrides []byte) ([]*plugin.File, error) {
	req, err := cmd.request(source, overrides)
	if err != nil {
		return nil, err
	}
	requestBuf, err := tl.Encode(req)
	if err != nil {
		return nil, err
	}

	pluginPath, err := cmd.locatePlugin(cmd.pluginName)
	if err != nil {
		return nil, err
	}
	log.Debugf("running plugin %s", pluginPath)
	pluginBin, err := os.ReadFile(pluginPath)
	if err != nil {
		return nil, err
	}

	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(16384)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	pluginExe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		return nil, err
	}
	moduleConfig := wasm.NewModuleConfig().
		WithStartFunctions("_initialize").
		WithStderr(os.Stderr)
	mod, err := runtime.InstantiateModule(ctx, pluginExe, moduleConfig)
	if err != nil {
		return nil, err
	}
	mem := mod.Memory()

	wasmAlloc := mod.ExportedFunction("tlc_codegen_allocate")
	wasmGenerate := mod.ExportedFunction("tlc_codegen_generate")
	if wasmAlloc == nil || wasmGenerate == nil {
		return nil, fmt.Errorf("Plugin %s does not export the tlc_codegen functions", pluginPath)
	}

	results, err := wasmAlloc.Call(ctx, uint64(len(requestBuf)))
	if err != nil {
		return nil, err
	}
	requestPtr := results[0]
	if !mem.Write(uint32(requestPtr), requestBuf) {
		return nil, errors.New("Failed to write request into plugin memory")
	}

	results, err = wasmAlloc.Call(ctx, 4)
	if err != nil {
		return nil, err
	}
	responsePtrPtr := uint32(results[0])

	results, err = wasmGenerate.Call(ctx, requestPtr, uint64(len(requestBuf)), uint64(responsePtrPtr))
	if err != nil {
		return nil, err
	}
	rc := uint8(results[0])

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, errors.New("Failed to read response pointer")
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return nil, errors.New("Failed to read response message length")
	}
	responseBuf, ok := mem.Read(responsePtr+4, responseLen)
	if !ok {
		return nil, errors.New("Failed to read response message")
	}

	resp, err := plugin.DecodeResponse(responseBuf)
	if err != nil {
		return nil, err
	}
	if msg, failed := resp.Message.Get(); failed || rc != 0 {
		return nil, fmt.Errorf("Plugin %s failed: %s", cmd.pluginName, strings.TrimSpace(msg))
	}
	return resp.Files, nil
}

func (cmd *cmdCodegen) locatePlugin(name string) (string, error) {
	path := cmd.pluginPath
	if path == "" {
		path = os.Getenv("TLC_PLUGIN_PATH")
	}
	if path == "" {
		return "", errors.New("No plugin path set, use --plugin-path= or $TLC_PLUGIN_PATH")
	}
	basename := fmt.Sprintf("tlc-codegen-%s.wasm", name)
	for _, dir := range filepath.SplitList(path) {
		pluginPath := filepath.Join(dir, basename)
		if _, err := os.Stat(pluginPath); err == nil {
			return pluginPath, nil
		}
	}
	return "", fmt.Errorf("TL codegen plugin %s not found in plugin path", basename)
}
