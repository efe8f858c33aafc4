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

// Command tinygo_build compiles a codegen plugin to WebAssembly with
// TinyGo. Relative paths are resolved against the working directory.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/pflag"
)

var (
	tinygo   = pflag.String("tinygo", "", "TinyGo binary (default: tinygo from $PATH)")
	output   = pflag.String("output", "tlc-codegen-go.wasm", "output file")
	chdir    = pflag.String("chdir", "bin/tlc-codegen-go", "package directory to build")
	target   = pflag.String("target", "wasi", "TinyGo target")
	goSdkBin = pflag.String("go-sdk-bin", "", "directory holding the go binary, replacing $PATH")
	wasmOpt  = pflag.String("wasm-opt", "", "wasm-opt binary")
)

func main() {
	pflag.Parse()
	pwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	tinygoBin := *tinygo
	if tinygoBin == "" {
		if tinygoBin, err = exec.LookPath("tinygo"); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	} else {
		tinygoBin = absPath(pwd, tinygoBin)
	}

	tinygoArgs := []string{"build"}
	tinygoArgs = append(tinygoArgs, "-o="+absPath(pwd, *output))
	tinygoArgs = append(tinygoArgs, "-target="+*target)
	tinygoArgs = append(tinygoArgs, "-buildmode=c-shared")
	tinygoArgs = append(tinygoArgs, pflag.Args()...)
	tinygoArgs = append(tinygoArgs, ".")

	cmd := exec.Command(tinygoBin, tinygoArgs...)
	cmd.Env = os.Environ()
	if *goSdkBin != "" {
		cmd.Env = append(cmd.Env, "PATH="+absPath(pwd, *goSdkBin))
		cmd.Env = append(cmd.Env, "HOME="+filepath.Join(os.TempDir(), "tinygo-home"))
	}
	if *wasmOpt != "" {
		cmd.Env = append(cmd.Env, "WASMOPT="+absPath(pwd, *wasmOpt))
	}
	cmd.Dir = absPath(pwd, *chdir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func absPath(pwd, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(pwd, path)
}
