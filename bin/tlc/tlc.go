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
	stdflag "flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
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
	ctx := context.Background()

	var verbose bool
	tlcCmd := &cobra.Command{
		Use: "tlc [options] COMMAND",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	tlcCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, tlcCmd.UsageString())
		os.Exit(1)
		return nil
	}
	tlcCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "increase logging verbosity")

	commands := []command{
		&cmdCompile{},
		&cmdCodegen{},
		&cmdDecode{},
		&cmdCatalog{},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			RunE: func(_ *cobra.Command, args []string) error {
				os.Exit(cmd.run(ctx, args))
				return nil
			},
		}
		tlcCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	tlcCmd.Flags().AddGoFlagSet(stdflag.CommandLine)
	tlcCmd.ParseFlags(nil)
	if _, err := tlcCmd.ExecuteC(); err != nil {
		os.Exit(1)
	}
}
