// SPDX-License-Identifier: MIT

// Command maldikern evaluates the diffusion kernel on collections of
// MALDI-TOF spectra and prints kernel matrices as JSON.
//
//	maldikern matrix spectra.json --gradient --sigma 2
//	maldikern cross train.json test.json
//	maldikern diag spectra.json
//	maldikern describe
//
// Spectra files hold [[[pos, int], ...], ...]; "-" reads stdin.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
