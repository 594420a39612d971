// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/katalvlaran/maldikern/gram"
	"github.com/katalvlaran/maldikern/kernel"
	"github.com/katalvlaran/maldikern/spectrum"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// matrixOutput is the JSON document printed by matrix and cross.
type matrixOutput struct {
	Kernel   string      `json:"kernel"`
	Mode     string      `json:"mode"`
	Rows     int         `json:"rows"`
	Cols     int         `json:"cols"`
	K        [][]float64 `json:"k"`
	Gradient [][]float64 `json:"gradient,omitempty"`
}

type diagOutput struct {
	Kernel   string    `json:"kernel"`
	Diagonal []float64 `json:"diagonal"`
}

type describeOutput struct {
	Kernel          string                  `json:"kernel"`
	Stationary      bool                    `json:"stationary"`
	Hyperparameters []kernel.Hyperparameter `json:"hyperparameters"`
	Theta           []float64               `json:"theta"`
	Bounds          [][2]float64            `json:"bounds"`
}

func newMatrixCmd(a *app) *cobra.Command {
	var gradient bool
	cmd := &cobra.Command{
		Use:   "matrix <spectra.json>",
		Short: "Self kernel matrix of one collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			X, err := a.readCollection(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := a.assembler.Evaluate(cmd.Context(), gram.Request{
				Mode: gram.ModeSelf, X: X, EvalGradient: gradient,
			})
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), a.matrixOutput(res))
		},
	}
	cmd.Flags().BoolVar(&gradient, "gradient", false, "also output the σ-gradient matrix")

	return cmd
}

func newCrossCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cross <x.json> <y.json>",
		Short: "Cross kernel matrix between two collections",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			X, err := a.readCollection(cmd, args[0])
			if err != nil {
				return err
			}
			Y, err := a.readCollection(cmd, args[1])
			if err != nil {
				return err
			}
			res, err := a.assembler.Evaluate(cmd.Context(), gram.Request{Mode: gram.ModeCross, X: X, Y: Y})
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), a.matrixOutput(res))
		},
	}
}

func newDiagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diag <spectra.json>",
		Short: "Diagonal k(x, x) of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			X, err := a.readCollection(cmd, args[0])
			if err != nil {
				return err
			}
			d, err := a.assembler.Diagonal(cmd.Context(), X)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), diagOutput{Kernel: a.kernel.String(), Diagonal: d})
		},
	}
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the configured kernel and its hyperparameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), describeOutput{
				Kernel:          a.kernel.String(),
				Stationary:      a.kernel.IsStationary(),
				Hyperparameters: a.kernel.Hyperparameters(),
				Theta:           a.kernel.Theta(),
				Bounds:          a.kernel.Bounds(),
			})
		},
	}
}

// readCollection decodes path, or stdin for "-".
func (a *app) readCollection(cmd *cobra.Command, path string) (spectrum.Collection, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	c, err := spectrum.DecodeCollection(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.log.Debug().Str("path", path).Int("spectra", c.Len()).Int("peaks", c.PeakCount()).Msg("collection loaded")

	return c, nil
}

func (a *app) matrixOutput(res *gram.Result) matrixOutput {
	r, c := res.K.Dims()
	out := matrixOutput{
		Kernel: a.kernel.String(),
		Mode:   res.Mode.String(),
		Rows:   r,
		Cols:   c,
		K:      denseRows(res.K),
	}
	if res.Gradient != nil {
		out.Gradient = denseRows(res.Gradient)
	}

	return out
}

// denseRows copies m into row-major nested slices.
func denseRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = m.At(i, j)
		}
		out[i] = row
	}

	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
