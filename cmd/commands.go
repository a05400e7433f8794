package cmd

import (
	"fmt"
	"math"

	"github.com/charlerive/optionkit/binomial"
	"github.com/charlerive/optionkit/blackscholes"
	"github.com/charlerive/optionkit/option"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type greek func(h uuid.UUID, S, sigma float64, c option.Contract, k, t, rate float64) float64

func (a *app) value(h uuid.UUID, S, sigma float64, c option.Contract, k, t, rate float64) float64 {
	n := a.v.GetInt("lattice.steps")
	if !a.v.GetBool("lattice.american") {
		n = -n
	}
	return a.reg.Value(h, S, sigma, c, k, t, rate, n)
}

func (a *app) theta(h uuid.UUID, S, sigma float64, c option.Contract, k, t, rate float64) float64 {
	return a.reg.Theta(h, S, sigma, c, k, t, rate, a.v.GetFloat64("theta.dt"))
}

func (a *app) greekCmd(use, short string, fn greek) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.handle()
			if err != nil {
				return err
			}
			c, err := a.contract()
			if err != nil {
				return err
			}
			a.print(cmd, fn(h, a.v.GetFloat64("spot"), a.v.GetFloat64("vol"), c,
				a.v.GetFloat64("strike"), a.v.GetFloat64("time"), a.v.GetFloat64("rate")))
			return nil
		},
	}
}

func (a *app) moneynessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moneyness",
		Short: "Value of the variate at which the forward equals the strike",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.handle()
			if err != nil {
				return err
			}
			a.print(cmd, a.reg.Moneyness(h, a.v.GetFloat64("forward"), a.v.GetFloat64("vol"),
				a.v.GetFloat64("strike"), a.v.GetFloat64("time")))
			return nil
		},
	}
}

func (a *app) impliedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "implied",
		Short: "Volatility reproducing an undiscounted put or call price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.handle()
			if err != nil {
				return err
			}
			c, err := a.contract()
			if err != nil {
				return err
			}
			if c.Digital() {
				return fmt.Errorf("%w: no implied volatility for %v", option.ErrUnknownContract, c)
			}
			k := option.Strike(c, a.v.GetFloat64("strike"))
			a.print(cmd, a.reg.Implied(h, a.v.GetFloat64("forward"), a.v.GetFloat64("price"), k,
				a.v.GetFloat64("time"), a.v.GetFloat64("implied.guess"),
				a.v.GetInt("implied.iterations"), a.v.GetFloat64("implied.tolerance")))
			return nil
		},
	}
}

func (a *app) latticeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lattice",
		Short: "Binomial lattice value next to the closed form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.contract()
			if err != nil {
				return err
			}
			n := a.v.GetInt("lattice.steps")
			S, sigma, k := a.v.GetFloat64("spot"), a.v.GetFloat64("vol"), a.v.GetFloat64("strike")
			t, r := a.v.GetFloat64("time"), a.v.GetFloat64("rate")

			l, err := binomial.New(n, r, S, sigma, c, k, t, a.v.GetBool("lattice.american"))
			if err != nil {
				return err
			}
			closed := blackscholes.Value(nil, r, S, sigma, c, k, t)
			out := cmd.OutOrStdout()
			places := int32(a.v.GetInt("output.precision"))
			fmt.Fprintf(out, "lattice\t%s\n", format(l.Price(), places))
			fmt.Fprintf(out, "closed\t%s\n", format(closed, places))
			fmt.Fprintf(out, "error\t%s\n", format(math.Abs(l.Price()-closed), places))
			return nil
		},
	}
}
