package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/coinbets/internal/policy"
)

// KellyCmd prints the Kelly fraction and compares expected growth of a few
// fixed fractions.
type KellyCmd struct {
	WinProbability float64   `kong:"name='win-probability',short='p',default='0.6',help='Probability the coin wins'"`
	Fractions      []float64 `kong:"short='f',default='0.1,0.5,1',help='Fractions to compare against Kelly'"`
}

func (c *KellyCmd) Run() error {
	return c.execute(os.Stdout)
}

func (c *KellyCmd) execute(w io.Writer) error {
	k, err := policy.KellyFraction(c.WinProbability)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Kelly fraction for p=%.4g: %.4g\n", c.WinProbability, k)
	fmt.Fprintf(w, "%-10s %s\n", "fraction", "growth/round")
	fmt.Fprintf(w, "%-10.4g %+.5f (kelly)\n", k, policy.ExpectedGrowth(c.WinProbability, k))
	for _, f := range c.Fractions {
		if _, err := policy.NewFixedFraction(f); err != nil {
			return err
		}
		fmt.Fprintf(w, "%-10.4g %+.5f\n", f, policy.ExpectedGrowth(c.WinProbability, f))
	}
	return nil
}
