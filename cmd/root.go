// Package cmd is the optionkit command line.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charlerive/optionkit/host"
	"github.com/charlerive/optionkit/option"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ErrVariate = errors.New("cmd: unknown variate")

type app struct {
	v   *viper.Viper
	reg *host.Registry
}

// flags maps flag names to viper keys.
var flags = []struct {
	name, key string
	value     interface{}
	usage     string
}{
	{"variate", "variate", "normal", "normal or triangular"},
	{"tri", "triangular", "-1,0,1", "triangular low,mode,high"},
	{"contract", "contract", "call", "put, call, digital_put or digital_call"},
	{"spot", "spot", 100.0, "spot price"},
	{"forward", "forward", 100.0, "forward price (moneyness, implied)"},
	{"vol", "vol", 0.2, "annualized volatility"},
	{"strike", "strike", 100.0, "strike"},
	{"time", "time", 1.0, "years to expiration"},
	{"rate", "rate", 0.0, "continuously compounded rate"},
	{"steps", "lattice.steps", 0, "binomial steps, 0 for the closed form"},
	{"american", "lattice.american", false, "allow early exercise on the lattice"},
	{"dt", "theta.dt", option.DefaultDt, "theta calendar step in years"},
	{"price", "price", 0.0, "option price to imply volatility from"},
	{"guess", "implied.guess", option.DefaultGuess, "initial volatility"},
	{"iterations", "implied.iterations", option.DefaultMaxIter, "maximum Newton iterations"},
	{"tol", "implied.tolerance", option.DefaultTol, "Newton step tolerance"},
	{"precision", "output.precision", 8, "decimal places printed"},
}

// NewRootCmd builds the command tree with its own configuration.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), reg: host.NewRegistry()}

	root := &cobra.Command{
		Use:          "optionkit",
		Short:        "Option values, greeks and implied volatility",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// mark glog flags parsed, cobra already set them
			_ = flag.CommandLine.Parse(nil)
			return a.load(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "config file")

	pf := root.PersistentFlags()
	for _, f := range flags {
		switch d := f.value.(type) {
		case string:
			pf.String(f.name, d, f.usage)
		case float64:
			pf.Float64(f.name, d, f.usage)
		case int:
			pf.Int(f.name, d, f.usage)
		case bool:
			pf.Bool(f.name, d, f.usage)
		}
		a.v.SetDefault(f.key, f.value)
		_ = a.v.BindPFlag(f.key, pf.Lookup(f.name))
	}
	pf.AddGoFlagSet(flag.CommandLine)

	a.v.SetEnvPrefix("OPTIONKIT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.moneynessCmd(),
		a.greekCmd("value", "Option value", a.value),
		a.greekCmd("delta", "Derivative of value with respect to spot", a.reg.Delta),
		a.greekCmd("gamma", "Second derivative of value with respect to spot", a.reg.Gamma),
		a.greekCmd("vega", "Derivative of value with respect to volatility", a.reg.Vega),
		a.greekCmd("theta", "Value decay per year", a.theta),
		a.impliedCmd(),
		a.latticeCmd(),
	)
	return root
}

// load reads .env and the optional config file.
func (a *app) load(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		glog.Warningf("load .env: %v", err)
	}
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return nil
	}
	a.v.SetConfigFile(path)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	glog.V(1).Infof("using config %s", a.v.ConfigFileUsed())
	return nil
}

// handle registers the configured variate.
func (a *app) handle() (uuid.UUID, error) {
	switch name := strings.ToLower(a.v.GetString("variate")); name {
	case "", "normal":
		return uuid.Nil, nil
	case "triangular":
		parts := strings.Split(a.v.GetString("triangular"), ",")
		if len(parts) != 3 {
			return uuid.Nil, fmt.Errorf("triangular wants low,mode,high: %q", a.v.GetString("triangular"))
		}
		var lmh [3]float64
		for i, p := range parts {
			x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return uuid.Nil, fmt.Errorf("triangular: %w", err)
			}
			lmh[i] = x
		}
		return a.reg.Triangular(lmh[0], lmh[1], lmh[2])
	default:
		return uuid.Nil, fmt.Errorf("%w: %q", ErrVariate, name)
	}
}

func (a *app) contract() (option.Contract, error) {
	return option.ParseContract(a.v.GetString("contract"))
}

// print writes x rounded to output.precision places.
func (a *app) print(cmd *cobra.Command, x float64) {
	fmt.Fprintln(cmd.OutOrStdout(), format(x, int32(a.v.GetInt("output.precision"))))
}

func format(x float64, places int32) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return decimal.NewFromFloat(x).Round(places).String()
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}
