// Package pairingctl implements the pairingctl CLI's command set, mirroring
// internal/drand-cli's cli.go shape (package holding the *cli.App
// construction, consumed by a thin cmd/ main.go).
package pairingctl

import (
	"fmt"
	"io"
	"os"

	"github.com/drand/pairing/internal/config"
	"github.com/drand/pairing/internal/engine"
	"github.com/drand/pairing/internal/log"
	"github.com/drand/pairing/internal/metrics"
	"github.com/drand/pairing/internal/rpc"
	"github.com/urfave/cli/v2"
)

var output io.Writer = os.Stdout

var (
	version   = "dev"
	gitCommit = "none"
)

func banner() {
	fmt.Fprintf(output, "pairingctl %s (commit %s)\n", version, gitCommit)
}

var presetsFileFlag = &cli.StringFlag{
	Name:     "file",
	Usage:    "path to a curve presets TOML file",
	Required: true,
}

var presetNameFlag = &cli.StringFlag{
	Name:  "name",
	Usage: "curve preset name to select from --file",
}

var metricsAddrFlag = &cli.StringFlag{
	Name:  "metrics",
	Usage: "bind address for the /metrics endpoint; unset disables it",
}

var rpcAddrFlag = &cli.StringFlag{
	Name:  "rpc",
	Usage: "bind address for the optional RPC liveness listener; unset disables it",
}

func toArray(flags ...cli.Flag) []cli.Flag { return flags }

var appCommands = []*cli.Command{
	{
		Name:  "presets",
		Usage: "list the curve presets in a TOML file, or show one by name",
		Flags: toArray(presetsFileFlag, presetNameFlag),
		Action: func(c *cli.Context) error {
			banner()
			return presetsCmd(c)
		},
	},
	{
		Name:  "serve",
		Usage: "start the ambient metrics and RPC liveness servers",
		Flags: toArray(metricsAddrFlag, rpcAddrFlag),
		Action: func(c *cli.Context) error {
			banner()
			return serveCmd(c)
		},
	},
}

// CLI builds the pairingctl *cli.App.
func CLI() *cli.App {
	app := cli.NewApp()
	app.Name = "pairingctl"
	app.Usage = "runtime-parameterized elliptic-curve pairing engine control"
	app.Version = version
	app.Commands = appCommands
	return app
}

func presetsCmd(c *cli.Context) error {
	f, err := config.Load(c.String(presetsFileFlag.Name))
	if err != nil {
		return fmt.Errorf("loading presets: %w", err)
	}

	if name := c.String(presetNameFlag.Name); name != "" {
		p, ok := f.ByName(name)
		if !ok {
			return fmt.Errorf("no preset named %q", name)
		}
		fmt.Fprintf(output, "%s: family=%s limbs=%d modulus=%s order=%s A=%s B=%s loop=%s twist=%s\n",
			p.Name, p.Family, p.LimbWidth, p.ModulusHex, p.OrderHex, p.AHex, p.BHex, p.LoopHex, p.Twist)
		return nil
	}

	for _, p := range f.Preset {
		fmt.Fprintf(output, "%s\t%s\t%d limbs\n", p.Name, p.Family, p.LimbWidth)
	}
	return nil
}

func serveCmd(c *cli.Context) error {
	l := log.DefaultLogger()

	if addr := c.String(metricsAddrFlag.Name); addr != "" {
		if lis := metrics.Start(addr); lis != nil {
			fmt.Fprintf(output, "metrics listening on %s\n", lis.Addr())
		}
	}

	if addr := c.String(rpcAddrFlag.Name); addr != "" {
		s := rpc.New(&engine.Engine{Log: l})
		if lis := s.Serve(addr); lis != nil {
			fmt.Fprintf(output, "rpc liveness listening on %s\n", lis.Addr())
		}
	}

	fmt.Fprintln(output, "serve is a liveness/metrics harness; pairing operations are called in-process via internal/engine, not over this listener")
	select {}
}
