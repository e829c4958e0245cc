package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/samvad-hq/visajobs/internal/cli"
	"github.com/samvad-hq/visajobs/pkg/jobsclient"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("visajobs-cli", pflag.ContinueOnError)
	flags.String("server", "http://localhost:8080", "base URL of the visajobs server")
	flags.Bool("strict", false, "only keep listings matching the profile and visa keywords")
	flags.Duration("timeout", 15*time.Second, "request timeout")
	flags.Bool("plain", false, "disable colors and boxes")
	if err := flags.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix("VISAJOBS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	plain := v.GetBool("plain")
	if plain {
		pterm.DisableStyling()
	}

	client, err := jobsclient.New(v.GetString("server"), nil, v.GetDuration("timeout"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var spinner *pterm.SpinnerPrinter
	if !plain {
		spinner, _ = pterm.DefaultSpinner.Start("Searching official portals...")
	}
	res, err := client.Search(ctx, v.GetBool("strict"))
	if spinner != nil {
		if err != nil {
			spinner.Fail("Search failed")
		} else {
			spinner.Success("Search complete")
		}
	}
	if err != nil {
		return err
	}

	r := cli.Renderer{Out: os.Stdout, Plain: plain, WindowDays: res.WindowDays}
	return r.Render(res.SearchResult)
}
