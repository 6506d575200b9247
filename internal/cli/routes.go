package cmd

import (
	"fmt"

	"github.com/rohmanhakim/fake-xhr/internal/fixture"
	"github.com/rohmanhakim/fake-xhr/pkg/urlutil"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the hosts and routes installed from the fixture files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHarness(cmd)
		if err != nil {
			return err
		}
		defer h.Close()
		set, err := fixture.LoadAll(appFs, h.Config().Fixtures())
		if err != nil {
			return err
		}

		p := newPrinter(cmd.OutOrStdout())
		p.bold.Fprintf(p.out, "origin %s\n", h.Config().Origin())
		for _, host := range h.Registry().Hosts() {
			p.bold.Fprintf(p.out, "%s\n", host)
			for _, route := range set.Routes {
				if hostOf(route, h.Registry().OriginHost()) != host {
					continue
				}
				method := route.Method
				if method == "" {
					method = "*"
				}
				status := route.Response.Status
				if status == 0 {
					status = 200
				}
				fmt.Fprintf(p.out, "  %-7s %s", method, route.Path)
				if len(route.Query) > 0 || len(route.Body) > 0 {
					p.faint.Fprintf(p.out, " query=%v body=%v", route.Query, route.Body)
				}
				p.ok.Fprintf(p.out, " -> %d\n", status)
			}
		}
		return nil
	},
}

func hostOf(route fixture.Route, originHost string) string {
	if route.Host == "" {
		return originHost
	}
	return urlutil.NormalizeHost(route.Host)
}
