package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rohmanhakim/fake-xhr/internal/fixture"
	"github.com/rohmanhakim/fake-xhr/internal/harness"
	"github.com/rohmanhakim/fake-xhr/pkg/event"
	"github.com/rohmanhakim/fake-xhr/pkg/xhr"
	"github.com/spf13/cobra"
)

var (
	sendBody    string
	sendHeaders []string
	sendSync    bool
)

var sendCmd = &cobra.Command{
	Use:   "send METHOD URL",
	Short: "Send one fake request through the fixture routes",
	Long: `send opens a fake request, sends it through the routers installed from the
fixture files and prints every ready state it passes through followed by the
response. A request no route answers is reported as left open.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHarness(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		step := fixture.Step{Method: args[0], URL: args[1], Sync: sendSync}
		if cmd.Flags().Changed("body") {
			step.Body = &sendBody
		}
		step.Headers, err = parseHeaders(sendHeaders)
		if err != nil {
			return err
		}
		_, err = perform(h, newPrinter(cmd.OutOrStdout()), step)
		return err
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendBody, "body", "", "request body")
	sendCmd.Flags().StringArrayVar(&sendHeaders, "header", []string{}, `request header as "Name: value" (can be repeated)`)
	sendCmd.Flags().BoolVar(&sendSync, "sync", false, "open the request synchronously")
}

func resetSendFlags() {
	sendBody = ""
	sendHeaders = []string{}
	sendSync = false
	if flag := sendCmd.Flags().Lookup("body"); flag != nil {
		flag.Changed = false
	}
}

// perform runs one step and prints its trace. Misuse errors from the fake
// request are returned; an unanswered request is not an error.
func perform(h *harness.Harness, p *printer, step fixture.Step) (*xhr.Request, error) {
	req := h.NewRequest()
	async := !step.Sync
	if async {
		req.AddEventListener(event.TypeReadyStateChange, event.ListenerFunc(func(*event.Event) {
			p.transition(req.ReadyState())
		}))
	}

	p.request(step.Method, step.URL, async)
	req.OpenWith(xhr.NewOpenParam(step.Method, step.URL).WithAsync(async))

	names := make([]string, 0, len(step.Headers))
	for name := range step.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := req.SetRequestHeader(name, step.Headers[name]); err != nil {
			p.err(err)
			return req, err
		}
	}

	var body any
	if step.Body != nil {
		body = *step.Body
	}
	if err := req.Send(body); err != nil {
		p.err(err)
		return req, err
	}
	p.response(req)
	return req, nil
}

func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, line := range raw {
		name, value, found := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", line)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}
