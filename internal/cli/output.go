package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rohmanhakim/fake-xhr/pkg/router"
	"github.com/rohmanhakim/fake-xhr/pkg/xhr"
)

// printer writes human readable request traces.
type printer struct {
	out   io.Writer
	ok    *color.Color
	warn  *color.Color
	fail  *color.Color
	faint *color.Color
	bold  *color.Color
}

func newPrinter(out io.Writer) *printer {
	return &printer{
		out:   out,
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed),
		faint: color.New(color.Faint),
		bold:  color.New(color.Bold),
	}
}

func (p *printer) request(method string, url string, async bool) {
	mode := "async"
	if !async {
		mode = "sync"
	}
	p.bold.Fprintf(p.out, "%s %s", method, url)
	p.faint.Fprintf(p.out, " (%s)\n", mode)
}

func (p *printer) transition(state xhr.ReadyState) {
	p.faint.Fprintf(p.out, "  -> %s\n", state)
}

func (p *printer) response(req *xhr.Request) {
	switch {
	case req.Aborted():
		p.warn.Fprintln(p.out, "aborted")
		return
	case req.ReadyState() != xhr.Done:
		p.warn.Fprintf(p.out, "no response, request left %s\n", req.ReadyState())
		return
	}

	status := p.ok
	if req.Status() >= 400 {
		status = p.fail
	}
	statusText, _ := req.StatusText()
	status.Fprintf(p.out, "%d %s\n", req.Status(), statusText)
	if headers := req.GetAllResponseHeaders(); headers != "" {
		fmt.Fprint(p.out, strings.ReplaceAll(headers, "\r\n", "\n"))
	}
	if text := req.ResponseText(); text != "" {
		fmt.Fprintf(p.out, "\n%s\n", text)
	}
}

func (p *printer) err(err error) {
	p.fail.Fprintf(p.out, "error: %s\n", err)
}

func (p *printer) calls(calls []router.Call) {
	p.bold.Fprintf(p.out, "%d call(s)\n", len(calls))
	for i, call := range calls {
		mark := p.ok
		switch {
		case !call.Matched:
			mark = p.fail
		case !call.Handled:
			mark = p.warn
		}
		mark.Fprintf(p.out, "%3d %s %s", i+1, call.Method, call.URL)
		p.faint.Fprintf(p.out, " host=%s path=%s matched=%t handled=%t", call.Host, call.Pathname, call.Matched, call.Handled)
		if call.BodyDigest != "" {
			p.faint.Fprintf(p.out, " body=%s", call.BodyDigest[:min(12, len(call.BodyDigest))])
		}
		fmt.Fprintln(p.out)
	}
}
