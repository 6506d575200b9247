package cmd

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/fake-xhr/internal/fixture"
	"github.com/rohmanhakim/fake-xhr/pkg/collection"
	"github.com/rohmanhakim/fake-xhr/pkg/xhr"
	"github.com/spf13/cobra"
)

var (
	replayScript   string
	replayFailFast bool
)

var ErrUnansweredSteps = errors.New("some requests were not answered")

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a YAML script of requests against the fixture routes",
	Long: `replay sends every step of a script in order through one registry and
prints the trace of each step followed by the call journal. It fails when a
step errors or when a step is left unanswered.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayScript == "" {
			return fmt.Errorf("--script is required")
		}
		script, err := fixture.LoadScript(appFs, replayScript)
		if err != nil {
			return err
		}
		h, err := newHarness(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		p := newPrinter(cmd.OutOrStdout())
		queue := collection.NewFIFOQueue(script.Steps...)
		var failed error
		unanswered := 0
		for {
			step, ok := queue.Dequeue()
			if !ok {
				break
			}
			req, err := perform(h, p, step)
			if err != nil {
				failed = errors.Join(failed, err)
				if replayFailFast {
					break
				}
				continue
			}
			if req.ReadyState() != xhr.Done {
				unanswered++
			}
		}

		p.calls(h.Registry().Calls())
		if unanswered > 0 {
			failed = errors.Join(failed, fmt.Errorf("%w: %d of %d", ErrUnansweredSteps, unanswered, len(script.Steps)))
		}
		return failed
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayScript, "script", "", "YAML script file with a list of steps")
	replayCmd.Flags().BoolVar(&replayFailFast, "fail-fast", false, "stop at the first step that errors")
}

func resetReplayFlags() {
	replayScript = ""
	replayFailFast = false
}
