package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/mj1618/macropad/internal/executor"
	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/output"
	"github.com/spf13/cobra"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger <button>",
	Short: "Simulate pressing, holding and releasing a button",
	Long: `Run the macro bound to a button as if the pad had reported it: press,
hold for --hold, then release. The dryrun backend is used unless --backend
names another one, so this is safe for checking a profile.

Examples:
  macropad trigger 22
  macropad trigger 13 --hold 500ms --backend auto`,
	Args: cobra.ExactArgs(1),
	RunE: runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
	addProfileFlags(triggerCmd, "dryrun")
	triggerCmd.Flags().Duration("hold", 100*time.Millisecond, "How long the button stays pressed")
}

// errorCollector gathers capability errors reported during a run.
type errorCollector struct {
	mu   sync.Mutex
	errs []*executor.CapabilityError
}

func (c *errorCollector) record(err *executor.CapabilityError) {
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
}

func (c *errorCollector) take() []*executor.CapabilityError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.errs
	c.errs = nil
	return out
}

func runTrigger(cmd *cobra.Command, args []string) error {
	id, err := requireButton(args[0])
	if err != nil {
		return err
	}
	hold, _ := cmd.Flags().GetDuration("hold")

	res, _, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	if res.Profile.Actions(id) == nil {
		logger.Warn("button has no macro", "button", int(id))
	}

	var collector errorCollector
	eng, err := newEngine(cmd, res, "dryrun", executor.WithErrorHandler(collector.record))
	if err != nil {
		return err
	}
	defer eng.Close()

	step := func(edge model.Edge) output.StepResult {
		eng.exec.Handle(model.ButtonEvent{Button: id, Edge: edge, Time: time.Now()})
		r := output.StepResult{OK: true, Button: int(id), Edge: edge.String()}
		if edge == model.Pressed {
			r.Actions = len(res.Profile.Actions(id))
		}
		for _, k := range eng.exec.Held(id) {
			r.Held = append(r.Held, k.String())
		}
		if errs := collector.take(); len(errs) > 0 {
			r.OK = false
			r.Error = errs[0].Error()
			if len(errs) > 1 {
				r.Error = fmt.Sprintf("%s (and %d more)", r.Error, len(errs)-1)
			}
		}
		return r
	}

	results := []output.StepResult{step(model.Pressed)}
	time.Sleep(hold)
	results = append(results, step(model.Released))

	if err := output.Print(results); err != nil {
		return err
	}
	for _, r := range results {
		if !r.OK {
			return fmt.Errorf("button %d: %s", id, r.Error)
		}
	}
	return nil
}
