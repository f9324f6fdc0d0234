package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hrygo/northstar/plugin/ai/agent"
)

// classification is what the classify command prints for one message.
type classification struct {
	Message    string          `json:"message" yaml:"message"`
	Intent     agent.Intent    `json:"intent" yaml:"intent"`
	Confidence float64         `json:"confidence" yaml:"confidence"`
	Method     string          `json:"method" yaml:"method"`
	AgentType  agent.AgentType `json:"agent_type" yaml:"agent_type"`
	Route      string          `json:"suggested_route" yaml:"suggested_route"`
}

func newClassifyCommand() *cobra.Command {
	var (
		output   string
		awaiting bool
	)
	cmd := &cobra.Command{
		Use:   "classify <message>...",
		Short: "Classify messages and show the agent each one is routed to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := classifyMessages(args, awaiting)
			return writeClassifications(cmd.OutOrStdout(), output, results)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	cmd.Flags().BoolVar(&awaiting, "awaiting-confirmation", false, "treat messages as answers to a hand-off question")
	return cmd
}

func classifyMessages(messages []string, awaiting bool) []classification {
	classifier := agent.NewIntentClassifier()
	selector := agent.NewSelector(agent.DefaultRegistry())

	results := make([]classification, 0, len(messages))
	for _, message := range messages {
		r := classifier.Classify(message, agent.ClassifyContext{AwaitingConfirmation: awaiting})
		selected := selector.Select(r.Intent)
		results = append(results, classification{
			Message:    message,
			Intent:     r.Intent,
			Confidence: r.Confidence,
			Method:     r.Method,
			AgentType:  selected,
			Route:      agent.RouteFor(selected),
		})
	}
	return results
}

func writeClassifications(w io.Writer, format string, results []classification) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(results)
	case "text", "":
		for _, r := range results {
			if _, err := fmt.Fprintf(w, "%-40q %-24s %.2f %-12s -> %s (%s)\n",
				r.Message, r.Intent, r.Confidence, r.Method, r.AgentType, r.Route); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
