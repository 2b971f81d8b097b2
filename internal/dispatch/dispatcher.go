package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/descope-sample-apps/crewai-app/internal/agent"
	"github.com/descope-sample-apps/crewai-app/internal/config"
	"github.com/descope-sample-apps/crewai-app/internal/descope"
	"github.com/descope-sample-apps/crewai-app/internal/google"
	"github.com/descope-sample-apps/crewai-app/internal/instrumentation"
	"github.com/descope-sample-apps/crewai-app/internal/logging"
	"github.com/descope-sample-apps/crewai-app/internal/tools"
)

// Agent personas bound to the tasks.
const (
	calendarAgentName = "calendar_manager"
	calendarAgentRole = "You manage Google Calendar for the user. Create the events their request asks for, " +
		"resolving relative dates to concrete RFC 3339 timestamps and inviting the people they mention."

	contactsAgentName = "contacts_finder"
	contactsAgentRole = "You find people in the user's Google Contacts. Search for the contacts their request " +
		"mentions and report names, email addresses, and anything else the contact record carries."

	crewAgentName = "crew_manager"
	crewAgentRole = "You coordinate calendar management and contact lookup for the user. Use the contact search " +
		"to resolve people, then create any calendar events the request asks for."
)

// Section labels used in the combined text.
const (
	calendarSection = "=== Calendar ==="
	contactsSection = "=== Contacts ==="
)

// noResultsText is returned when no task produced any output.
const noResultsText = "No results were produced for this request."

// Dispatcher builds per-request task executions and aggregates their
// results.
type Dispatcher struct {
	mode    string
	llm     agent.LLM
	fetcher google.TokenFetcher
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	// runTask executes one bounded task; tests substitute a stub.
	runTask func(ctx context.Context, name, role string, taskTools []agent.Tool, request string) (string, error)
}

// New creates a Dispatcher for the configured execution mode.
func New(cfg *config.Config, llm agent.LLM, fetcher google.TokenFetcher, logger *slog.Logger, metrics *instrumentation.Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		mode:    cfg.Mode,
		llm:     llm,
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
	}
	d.runTask = func(ctx context.Context, name, role string, taskTools []agent.Tool, request string) (string, error) {
		executor := agent.NewExecutor(name, role, d.llm, taskTools, agent.WithLogger(d.logger))
		return executor.Run(ctx, request)
	}
	return d
}

// Dispatch runs the user's request under the configured mode. The returned
// error is terminal (a 500 at the HTTP layer); per-task failures are
// reported inside the CombinedResult instead.
func (d *Dispatcher) Dispatch(ctx context.Context, userRequest string, identity *descope.Identity) (*CombinedResult, error) {
	// Tokens are minted per request per integration; the provider binds the
	// broker to this request's verified identity and goes away with it.
	provider := google.NewDelegatedTokenProvider(d.fetcher, identity.UserID, identity.SessionToken)

	calendarTool := tools.NewCalendarTool(provider, d.logger, d.metrics)
	contactsTool := tools.NewContactsTool(provider, d.logger, d.metrics)

	switch d.mode {
	case config.ModeCrew:
		return d.dispatchCrew(ctx, userRequest, calendarTool, contactsTool)
	default:
		return d.dispatchSplit(ctx, userRequest, calendarTool, contactsTool)
	}
}

// dispatchCrew runs one pipeline bound to every tool. The pipeline is
// opaque: if it fails, the whole request fails.
func (d *Dispatcher) dispatchCrew(ctx context.Context, userRequest string, taskTools ...agent.Tool) (*CombinedResult, error) {
	start := time.Now()
	output, err := d.runTask(ctx, crewAgentName, crewAgentRole, taskTools, userRequest)
	if err != nil {
		d.metrics.RecordTaskExecution(ctx, "crew", d.mode, instrumentation.StatusError, time.Since(start))
		return nil, fmt.Errorf("crew execution failed: %w", err)
	}
	d.metrics.RecordTaskExecution(ctx, "crew", d.mode, instrumentation.StatusSuccess, time.Since(start))

	return &CombinedResult{
		Success: true,
		Results: []TaskResult{{
			Integration: "crew",
			Status:      StatusSuccess,
			Output:      output,
		}},
		CombinedText: output,
	}, nil
}

// dispatchSplit runs one isolated task per capability, sequentially. Each
// task has its own failure boundary; nothing a task does can prevent the
// next one from running.
func (d *Dispatcher) dispatchSplit(ctx context.Context, userRequest string, calendarTool, contactsTool agent.Tool) (*CombinedResult, error) {
	results := []TaskResult{
		d.runIsolated(ctx, google.IntegrationCalendar, calendarAgentName, calendarAgentRole, calendarTool, userRequest),
		d.runIsolated(ctx, google.IntegrationContacts, contactsAgentName, contactsAgentRole, contactsTool, userRequest),
	}

	return &CombinedResult{
		Success:      results[0].Succeeded() && results[1].Succeeded(),
		Results:      results,
		CombinedText: combineText(results),
	}, nil
}

// runIsolated executes one task and converts any failure, including a
// panicking task engine, into a failure-tagged result.
func (d *Dispatcher) runIsolated(ctx context.Context, integration, name, role string, tool agent.Tool, request string) (result TaskResult) {
	logger := d.logger.With(logging.Task(name), logging.Mode(d.mode))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", logging.Err(fmt.Errorf("%v", r)))
			d.metrics.RecordTaskExecution(ctx, integration, d.mode, instrumentation.StatusError, time.Since(start))
			result = TaskResult{
				Integration: integration,
				Status:      StatusFailure,
				Output:      fmt.Sprintf("task execution failed: %v", r),
			}
		}
	}()

	output, err := d.runTask(ctx, name, role, []agent.Tool{tool}, request)
	if err != nil {
		logger.Warn("task failed", logging.Err(err))
		d.metrics.RecordTaskExecution(ctx, integration, d.mode, instrumentation.StatusError, time.Since(start))
		return TaskResult{
			Integration: integration,
			Status:      StatusFailure,
			Output:      err.Error(),
		}
	}

	logger.Info("task completed",
		logging.Integration(integration),
		logging.Status(logging.StatusSuccess))
	d.metrics.RecordTaskExecution(ctx, integration, d.mode, instrumentation.StatusSuccess, time.Since(start))

	return TaskResult{
		Integration: integration,
		Status:      StatusSuccess,
		Output:      output,
	}
}

// combineText builds the human-readable aggregate, one labeled section per
// task that produced output.
func combineText(results []TaskResult) string {
	var sections []string
	for _, result := range results {
		if result.Output == "" {
			continue
		}
		sections = append(sections, sectionLabel(result.Integration)+"\n"+result.Output)
	}

	if len(sections) == 0 {
		return noResultsText
	}
	return strings.Join(sections, "\n\n")
}

func sectionLabel(integration string) string {
	switch integration {
	case google.IntegrationCalendar:
		return calendarSection
	case google.IntegrationContacts:
		return contactsSection
	default:
		return "=== " + integration + " ==="
	}
}
