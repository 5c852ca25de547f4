// Package assistant implements the generation-and-normalization pipeline
// that turns a free-text validation-rule request into a structured
// RuleDefinition: relevance gating, prompt assembly with contextual memory,
// schema-constrained completion with a bounded retry, and per-type header
// reconciliation.
package assistant

import (
	"context"
	"errors"
	"strings"

	"reglagen/internal/core"
	"reglagen/internal/llm"
	"reglagen/pkg/schema"
)

// Assistant is the request-scoped pipeline. It holds no per-request state;
// concurrent calls are independent.
type Assistant struct {
	completer llm.Completer
	logger    core.Logger
}

// New creates an assistant over the given completion transport.
func New(completer llm.Completer, logger core.Logger) *Assistant {
	return &Assistant{completer: completer, logger: logger}
}

// attemptState is the completion invoker's two-state machine.
type attemptState int

const (
	attemptFull attemptState = iota + 1
	attemptTruncated
)

// GenerateRuleDefinition runs the full pipeline for one message. recent is
// the caller-supplied grounding catalog (newest first); it is read, never
// mutated.
//
// Errors are either *OffTopicError (gate rejection, client error) or
// *GenerationError (pipeline failure, integration error). The artifact is
// all-or-nothing: no partial definition is ever returned.
func (a *Assistant) GenerateRuleDefinition(
	ctx context.Context,
	message string,
	recent []schema.RuleDefinition,
) (*schema.RuleDefinition, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	if gate := CheckRelevance(message); !gate.Relevant {
		a.logger.Info("message rejected by relevance gate", "reason", gate.Reason)
		return nil, &OffTopicError{Reason: gate.Reason}
	}

	catalog := AssembleContext(recent)
	catalogRequest := DetectCatalogRequest(message)
	inlineSchema := !a.completer.SupportsResponseFormat()

	state := attemptFull
	for {
		input := PromptInput{
			Message:        message,
			Catalog:        catalog,
			CatalogRequest: catalogRequest,
			Truncated:      state == attemptTruncated,
			InlineSchema:   inlineSchema,
		}
		if state == attemptTruncated {
			input.Message = truncateMessage(message, maxRetryMessageRunes)
		}

		def, err := a.attempt(ctx, input)
		if err == nil {
			def.Estado = schema.StateAccepted
			a.logger.Info("rule definition generated",
				"tipo", def.TipoDato,
				"header", def.Header,
				"needs_review", def.NeedsReview,
				"attempt", int(state),
			)
			return def, nil
		}

		if state == attemptFull && recoverable(err) {
			a.logger.Warn("attempt 1 failed, retrying with truncated message",
				"error", err.Error(),
			)
			state = attemptTruncated
			continue
		}

		// At most one retry, ever.
		a.logger.Error("rule generation failed",
			"attempt", int(state),
			"error", err.Error(),
		)
		return nil, asTerminal(err)
	}
}

// attempt runs one completion plus postprocessing pass.
func (a *Assistant) attempt(ctx context.Context, input PromptInput) (*schema.RuleDefinition, error) {
	req := ComposePrompt(input)

	raw, err := a.completer.Complete(ctx, req)
	if err != nil {
		var llmErr *llm.LLMError
		if errors.As(err, &llmErr) && llmErr.Recoverable() {
			return nil, newRecoverable(StageCompletion, llmErr.Message, err)
		}
		return nil, newTerminal(StageCompletion, err.Error(), err)
	}

	cand, err := NormalizeResponse(raw)
	if err != nil {
		return nil, err
	}

	if err := ValidateStructure(cand); err != nil {
		return nil, err
	}

	// Reconciliation failures are never retried: the model already produced
	// a structurally valid candidate, so a second completion would only
	// guess at business intent.
	if err := Reconcile(&cand.def); err != nil {
		return nil, err
	}

	return &cand.def, nil
}

func recoverable(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Recoverable
}

// asTerminal strips the recoverable flag from an error that has exhausted
// its retry, so callers see a terminal failure.
func asTerminal(err error) error {
	var genErr *GenerationError
	if errors.As(err, &genErr) && genErr.Recoverable {
		return newTerminal(genErr.Stage, genErr.Message, genErr.Err)
	}
	return err
}
