package main

import (
	"errors"
	"fmt"
)

// Publisher orchestrates the daily policy across all configured languages.
// Languages are processed sequentially in priority order; each language's
// outcome is independent, with no cross-language rollback.
type Publisher struct {
	sched *Scheduler
	store *Store
	cfg   *Config
}

// NewPublisher creates a publisher over the given scheduler.
func NewPublisher(sched *Scheduler, cfg *Config) *Publisher {
	return &Publisher{sched: sched, store: sched.store, cfg: cfg}
}

// Paused reports whether the operator pause marker halts all publishing.
func (p *Publisher) Paused() bool {
	return p.store.MarkerExists(PauseMarker)
}

// SkipToday reports whether the operator skip-today marker halts this run.
func (p *Publisher) SkipToday() bool {
	return p.store.MarkerExists(SkipTodayMarker)
}

// PublishForLanguage attempts a single publish for one language. Failures
// are converted into structured results so orchestration over multiple
// languages can continue; nothing is propagated as a panic.
func (p *Publisher) PublishForLanguage(code string) PublishResult {
	result := PublishResult{Language: code}

	if !p.store.HasDir(code, SectionQueue) {
		result.Reason = ReasonNoQueueDir
		return result
	}

	decision, err := p.sched.PublishToday(code)
	if err != nil {
		result.Reason = ReasonProcessingError
		result.Error = err.Error()
		if decision != nil && decision.Record != nil {
			result.Title = decision.Record.Title()
			result.Slug = decision.Record.Slug()
		}
		return result
	}

	if decision.Action == ActionSkip {
		result.Reason = decision.Reason
		return result
	}

	result.Success = true
	result.Title = decision.Record.Title()
	result.Slug = decision.Record.Slug()
	return result
}

// PublishAll runs the daily policy for every target language, attempting up
// to maxPerLanguagePerDay sequential publishes per language. A language is
// abandoned for the day as soon as its queue is empty or the policy says
// skip; a processing error counts as a failure but the next attempt (and
// the next language) still runs.
func (p *Publisher) PublishAll() (*PublishReport, error) {
	report := &PublishReport{}

	if p.Paused() {
		report.Halted = "publishing paused by operator marker"
		return report, nil
	}
	if p.SkipToday() {
		report.Halted = "skip-today marker present"
		return report, nil
	}

	for _, lang := range p.cfg.TargetLanguages() {
		summary := LanguageSummary{Language: lang.Code}

		for i := 0; i < p.cfg.Publishing.MaxPerLanguagePerDay; i++ {
			result := p.PublishForLanguage(lang.Code)
			report.Results = append(report.Results, result)

			if result.Success {
				summary.Published++
				summary.Titles = append(summary.Titles, result.Title)
				report.TotalPublished++
				continue
			}
			if result.Reason == ReasonProcessingError {
				summary.Failed++
				continue
			}
			// empty_queue, no_queue_dir, weekend, already published:
			// nothing more will come out of this language today.
			break
		}

		report.Summary = append(report.Summary, summary)
	}

	return report, nil
}

// DryRun checks what a publish run would do without mutating the store.
// Used by the test command.
func (p *Publisher) DryRun(code string) (*Decision, error) {
	if !p.store.HasDir(code, SectionQueue) {
		return nil, fmt.Errorf("%s: no queue directory", code)
	}
	return p.sched.Decide(code)
}

// errIsNotFound reports whether err is one of the not-found sentinels.
func errIsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrDraftNotFound)
}
