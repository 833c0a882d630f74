package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show queue and buffer health per language",
	RunE:  runStatus,
}

var previewCmd = &cobra.Command{
	Use:   "preview [days]",
	Short: "Project content availability for the coming days",
	Long: `Preview shows which languages would still have content to publish
N days out, derived purely from current queue sizes. Nothing is scheduled
or mutated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the publishing queue",
}

var queueAddCmd = &cobra.Command{
	Use:   "add <file> <lang>",
	Short: "Move a draft into the queue",
	Args:  cobra.ExactArgs(2),
	RunE:  runQueueAdd,
}

var queueListCmd = &cobra.Command{
	Use:   "list [lang]",
	Short: "List queued and scheduled articles",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQueueList,
}

var queueStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show queue counts per language",
	RunE:  runStatus,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage scheduled publish dates",
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set <file> <date> <lang>",
	Short: "Schedule a queued article for a specific date",
	Args:  cobra.ExactArgs(3),
	RunE:  runScheduleSet,
}

var scheduleListCmd = &cobra.Command{
	Use:   "list [lang]",
	Short: "List scheduled articles by date",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScheduleList,
}

var scheduleAutoCmd = &cobra.Command{
	Use:   "auto [lang]",
	Short: "Auto-assign collision-free publish dates to all queued articles",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScheduleAuto,
}

var publishCmd = &cobra.Command{
	Use:   "publish [lang]",
	Short: "Run the daily publish for all languages or one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPublish,
}

var testCmd = &cobra.Command{
	Use:   "test [lang]",
	Short: "Dry-run the daily publish decision, no mutation",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTest,
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage drafts",
}

var draftImportCmd = &cobra.Command{
	Use:   "import <url> <lang>",
	Short: "Fetch a web page and create a draft from it",
	Args:  cobra.ExactArgs(2),
	RunE:  runDraftImport,
}

var validateCmd = &cobra.Command{
	Use:   "validate [lang]",
	Short: "Validate content metadata and report problems per file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pressctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pressctl %s\n", version)
	},
}

func init() {
	queueAddCmd.Flags().String("priority", PriorityNormal, "queue priority (high, normal, low)")
	publishCmd.Flags().Bool("json", false, "output the publish report as JSON")

	queueCmd.AddCommand(queueAddCmd, queueListCmd, queueStatusCmd)
	scheduleCmd.AddCommand(scheduleSetCmd, scheduleListCmd, scheduleAutoCmd)
	draftCmd.AddCommand(draftImportCmd)
	rootCmd.AddCommand(statusCmd, previewCmd, queueCmd, scheduleCmd, publishCmd, testCmd, draftCmd, validateCmd, versionCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, qm, _, _ := newPipeline()
	printer := newPrinter()

	reports, err := qm.HealthAll()
	if err != nil {
		return err
	}

	printer.Header("Content status")
	table := newTable(os.Stdout, []string{"LANG", "QUEUED", "SCHEDULED", "PUBLISHED", "BUFFER", "HEALTH"})
	var rows [][]string
	totalQueued, totalPublished := 0, 0
	for _, h := range reports {
		rows = append(rows, []string{
			h.Language.Code,
			strconv.Itoa(h.QueuedCount),
			strconv.Itoa(h.ScheduledCount),
			strconv.Itoa(h.PublishedCount),
			strconv.Itoa(h.Buffer),
			printer.HealthBadge(h.Level),
		})
		totalQueued += h.Buffer
		totalPublished += h.PublishedCount
	}
	_ = table.Bulk(rows)
	_ = table.Render()
	printer.Print("")
	printer.Info("Total: %d article(s) buffered, %d published", totalQueued, totalPublished)

	for _, h := range reports {
		for _, slug := range h.DuplicateSlugs {
			printer.Warning("%s: duplicate slug %q in queue/published union", h.Language.Code, slug)
		}
		for _, path := range h.MalformedFiles {
			printer.Warning("%s: malformed frontmatter in %s", h.Language.Code, path)
		}
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	days := 7
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid day count %q", args[0])
		}
		days = n
	}

	_, qm, _, _ := newPipeline()
	printer := newPrinter()

	// Remaining runway per language, consumed one article per publish day.
	runway := make(map[string]int)
	langs := cfg.LanguagesByPriority()
	headers := []string{"DATE", "DAY"}
	for _, lang := range langs {
		h, err := qm.Health(lang)
		if err != nil {
			return err
		}
		runway[lang.Code] = h.Buffer
		headers = append(headers, lang.Code)
	}

	printer.Header(fmt.Sprintf("Publish preview, next %d day(s)", days))
	table := newTable(os.Stdout, headers)
	var rows [][]string
	for i := 1; i <= days; i++ {
		day := time.Now().AddDate(0, 0, i)
		weekend := day.Weekday() == time.Saturday || day.Weekday() == time.Sunday
		row := []string{day.Format(dateLayout), day.Weekday().String()[:3]}
		for _, lang := range langs {
			switch {
			case cfg.Publishing.SkipWeekends && weekend:
				row = append(row, "-")
			case runway[lang.Code] > 0:
				runway[lang.Code]--
				row = append(row, "yes")
			default:
				row = append(row, "EMPTY")
			}
		}
		rows = append(rows, row)
	}
	_ = table.Bulk(rows)
	_ = table.Render()
	return nil
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	filename, lang := args[0], args[1]
	priority, _ := cmd.Flags().GetString("priority")

	if _, ok := cfg.Language(lang); !ok {
		return fmt.Errorf("unknown language %q", lang)
	}

	_, qm, _, _ := newPipeline()
	printer := newPrinter()

	rec, err := qm.MoveToQueue(filename, priority, lang)
	if err != nil {
		if errIsNotFound(err) {
			return fmt.Errorf("no draft %s in %s/%s", filename, lang, SectionDrafts)
		}
		return err
	}
	printer.Success("Queued %s (%s, priority %s)", rec.Filename(), lang, rec.Priority())

	if issues := ValidateRecord(rec); len(issues) > 0 {
		for _, issue := range issues {
			printer.Warning("%s: %s", issue.Field, issue.Reason)
		}
	}
	return nil
}

func runQueueList(cmd *cobra.Command, args []string) error {
	lang := ""
	if len(args) == 1 {
		lang = args[0]
	}

	_, qm, _, _ := newPipeline()
	printer := newPrinter()

	queued, err := qm.Queued(lang)
	if err != nil {
		return err
	}
	scheduled, err := qm.Scheduled(lang)
	if err != nil {
		return err
	}

	if len(queued)+len(scheduled) == 0 {
		printer.Info("Queue is empty")
		return nil
	}

	table := newTable(os.Stdout, []string{"FILE", "LANG", "TITLE", "PRIORITY", "SCHEDULED FOR"})
	var rows [][]string
	for _, rec := range scheduled {
		rows = append(rows, []string{rec.Filename(), rec.Lang, rec.Title(), rec.Priority(), rec.ScheduledFor()})
	}
	for _, rec := range queued {
		rows = append(rows, []string{rec.Filename(), rec.Lang, rec.Title(), rec.Priority(), "-"})
	}
	_ = table.Bulk(rows)
	_ = table.Render()
	return nil
}

func runScheduleSet(cmd *cobra.Command, args []string) error {
	filename, date, lang := args[0], args[1], args[2]

	_, qm, _, _ := newPipeline()
	printer := newPrinter()

	rec, err := qm.Schedule(filename, date, lang)
	if err != nil {
		if errIsNotFound(err) {
			return fmt.Errorf("no queued article %s in %s/%s", filename, lang, SectionQueue)
		}
		return err
	}
	printer.Success("Scheduled %s for %s (%s)", rec.Filename(), date, lang)
	return nil
}

func runScheduleList(cmd *cobra.Command, args []string) error {
	lang := ""
	if len(args) == 1 {
		lang = args[0]
	}

	_, qm, _, _ := newPipeline()
	printer := newPrinter()

	scheduled, err := qm.Scheduled(lang)
	if err != nil {
		return err
	}
	if len(scheduled) == 0 {
		printer.Info("Nothing scheduled")
		return nil
	}

	table := newTable(os.Stdout, []string{"DATE", "FILE", "LANG", "TITLE"})
	var rows [][]string
	for _, rec := range scheduled {
		rows = append(rows, []string{rec.ScheduledFor(), rec.Filename(), rec.Lang, rec.Title()})
	}
	_ = table.Bulk(rows)
	_ = table.Render()
	return nil
}

func runScheduleAuto(cmd *cobra.Command, args []string) error {
	lang := ""
	if len(args) == 1 {
		lang = args[0]
	}

	_, qm, _, _ := newPipeline()
	printer := newPrinter()

	count, err := qm.AutoSchedule(lang)
	if err != nil {
		return err
	}
	printer.Success("Auto-scheduled %d article(s)", count)
	return nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	_, _, _, pub := newPipeline()
	printer := newPrinter()

	if len(args) == 1 {
		result := pub.PublishForLanguage(args[0])
		if jsonOutput {
			return printJSON(result)
		}
		printResult(printer, result)
		return nil
	}

	report, err := pub.PublishAll()
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(report)
	}

	if report.Halted != "" {
		printer.Warning("Publishing halted: %s", report.Halted)
		return nil
	}
	for _, result := range report.Results {
		printResult(printer, result)
	}
	printer.Print("")
	printer.Info("Total published: %d", report.TotalPublished)
	return nil
}

func printResult(printer *Printer, result PublishResult) {
	switch {
	case result.Success:
		printer.Success("%s: published %q", result.Language, result.Title)
	case result.Reason == ReasonProcessingError:
		printer.Error("%s: %s (%s)", result.Language, result.Reason, result.Error)
	default:
		printer.Info("%s: skipped (%s)", result.Language, result.Reason)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runTest(cmd *cobra.Command, args []string) error {
	_, _, _, pub := newPipeline()
	printer := newPrinter()

	langs := cfg.TargetLanguages()
	if len(args) == 1 {
		lang, ok := cfg.Language(args[0])
		if !ok {
			return fmt.Errorf("unknown language %q", args[0])
		}
		langs = []Language{lang}
	}

	if pub.Paused() {
		printer.Warning("Pause marker present: a real run would publish nothing")
	}
	if pub.SkipToday() {
		printer.Warning("Skip-today marker present: a real run would publish nothing")
	}

	for _, lang := range langs {
		decision, err := pub.DryRun(lang.Code)
		if err != nil {
			printer.Error("%s: %v", lang.Code, err)
			continue
		}
		if decision.Action == ActionPublish {
			printer.Success("%s: would publish %q (%s)", lang.Code, decision.Record.Title(), decision.Reason)
		} else {
			printer.Info("%s: would skip (%s)", lang.Code, decision.Reason)
		}
	}
	return nil
}

func runDraftImport(cmd *cobra.Command, args []string) error {
	url, lang := args[0], args[1]

	if _, ok := cfg.Language(lang); !ok {
		return fmt.Errorf("unknown language %q", lang)
	}

	store, _, _, _ := newPipeline()
	printer := newPrinter()

	importer := NewDraftImporter(store)
	rec, err := importer.Import(url, lang)
	if err != nil {
		return fmt.Errorf("importing %s: %w", url, err)
	}
	printer.Success("Imported draft %s (%q)", rec.Path, rec.Title())
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	store, _, _, _ := newPipeline()
	printer := newPrinter()

	langs := cfg.LanguagesByPriority()
	if len(args) == 1 {
		lang, ok := cfg.Language(args[0])
		if !ok {
			return fmt.Errorf("unknown language %q", args[0])
		}
		langs = []Language{lang}
	}

	total := 0
	for _, lang := range langs {
		issues, err := ValidateLanguage(store, lang.Code)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			printer.Warning("%s: %s: %s", issue.Path, issue.Field, issue.Reason)
		}
		total += len(issues)
	}

	if total == 0 {
		printer.Success("All content records are valid")
		return nil
	}
	printer.Error("%d validation issue(s) found", total)
	return fmt.Errorf("validation failed")
}
