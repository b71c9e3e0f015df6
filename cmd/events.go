package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quiztutor/internal/llm"
	"github.com/abhisek/quiztutor/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect recorded question fetches, tutor exchanges and LLM calls",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent events, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		since, _ := cmd.Flags().GetDuration("since")

		switch store.Kind(kind) {
		case "", store.KindQuestionFetch, store.KindTutorExchange, store.KindLLMRequest:
		default:
			return fmt.Errorf("unknown kind %q (want fetch, tutor or llm)", kind)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{}
		if kind == "" {
			opts.Limit = limit
		}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}

		entries, err := s.Events().Timeline(context.Background(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if kind != "" {
			entries = filterKind(entries, store.Kind(kind), limit)
		}

		if len(entries) == 0 {
			fmt.Println("No events found.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %-6s  %-3s  %s\n", "Seq", "Timestamp", "Kind", "OK", "Summary")
		fmt.Println(strings.Repeat("─", 100))
		for _, e := range entries {
			fmt.Printf("%-6d  %-19s  %-6s  %-3s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Kind,
				okMark(e.Success),
				truncate(oneLine(e.Summary), 60),
			)
		}
		return nil
	},
}

var eventsViewCmd = &cobra.Command{
	Use:   "view <seq>",
	Short: "Show every recorded field of one event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sequence %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		ev := s.Events()
		kind, id, ok, err := ev.FindSequence(ctx, seq)
		if err != nil {
			return fmt.Errorf("find event: %w", err)
		}
		if !ok {
			return fmt.Errorf("event %d not found", seq)
		}

		switch kind {
		case store.KindQuestionFetch:
			e, err := ev.GetQuestionFetch(ctx, id)
			if err != nil || e == nil {
				return eventMissing(seq, err)
			}
			printMeta(e.EventMeta, kind)
			fmt.Printf("URL:       %s\n", e.URL)
			fmt.Printf("Questions: %d\n", e.QuestionCount)
			fmt.Printf("Latency:   %dms\n", e.LatencyMs)
			printOutcome(e.Success, e.ErrorMessage)

		case store.KindTutorExchange:
			e, err := ev.GetTutorExchange(ctx, id)
			if err != nil || e == nil {
				return eventMissing(seq, err)
			}
			printMeta(e.EventMeta, kind)
			fmt.Printf("Backend:   %s\n", e.Backend)
			fmt.Printf("Question:  %d\n", e.QuestionIndex+1)
			fmt.Printf("Answer:    %s\n", e.Answer)
			fmt.Printf("Session:   %s\n", e.SessionID)
			fmt.Printf("Latency:   %dms\n", e.LatencyMs)
			printOutcome(e.Success, e.ErrorMessage)
			printSection("QUERY", e.Query)
			printSection("REPLY", e.Reply)

		case store.KindLLMRequest:
			e, err := ev.GetLLMEvent(ctx, id)
			if err != nil || e == nil {
				return eventMissing(seq, err)
			}
			printMeta(e.EventMeta, kind)
			fmt.Printf("Provider:  %s\n", e.Provider)
			fmt.Printf("Model:     %s\n", e.Model)
			fmt.Printf("Purpose:   %s\n", e.Purpose)
			fmt.Printf("Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
			fmt.Printf("Latency:   %dms\n", e.LatencyMs)
			printOutcome(e.Success, e.ErrorMessage)
			printSection("REQUEST", e.RequestBody)
			printSection("RESPONSE", e.ResponseBody)
		}
		return nil
	},
}

var eventsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tutor session counts, LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		ev := s.Events()

		sessions, err := ev.TutorSessionCounts(ctx)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		printSessions(sessions)

		stats, err := ev.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("\nNo LLM usage recorded yet.")
			return nil
		}

		fmt.Println()
		fmt.Println("LLM Usage by Purpose")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		fmt.Println(strings.Repeat("─", 72))

		var totalCalls, totalIn, totalOut int
		for _, st := range stats {
			fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
				st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n",
			"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)

		modelUsage, err := ev.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		printCost(modelUsage)
		return nil
	},
}

func init() {
	eventsListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsListCmd.Flags().StringP("kind", "k", "", "Only show one kind: fetch, tutor or llm")
	eventsListCmd.Flags().Duration("since", 0, "Only show events newer than this (e.g. 2h)")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsViewCmd)
	eventsCmd.AddCommand(eventsStatsCmd)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func filterKind(entries []store.TimelineEntry, kind store.Kind, limit int) []store.TimelineEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.Kind != kind {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func eventMissing(seq int64, err error) error {
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	return fmt.Errorf("event %d not found", seq)
}

func printMeta(m store.EventMeta, kind store.Kind) {
	fmt.Printf("Sequence:  %d\n", m.Sequence)
	fmt.Printf("Kind:      %s\n", kind)
	fmt.Printf("Time:      %s\n", m.Timestamp.Local().Format("2006-01-02 15:04:05"))
}

func printOutcome(success bool, msg string) {
	fmt.Printf("Success:   %v\n", success)
	if msg != "" {
		fmt.Printf("Error:     %s\n", msg)
	}
}

func printSection(title, body string) {
	sep := strings.Repeat("─", 60)
	fmt.Println()
	fmt.Println(sep)
	fmt.Println(title)
	fmt.Println(sep)
	if body == "" {
		fmt.Println("(not captured)")
		return
	}
	fmt.Println(body)
}

func printSessions(counts map[string]int) {
	fmt.Println("Tutor Sessions")
	fmt.Println(strings.Repeat("─", 52))
	if len(counts) == 0 {
		fmt.Println("No tutor sessions recorded yet.")
		return
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	fmt.Printf("%-40s  %10s\n", "Session", "Exchanges")
	for _, id := range ids {
		fmt.Printf("%-40s  %10d\n", truncate(id, 40), counts[id])
	}
}

func printCost(usage []store.LLMUsage) {
	if len(usage) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Estimated Cost (USD)")
	fmt.Println(strings.Repeat("─", 72))
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n",
		"Model", "Calls", "Input", "Output", "Cost")
	fmt.Println(strings.Repeat("─", 72))

	var totalCost float64
	var unknownModels []string
	for _, mu := range usage {
		cost := llm.LookupCost(mu.Model)
		if cost == nil {
			unknownModels = append(unknownModels, mu.Model)
			fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
				truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
			continue
		}
		c := cost.Cost(mu.InputTokens, mu.OutputTokens)
		totalCost += c
		fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
			truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
	}

	fmt.Println(strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unknownModels) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))

	if len(unknownModels) > 0 {
		fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
	}
}

func okMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
