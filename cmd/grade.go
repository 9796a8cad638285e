package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/linguakit/linguakit/internal/diagnostics"
	"github.com/linguakit/linguakit/internal/feedback"
	"github.com/linguakit/linguakit/internal/llm"
	"github.com/linguakit/linguakit/internal/signal"
	"github.com/linguakit/linguakit/internal/store"
)

// gradeInput is the JSON document the grade command reads: the learner's
// production plus whatever diagnostic results the caller collected.
type gradeInput struct {
	Modality     signal.Modality `json:"modality"`
	LearnerText  string          `json:"learnerText"`
	ExpectedText string          `json:"expectedText"`
	Context      string          `json:"context"`

	Grammar       *signal.GrammarResult       `json:"grammar"`
	Semantic      *signal.SemanticResult      `json:"semantic"`
	Pronunciation *signal.PronunciationResult `json:"pronunciation"`
	Intonation    *signal.IntonationResult    `json:"intonation"`
	Relevance     *signal.RelevanceResult     `json:"relevance"`
}

var gradeCmd = &cobra.Command{
	Use:   "grade [signals.json]",
	Short: "Grade one submission and record its errors",
	Long: "Reads diagnostic signal results from a JSON file (or stdin with -) and " +
		"merges them into one graded report. With --analyze, the grammar and " +
		"semantic signals are produced by the configured model instead.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		in, err := collectSignals(cmd, args)
		if err != nil {
			return err
		}
		in.UserID = userID
		in.SessionID = sessionID

		report, err := feedback.Aggregate(*in)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		logs := make([]store.ErrorLog, 0, len(report.Errors))
		for _, o := range report.Errors {
			logs = append(logs, store.FromOccurrence(userID, sessionID, o, report.CreatedAt))
		}
		if err := s.ErrorLogRepo().Append(ctx, store.Dedupe(logs)); err != nil {
			return fmt.Errorf("record errors: %w", err)
		}
		if err := s.ReportRepo().Save(ctx, store.ReportRecord{
			UserID:       userID,
			SessionID:    sessionID,
			Modality:     string(report.Modality),
			OverallScore: report.OverallScore,
			ErrorCount:   len(report.Errors),
			CreatedAt:    report.CreatedAt,
		}); err != nil {
			return fmt.Errorf("record report: %w", err)
		}

		printReport(report)
		return nil
	},
}

func init() {
	gradeCmd.Flags().String("user", "default", "Learner ID to grade for")
	gradeCmd.Flags().String("session", "", "Session ID (generated when empty)")
	gradeCmd.Flags().Bool("analyze", false, "Run the configured model for grammar and semantic signals")
	gradeCmd.Flags().String("learner", "", "Learner production (with --analyze)")
	gradeCmd.Flags().String("expected", "", "Expected meaning (with --analyze)")
	gradeCmd.Flags().String("language", "English", "Target language (with --analyze)")
	gradeCmd.Flags().String("topic", "", "Conversation topic; enables the relevance signal (with --analyze)")
	gradeCmd.Flags().String("context", "", "Submission origin, e.g. chaos_window")
}

func collectSignals(cmd *cobra.Command, args []string) (*feedback.Input, error) {
	analyze, _ := cmd.Flags().GetBool("analyze")
	if analyze {
		return analyzeSignals(cmd)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("a signals file is required unless --analyze is set")
	}
	return readSignals(cmd, args[0])
}

func readSignals(cmd *cobra.Command, path string) (*feedback.Input, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read signals: %w", err)
	}

	var doc gradeInput
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse signals: %w", err)
	}
	if doc.Modality == "" {
		doc.Modality = signal.ModalityText
	}

	ctxLabel, _ := cmd.Flags().GetString("context")
	if ctxLabel == "" {
		ctxLabel = doc.Context
	}

	return &feedback.Input{
		Modality:      doc.Modality,
		LearnerText:   doc.LearnerText,
		ExpectedText:  doc.ExpectedText,
		Context:       ctxLabel,
		Grammar:       doc.Grammar,
		Semantic:      doc.Semantic,
		Pronunciation: doc.Pronunciation,
		Intonation:    doc.Intonation,
		Relevance:     doc.Relevance,
	}, nil
}

// analyzeSignals produces the text-modality signals with the configured
// model. Speech signals come from external tooling and cannot be
// produced here.
func analyzeSignals(cmd *cobra.Command) (*feedback.Input, error) {
	learner, _ := cmd.Flags().GetString("learner")
	expected, _ := cmd.Flags().GetString("expected")
	language, _ := cmd.Flags().GetString("language")
	topic, _ := cmd.Flags().GetString("topic")
	ctxLabel, _ := cmd.Flags().GetString("context")
	if learner == "" || expected == "" {
		return nil, fmt.Errorf("--analyze requires --learner and --expected")
	}

	ctx := cmd.Context()
	provider, err := llm.New(ctx, llm.FromEnv())
	if err != nil {
		return nil, fmt.Errorf("configure model provider: %w", err)
	}

	sub := diagnostics.Submission{
		LearnerText:  learner,
		ExpectedText: expected,
		Language:     language,
		Topic:        topic,
	}
	cfg := diagnostics.DefaultAnalyzerConfig()
	grammarAnalyzer := diagnostics.WithGrammarCache(
		diagnostics.NewGrammarAnalyzer(provider, cfg), diagnostics.DefaultCacheTTL)
	semanticAnalyzer := diagnostics.WithSemanticCache(
		diagnostics.NewSemanticAnalyzer(provider, cfg), diagnostics.DefaultCacheTTL)

	grammar, err := grammarAnalyzer.AnalyzeGrammar(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("grammar analysis: %w", err)
	}
	semantic, err := semanticAnalyzer.CompareMeaning(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("semantic comparison: %w", err)
	}

	in := &feedback.Input{
		Modality:     signal.ModalityText,
		LearnerText:  learner,
		ExpectedText: expected,
		Context:      ctxLabel,
		Grammar:      grammar,
		Semantic:     semantic,
	}
	if topic != "" {
		relevance, err := diagnostics.NewRelevanceAnalyzer(provider, cfg).AssessRelevance(ctx, sub)
		if err != nil {
			return nil, fmt.Errorf("relevance assessment: %w", err)
		}
		in.Relevance = relevance
	}
	return in, nil
}

var (
	scoreGoodStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E"))
	scoreMidStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EAB308"))
	scoreLowStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F43F5E"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
)

func printReport(r *feedback.Report) {
	style := scoreLowStyle
	switch {
	case r.OverallScore >= 80:
		style = scoreGoodStyle
	case r.OverallScore >= 60:
		style = scoreMidStyle
	}

	fmt.Printf("%s %s\n", labelStyle.Render("Overall score:"), style.Render(fmt.Sprintf("%d/100", r.OverallScore)))
	fmt.Printf("%s %s, session %s, %s\n",
		labelStyle.Render("Submission:"), r.Modality, r.SessionID,
		r.CreatedAt.Local().Format(time.RFC822))

	fmt.Println(labelStyle.Render("Signals:"))
	for _, c := range feedback.Components {
		fmt.Printf("  %-14s %s\n", c, r.Components[c])
	}

	if len(r.Errors) == 0 {
		fmt.Println("No errors detected.")
		return
	}
	fmt.Printf("%s %d\n", labelStyle.Render("Errors:"), len(r.Errors))
	for _, e := range r.Errors {
		line := fmt.Sprintf("  [%s/%s] %s", e.Type, e.Category, e.Pattern)
		if e.LearnerProduction != "" {
			line += fmt.Sprintf(": %q", e.LearnerProduction)
		}
		if e.CorrectForm != "" {
			line += fmt.Sprintf(" should be %q", e.CorrectForm)
		}
		line += fmt.Sprintf(" (%s)", e.Severity)
		fmt.Println(line)
	}
}
