package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/rehearse/internal/export"
	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/speech"
)

var questionsCmd = &cobra.Command{
	Use:   "questions <role>",
	Short: "Generate a question set and print it",
	Long: "Generate a question set for a role and print it with the expected answer points.\n" +
		"With --answer, one answer per question is read from stdin, scored, and a report is printed.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		role := strings.Join(args, " ")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applyPracticeFlags(cmd, cfg); err != nil {
			return err
		}
		if n, _ := cmd.Flags().GetInt("count"); n > 0 {
			cfg.Interview.QuestionsPerSet = n
		}
		answer, _ := cmd.Flags().GetBool("answer")

		log, err := newLogger(cfg, false)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()

		st, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		src, err := buildSources(ctx, cfg, st.EventRepo(), log)
		if err != nil {
			return err
		}
		jd, err := cfg.JobDescription()
		if err != nil {
			return err
		}

		capture := speech.NewScripted()
		sess := interview.NewSession(src.Source, capture,
			interview.WithLogger(log),
			interview.WithQuestionCount(cfg.Interview.QuestionsPerSet),
		)
		if err := sess.LoadQuestions(ctx, role, cfg.Difficulty(), interview.WithJobDescription(jd)); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !answer {
			printQuestionSet(out, sess)
			return nil
		}
		return answerFromReader(cmd, sess, capture, cmd.InOrStdin(), out)
	},
}

func printQuestionSet(w io.Writer, sess *interview.Session) {
	fmt.Fprintf(w, "%s (%s)\n\n", sess.Topic(), sess.Difficulty().Label())
	for i, q := range sess.Questions() {
		fmt.Fprintf(w, "%d. %s\n", i+1, q.Text)
		fmt.Fprintf(w, "   Topic: %s\n", q.Topic)
		for _, p := range q.ExpectedPoints {
			fmt.Fprintf(w, "   - %s\n", p)
		}
		for _, f := range q.FollowUps {
			fmt.Fprintf(w, "   Follow-up: %s\n", f)
		}
		fmt.Fprintln(w)
	}
	if tips := sess.Tips(); len(tips) > 0 {
		fmt.Fprintln(w, "Tips:")
		for _, t := range tips {
			fmt.Fprintf(w, "  * %s\n", t)
		}
	}
}

// answerFromReader reads one line per question, scores it and prints the
// report. Stops early at end of input.
func answerFromReader(cmd *cobra.Command, sess *interview.Session, capture *speech.Scripted, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()
	sc := bufio.NewScanner(in)
	for i, q := range sess.Questions() {
		fmt.Fprintf(out, "Q%d. %s\n> ", i+1, q.Text)
		if !sc.Scan() {
			fmt.Fprintln(out)
			break
		}
		capture.Push(sc.Text())
		if err := sess.StartRecording(ctx); err != nil {
			return err
		}
		a, err := sess.StopRecording(q)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "   %d%%  %d/5  %s\n\n", a.Score.Percent, a.Score.Stars, a.Score.Remark)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read answers: %w", err)
	}
	if sess.AnswerCount() == 0 {
		return fmt.Errorf("no answers given")
	}

	rep, err := sess.EndInterview()
	if err != nil {
		return err
	}
	fmt.Fprint(out, export.Text(rep, nil))
	return nil
}

func init() {
	f := questionsCmd.Flags()
	f.StringP("difficulty", "d", "", "beginner, intermediate or advanced")
	f.String("job-description", "", "File with a job description to tailor the questions")
	f.IntP("count", "n", 0, "Number of questions (default from interview.questions_per_set)")
	f.Bool("answer", false, "Read one answer per question from stdin and score it")
}
