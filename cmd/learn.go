package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/teachback/internal/app"
	"github.com/abhisek/teachback/internal/dialogue"
	"github.com/abhisek/teachback/internal/report"
	"github.com/abhisek/teachback/internal/session"
)

type learnOptions struct {
	topic   string
	learner string
	resume  bool
}

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Start a teach-back session",
	Long: "Start an interactive teach-back session on stdin/stdout. Lines starting with ':' are " +
		"commands (:help lists them); anything else is your answer for the current step.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts learnOptions
		opts.topic, _ = cmd.Flags().GetString("topic")
		opts.learner, _ = cmd.Flags().GetString("learner")
		opts.resume, _ = cmd.Flags().GetBool("resume")
		return runLearn(cmd, opts)
	},
}

func runLearn(cmd *cobra.Command, opts learnOptions) error {
	ctx := cmd.Context()
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	a, err := app.New(ctx, app.Options{Config: rt.cfg, Store: rt.store, Logger: rt.log})
	if err != nil {
		return err
	}
	rt.log.Debug("lessons", "source", a.LessonSource())

	ctrl := a.Controller(opts.learner)
	defer ctrl.Close()

	s := ctrl.Restore(ctx)
	if (!opts.resume || opts.topic != "") && s.Phase != session.PhaseSetup {
		if err := ctrl.NewTopic(ctx); err != nil {
			return fmt.Errorf("reset session: %w", err)
		}
	}
	if opts.topic != "" {
		if err := ctrl.SelectTopic(ctx, opts.topic); err != nil {
			return err
		}
		if err := ctrl.Next(ctx); err != nil && !session.IsContentError(err) {
			return err
		}
	}

	r := report.New(useColor(os.Stdout))
	voice := dialogue.NewLineVoice(cmd.InOrStdin(), cmd.OutOrStdout(), r.StudentPrefix())
	return app.NewTerminal(ctrl, voice, cmd.OutOrStdout(), r, a).Run(ctx)
}

func init() {
	learnCmd.Flags().StringP("topic", "t", "", "Start on this topic id (see `teachback topics list`)")
	learnCmd.Flags().String("learner", "", "Learner name whose progress is used (default from config)")
	learnCmd.Flags().Bool("resume", false, "Continue the saved session instead of starting over")
}
